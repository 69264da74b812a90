// Package campaign owns the campaign lifecycle: creation, status
// transitions, archiving, and deletion (including its on-disk tree).
package campaign

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

// Status is the campaign lifecycle state (spec.md §3).
const (
	StatusConcept  = "concept"
	StatusActive   = "active"
	StatusHiatus   = "hiatus"
	StatusComplete = "complete"
)

// validTransitions enumerates the allowed status graph; a transition not
// listed here is rejected rather than silently allowed.
var validTransitions = map[string][]string{
	StatusConcept:  {StatusActive},
	StatusActive:   {StatusHiatus, StatusComplete},
	StatusHiatus:   {StatusActive, StatusComplete},
	StatusComplete: {},
}

type Campaign struct {
	ID              string
	Name            string
	Status          string
	DirectoryPath   string
	CreatedAt       string
	LastActivityAt  string
	SessionZeroDate string
	ArchivedAt      string
}

type Service struct {
	db *sql.DB
	fs *fsstore.Root
}

func New(db *sql.DB, fs *fsstore.Root) *Service {
	return &Service{db: db, fs: fs}
}

func (s *Service) Create(name string) (*Campaign, error) {
	id := uuid.New().String()
	dir, err := s.fs.CampaignDir(id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	c := &Campaign{ID: id, Name: name, Status: StatusConcept, DirectoryPath: dir, CreatedAt: now, LastActivityAt: now}

	_, err = s.db.Exec(`
		INSERT INTO campaigns (id, name, status, directory_path, created_at, last_activity_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Status, c.DirectoryPath, c.CreatedAt, c.LastActivityAt)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	return c, nil
}

func (s *Service) Get(id string) (*Campaign, error) {
	var c Campaign
	var sessionZero, archivedAt sql.NullString
	row := s.db.QueryRow(`
		SELECT id, name, status, directory_path, created_at, last_activity_at, session_zero_date, archived_at
		FROM campaigns WHERE id = ?
	`, id)
	if err := row.Scan(&c.ID, &c.Name, &c.Status, &c.DirectoryPath, &c.CreatedAt, &c.LastActivityAt, &sessionZero, &archivedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("campaign", id)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	c.SessionZeroDate = sessionZero.String
	c.ArchivedAt = archivedAt.String
	return &c, nil
}

func (s *Service) List() ([]Campaign, error) {
	rows, err := s.db.Query(`
		SELECT id, name, status, directory_path, created_at, last_activity_at
		FROM campaigns WHERE archived_at IS NULL ORDER BY last_activity_at DESC
	`)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.DirectoryPath, &c.CreatedAt, &c.LastActivityAt); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		out = append(out, c)
	}
	return out, nil
}

// Transition moves a campaign to a new status, rejecting transitions not
// on the allowed graph.
func (s *Service) Transition(id, newStatus string) error {
	c, err := s.Get(id)
	if err != nil {
		return err
	}
	allowed := validTransitions[c.Status]
	ok := false
	for _, st := range allowed {
		if st == newStatus {
			ok = true
			break
		}
	}
	if !ok {
		return apperr.NewInvalidArgument("cannot transition campaign from " + c.Status + " to " + newStatus)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`UPDATE campaigns SET status = ?, last_activity_at = ? WHERE id = ?`, newStatus, now, id); err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}

func (s *Service) Archive(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`UPDATE campaigns SET archived_at = ? WHERE id = ? AND archived_at IS NULL`, now, id)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	return mustAffect(res, "campaign", id)
}

func (s *Service) Unarchive(id string) error {
	res, err := s.db.Exec(`UPDATE campaigns SET archived_at = NULL WHERE id = ?`, id)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	return mustAffect(res, "campaign", id)
}

// Delete removes the campaign row (cascading to modules/documents/etc via
// foreign keys) and its on-disk tree, retrying the filesystem removal to
// absorb a transient Windows file-lock.
func (s *Service) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM campaigns WHERE id = ?`, id); err != nil {
		return apperr.NewDatabase(err, false)
	}
	return s.fs.RemoveCampaignTreeWithRetry(id, 5, 200*time.Millisecond)
}

func mustAffect(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	if n == 0 {
		return apperr.NewNotFound(entity, id)
	}
	return nil
}
