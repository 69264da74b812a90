// Package module owns campaign modules: their ordering (a dense
// 1..count module_number sequence per campaign) and the reorder
// operation, which is grounded line-for-line on original_source's
// dal/campaign/module.rs reorder_module — a sentinel-value dance around
// the UNIQUE(campaign_id, module_number) constraint SQLite enforces the
// same way Diesel's Postgres/SQLite backend does. Create also mirrors
// original_source's services/module.rs::create, which auto-provisions a
// type-specific overview document and a blank play-notes document
// alongside the module row.
package module

import (
	"database/sql"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/campaign/document"
	"github.com/mimir-dm/mimir-dm-go/internal/campaign/template"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

// overviewTemplateID returns the type-specific module-overview template
// id for a module type, falling back to the general one for an unknown
// or empty type.
func overviewTemplateID(moduleType string) string {
	switch moduleType {
	case "mystery", "dungeon", "heist", "horror", "political":
		return "module-overview-" + moduleType
	default:
		return "module-overview-general"
	}
}

const playNotesTemplateID = "module-play-notes"

type Module struct {
	ID               string
	CampaignID       string
	Name             string
	ModuleNumber     int
	Status           string
	ModuleType       string
	ExpectedSessions *int
	ActualSessions   int
}

type Service struct {
	db        *sql.DB
	fs        *fsstore.Root
	templates *template.Service
	documents *document.Service
}

func New(db *sql.DB, fs *fsstore.Root, templates *template.Service, documents *document.Service) *Service {
	return &Service{db: db, fs: fs, templates: templates, documents: documents}
}

// Create appends a module at the end of the campaign's module sequence,
// then immediately provisions its overview and play-notes documents
// from templates.
func (s *Service) Create(m Module) (*Module, error) {
	next, err := s.nextModuleNumber(m.CampaignID)
	if err != nil {
		return nil, err
	}
	m.ID = uuid.New().String()
	m.ModuleNumber = next
	if m.Status == "" {
		m.Status = "concept"
	}
	if m.ModuleType == "" {
		m.ModuleType = "general"
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`
		INSERT INTO modules (id, campaign_id, name, module_number, status, module_type, expected_sessions, actual_sessions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, m.ID, m.CampaignID, m.Name, m.ModuleNumber, m.Status, m.ModuleType, m.ExpectedSessions, now, now)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}

	if err := s.provisionDocument(m, overviewTemplateID(m.ModuleType), "module_overview", "Module Overview"); err != nil {
		return nil, err
	}
	if err := s.provisionDocument(m, playNotesTemplateID, "play_notes", "Play Notes"); err != nil {
		return nil, err
	}

	return &m, nil
}

// provisionDocument renders a template's active version and writes it as
// a new document scoped to the module.
func (s *Service) provisionDocument(m Module, templateID, docType, title string) error {
	v, err := s.templates.ActiveVersion(templateID)
	if err != nil {
		return err
	}
	content, err := s.templates.GenerateDocument(v, nil)
	if err != nil {
		return err
	}
	dir, err := s.fs.ModuleDir(m.CampaignID, m.ID)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, docType+".md")

	_, err = s.documents.Create(document.Document{
		CampaignID:   m.CampaignID,
		ModuleID:     m.ID,
		TemplateID:   templateID,
		DocumentType: docType,
		Title:        title,
	}, path, content)
	return err
}

func (s *Service) nextModuleNumber(campaignID string) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(module_number) FROM modules WHERE campaign_id = ?`, campaignID).Scan(&max)
	if err != nil {
		return 0, apperr.NewDatabase(err, false)
	}
	return int(max.Int64) + 1, nil
}

func (s *Service) Get(id string) (*Module, error) {
	var m Module
	var expected sql.NullInt64
	row := s.db.QueryRow(`
		SELECT id, campaign_id, name, module_number, status, module_type, expected_sessions, actual_sessions
		FROM modules WHERE id = ?
	`, id)
	if err := row.Scan(&m.ID, &m.CampaignID, &m.Name, &m.ModuleNumber, &m.Status, &m.ModuleType, &expected, &m.ActualSessions); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("module", id)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	if expected.Valid {
		v := int(expected.Int64)
		m.ExpectedSessions = &v
	}
	return &m, nil
}

func (s *Service) count(campaignID string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM modules WHERE campaign_id = ?`, campaignID).Scan(&n); err != nil {
		return 0, apperr.NewDatabase(err, false)
	}
	return n, nil
}

// Reorder moves moduleID to newPosition within its campaign's 1..count
// sequence, shifting every module between the old and new position by
// one. The shift is walked one row at a time in a direction chosen so no
// intermediate UPDATE collides with the UNIQUE(campaign_id,
// module_number) constraint; the target module is parked at the
// sentinel value -1 for the duration so it never collides with the
// modules being shifted past it.
func (s *Service) Reorder(campaignID, moduleID string, newPosition int) error {
	m, err := s.Get(moduleID)
	if err != nil {
		return err
	}
	if m.CampaignID != campaignID {
		return apperr.NewNotFound("module", moduleID)
	}
	current := m.ModuleNumber
	if current == newPosition {
		return nil
	}

	total, err := s.count(campaignID)
	if err != nil {
		return err
	}
	if newPosition < 1 || newPosition > total {
		return apperr.NewInvalidArgument("new position out of range")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE modules SET module_number = -1, updated_at = ? WHERE id = ?`, now, moduleID); err != nil {
		return apperr.NewDatabase(err, false)
	}

	if current < newPosition {
		for pos := current + 1; pos <= newPosition; pos++ {
			if _, err := tx.Exec(`
				UPDATE modules SET module_number = ?, updated_at = ?
				WHERE campaign_id = ? AND module_number = ?
			`, pos-1, now, campaignID, pos); err != nil {
				return apperr.NewDatabase(err, false)
			}
		}
	} else {
		for pos := current - 1; pos >= newPosition; pos-- {
			if _, err := tx.Exec(`
				UPDATE modules SET module_number = ?, updated_at = ?
				WHERE campaign_id = ? AND module_number = ?
			`, pos+1, now, campaignID, pos); err != nil {
				return apperr.NewDatabase(err, false)
			}
		}
	}

	if _, err := tx.Exec(`UPDATE modules SET module_number = ?, updated_at = ? WHERE id = ?`, newPosition, now, moduleID); err != nil {
		return apperr.NewDatabase(err, false)
	}

	if err := tx.Commit(); err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}

// List returns every module of a campaign ordered by module_number.
func (s *Service) List(campaignID string) ([]Module, error) {
	rows, err := s.db.Query(`
		SELECT id, campaign_id, name, module_number, status, module_type, expected_sessions, actual_sessions
		FROM modules WHERE campaign_id = ? ORDER BY module_number ASC
	`, campaignID)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Module
	for rows.Next() {
		var m Module
		var expected sql.NullInt64
		if err := rows.Scan(&m.ID, &m.CampaignID, &m.Name, &m.ModuleNumber, &m.Status, &m.ModuleType, &expected, &m.ActualSessions); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		if expected.Valid {
			v := int(expected.Int64)
			m.ExpectedSessions = &v
		}
		out = append(out, m)
	}
	return out, nil
}
