// Package document owns campaign documents: markdown content backed by
// both a file on disk and a documents row, kept searchable through the
// documents_fts virtual table (wired via triggers in storage/db). A
// document may be template-backed (created from a template_documents
// version) or user-authored from scratch.
package document

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

type Document struct {
	ID            string
	CampaignID    string
	ModuleID      string
	SessionID     string
	TemplateID    string
	DocumentType  string
	Title         string
	FilePath      string
	IsUserCreated bool
	ContentHash   string
	CompletedAt   string
}

type Service struct {
	db *sql.DB
	fs *fsstore.Root
}

func New(db *sql.DB, fs *fsstore.Root) *Service {
	return &Service{db: db, fs: fs}
}

// Create writes content to disk and inserts the matching row. An
// absolute path is used as given; a relative path such as
// "campaigns/{id}/notes.md" is resolved against the data directory root.
func (s *Service) Create(d Document, path string, content []byte) (*Document, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(s.fs.CampaignsDir()), path)
	}
	d.ID = uuid.New().String()
	d.FilePath = path
	d.ContentHash = hashContent(content)

	if err := s.fs.WriteFile(path, content); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO documents (id, campaign_id, module_id, session_id, template_id, document_type,
			title, file_path, is_user_created, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.CampaignID, nullIfEmpty(d.ModuleID), nullIfEmpty(d.SessionID), nullIfEmpty(d.TemplateID),
		d.DocumentType, d.Title, d.FilePath, boolInt(d.IsUserCreated), d.ContentHash, now, now)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	return &d, nil
}

// UpdateContent rewrites the file and bumps content_hash/updated_at. The
// FTS index itself is kept consistent by the documents_au trigger, not by
// application code here — this only needs to touch the documents row for
// the trigger to fire (the triggers index the title only and leave the
// FTS content column empty, so body text is not searchable).
func (s *Service) UpdateContent(id string, content []byte) error {
	d, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(d.FilePath, content); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`UPDATE documents SET content_hash = ?, updated_at = ? WHERE id = ?`, hashContent(content), now, id)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}

func (s *Service) Get(id string) (*Document, error) {
	var d Document
	var moduleID, sessionID, templateID, completedAt sql.NullString
	var isUserCreated int
	row := s.db.QueryRow(`
		SELECT id, campaign_id, module_id, session_id, template_id, document_type, title, file_path,
			is_user_created, content_hash, completed_at
		FROM documents WHERE id = ?
	`, id)
	if err := row.Scan(&d.ID, &d.CampaignID, &moduleID, &sessionID, &templateID, &d.DocumentType, &d.Title,
		&d.FilePath, &isUserCreated, &d.ContentHash, &completedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("document", id)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	d.ModuleID = moduleID.String
	d.SessionID = sessionID.String
	d.TemplateID = templateID.String
	d.IsUserCreated = isUserCreated != 0
	d.CompletedAt = completedAt.String
	return &d, nil
}

// ReadContent reads a document's file content from disk.
func (s *Service) ReadContent(id string) ([]byte, error) {
	d, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.fs.ReadFile(d.FilePath)
}

// Complete marks a document completed (spec.md's document completion
// operation).
func (s *Service) Complete(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`UPDATE documents SET completed_at = ?, updated_at = ? WHERE id = ?`, now, now, id)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	if n == 0 {
		return apperr.NewNotFound("document", id)
	}
	return nil
}

// Level derives a document's bucket — "handout", "session", "module",
// or "campaign" — from which foreign keys are set plus document_type,
// rather than storing it as its own column.
func (d Document) Level() string {
	switch {
	case d.DocumentType == "handout":
		return "handout"
	case d.SessionID != "":
		return "session"
	case d.ModuleID != "":
		return "module"
	default:
		return "campaign"
	}
}

// ListFiltered returns a campaign's documents filtered by level and/or
// owning module/session, any of which may be empty to mean "no
// restriction" on that dimension.
func (s *Service) ListFiltered(campaignID, level, moduleID, sessionID string) ([]Document, error) {
	query := `
		SELECT id, campaign_id, module_id, session_id, template_id, document_type, title, file_path,
			is_user_created, content_hash, completed_at
		FROM documents WHERE campaign_id = ?`
	args := []any{campaignID}

	if moduleID != "" {
		query += " AND module_id = ?"
		args = append(args, moduleID)
	}
	if sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var moduleIDNullable, sessionIDNullable, templateID, completedAt sql.NullString
		var isUserCreated int
		if err := rows.Scan(&d.ID, &d.CampaignID, &moduleIDNullable, &sessionIDNullable, &templateID, &d.DocumentType,
			&d.Title, &d.FilePath, &isUserCreated, &d.ContentHash, &completedAt); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		d.ModuleID = moduleIDNullable.String
		d.SessionID = sessionIDNullable.String
		d.TemplateID = templateID.String
		d.IsUserCreated = isUserCreated != 0
		d.CompletedAt = completedAt.String

		if level != "" && d.Level() != level {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// ListByModule returns every document belonging to a module, ordered by
// creation time, for the level-bucketed module view.
func (s *Service) ListByModule(moduleID string) ([]Document, error) {
	rows, err := s.db.Query(`
		SELECT id, campaign_id, module_id, session_id, template_id, document_type, title, file_path,
			is_user_created, content_hash, completed_at
		FROM documents WHERE module_id = ? ORDER BY created_at ASC
	`, moduleID)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var sessionID, templateID, completedAt sql.NullString
		var isUserCreated int
		var moduleIDNullable sql.NullString
		if err := rows.Scan(&d.ID, &d.CampaignID, &moduleIDNullable, &sessionID, &templateID, &d.DocumentType,
			&d.Title, &d.FilePath, &isUserCreated, &d.ContentHash, &completedAt); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		d.ModuleID = moduleIDNullable.String
		d.SessionID = sessionID.String
		d.TemplateID = templateID.String
		d.IsUserCreated = isUserCreated != 0
		d.CompletedAt = completedAt.String
		out = append(out, d)
	}
	return out, nil
}

// Search runs a full-text query against documents_fts, scoped to a
// campaign. Only document titles are indexed there.
func (s *Service) Search(campaignID, queryText string) ([]Document, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.campaign_id, d.module_id, d.session_id, d.template_id, d.document_type, d.title,
			d.file_path, d.is_user_created, d.content_hash, d.completed_at
		FROM documents d
		JOIN documents_fts f ON f.rowid = d.rowid
		WHERE documents_fts MATCH ? AND d.campaign_id = ?
		ORDER BY rank
	`, queryText, campaignID)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		var moduleID, sessionID, templateID, completedAt sql.NullString
		var isUserCreated int
		if err := rows.Scan(&d.ID, &d.CampaignID, &moduleID, &sessionID, &templateID, &d.DocumentType,
			&d.Title, &d.FilePath, &isUserCreated, &d.ContentHash, &completedAt); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		d.ModuleID = moduleID.String
		d.SessionID = sessionID.String
		d.TemplateID = templateID.String
		d.IsUserCreated = isUserCreated != 0
		d.CompletedAt = completedAt.String
		out = append(out, d)
	}
	return out, nil
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
