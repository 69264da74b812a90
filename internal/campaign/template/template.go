// Package template owns document templates: versioned markdown bodies
// with a Jinja2-style variable substitution step rendered through gonja,
// the library this corpus's markdown-adjacent tooling reaches for (the
// teacher renders flat strings; gonja adds the conditionals/defaults
// spec.md's variables_schema implies templates can express).
package template

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/nikolalohinski/gonja"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// fixedTemplatePaths maps a template_id to the bundled template file
// shipped under the storage options' templates directory; an id not in
// this map falls back to a generic document template.
var fixedTemplatePaths = map[string]string{
	"session-notes":              "session-notes.md.j2",
	"npc-sheet":                  "npc-sheet.md.j2",
	"location":                   "location.md.j2",
	"module-overview-general":    "module-overview-general.md.j2",
	"module-overview-mystery":    "module-overview-mystery.md.j2",
	"module-overview-dungeon":    "module-overview-dungeon.md.j2",
	"module-overview-heist":      "module-overview-heist.md.j2",
	"module-overview-horror":     "module-overview-horror.md.j2",
	"module-overview-political":  "module-overview-political.md.j2",
	"module-play-notes":          "module-play-notes.md.j2",
	"handout":                    "handout.md.j2",
}

const fallbackTemplatePath = "generic-document.md.j2"

// PathFor resolves a template_id to its bundled file name.
func PathFor(templateID string) string {
	if p, ok := fixedTemplatePaths[templateID]; ok {
		return p
	}
	return fallbackTemplatePath
}

// Version is one template_documents row.
type Version struct {
	DocumentID      string
	VersionNumber   int
	Content         string
	ContentHash     string
	DocType         string
	Level           string
	Purpose         string
	VariablesSchema []Variable
	DefaultValues   map[string]any
	IsActive        bool
}

// Variable describes one substitution slot a template exposes.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// CreateVersion inserts a new template version and, if isActive is set,
// deactivates every other version of the same document.
func (s *Service) CreateVersion(v Version) error {
	sum := sha256.Sum256([]byte(v.Content))
	v.ContentHash = hex.EncodeToString(sum[:])

	schemaJSON, err := json.Marshal(v.VariablesSchema)
	if err != nil {
		return apperr.NewInvalidData("encode variables schema: " + err.Error())
	}
	defaultsJSON, err := json.Marshal(v.DefaultValues)
	if err != nil {
		return apperr.NewInvalidData("encode default values: " + err.Error())
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	defer tx.Rollback()

	if v.IsActive {
		if _, err := tx.Exec(`UPDATE template_documents SET is_active = 0 WHERE document_id = ?`, v.DocumentID); err != nil {
			return apperr.NewDatabase(err, false)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO template_documents (document_id, version_number, content, content_hash, doc_type, level,
			purpose, variables_schema, default_values, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.DocumentID, v.VersionNumber, v.Content, v.ContentHash, v.DocType, v.Level, v.Purpose,
		string(schemaJSON), string(defaultsJSON), boolInt(v.IsActive), now)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}

	return tx.Commit()
}

// ActiveVersion fetches the active template version for a document.
func (s *Service) ActiveVersion(documentID string) (*Version, error) {
	var v Version
	var schemaJSON, defaultsJSON string
	var isActive int
	row := s.db.QueryRow(`
		SELECT document_id, version_number, content, content_hash, doc_type, level, purpose,
			variables_schema, default_values, is_active
		FROM template_documents WHERE document_id = ? AND is_active = 1
	`, documentID)
	if err := row.Scan(&v.DocumentID, &v.VersionNumber, &v.Content, &v.ContentHash, &v.DocType, &v.Level,
		&v.Purpose, &schemaJSON, &defaultsJSON, &isActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("template_documents", documentID)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	_ = json.Unmarshal([]byte(schemaJSON), &v.VariablesSchema)
	_ = json.Unmarshal([]byte(defaultsJSON), &v.DefaultValues)
	v.IsActive = isActive != 0
	return &v, nil
}

// ListActive returns the active version of every template document —
// the seeded set plus any user-defined templates — for the
// `list_templates` tool and template-picker UI.
func (s *Service) ListActive() ([]Version, error) {
	rows, err := s.db.Query(`
		SELECT document_id, version_number, content, content_hash, doc_type, level, purpose,
			variables_schema, default_values, is_active
		FROM template_documents WHERE is_active = 1 ORDER BY document_id
	`)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		var v Version
		var schemaJSON, defaultsJSON string
		var isActive int
		if err := rows.Scan(&v.DocumentID, &v.VersionNumber, &v.Content, &v.ContentHash, &v.DocType, &v.Level,
			&v.Purpose, &schemaJSON, &defaultsJSON, &isActive); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		_ = json.Unmarshal([]byte(schemaJSON), &v.VariablesSchema)
		_ = json.Unmarshal([]byte(defaultsJSON), &v.DefaultValues)
		v.IsActive = isActive != 0
		out = append(out, v)
	}
	return out, nil
}

// Render substitutes vars (merged over the version's DefaultValues) into
// the template content via gonja's Jinja2-compatible engine.
func (s *Service) Render(v *Version, vars map[string]any) (string, error) {
	merged := map[string]any{}
	for k, val := range v.DefaultValues {
		merged[k] = val
	}
	for k, val := range vars {
		merged[k] = val
	}

	for _, variable := range v.VariablesSchema {
		if variable.Required {
			if _, ok := merged[variable.Name]; !ok {
				return "", apperr.NewValidation("missing required template variable: " + variable.Name)
			}
		}
	}

	tpl, err := gonja.FromString(v.Content)
	if err != nil {
		return "", apperr.NewCompilation("parse template: " + err.Error())
	}
	out, err := tpl.Execute(gonja.Context(merged))
	if err != nil {
		return "", apperr.NewCompilation("render template: " + err.Error())
	}
	return out, nil
}

// GenerateDocument renders the version and returns bytes ready to hand to
// document.Service.Create.
func (s *Service) GenerateDocument(v *Version, vars map[string]any) ([]byte, error) {
	rendered, err := s.Render(v, vars)
	if err != nil {
		return nil, err
	}
	return []byte(rendered), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
