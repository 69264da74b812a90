// Package sources tracks which books have been imported into the catalog
// and which have been uploaded as campaign reference material, and
// short-circuits a re-import when the book's content hasn't changed
// (spec.md §4.2 "idempotent re-import").
package sources

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/catalog/model"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// HashFile computes the content hash used to detect an unchanged book.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperr.NewIo("open "+path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", apperr.NewIo("hash "+path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NeedsImport reports whether sourceName's recorded file hash differs
// from the current file's hash (or the source hasn't been imported yet).
func (s *Service) NeedsImport(sourceName, filePath string) (bool, string, error) {
	hash, err := HashFile(filePath)
	if err != nil {
		return false, "", err
	}

	var existing string
	err = s.db.QueryRow(`SELECT file_hash FROM catalog_sources WHERE source_name = ?`, sourceName).Scan(&existing)
	if err == sql.ErrNoRows {
		return true, hash, nil
	}
	if err != nil {
		return false, "", apperr.NewDatabase(err, false)
	}
	return existing != hash, hash, nil
}

// RecordImport upserts the catalog_sources row after a successful import.
func (s *Service) RecordImport(sourceName, catalogType, filePath, fileHash string, recordCount int) error {
	_, err := s.db.Exec(`
		INSERT INTO catalog_sources (source_name, catalog_type, file_path, file_hash, record_count, last_imported)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_name) DO UPDATE SET
			catalog_type = excluded.catalog_type, file_path = excluded.file_path,
			file_hash = excluded.file_hash, record_count = excluded.record_count,
			last_imported = excluded.last_imported
	`, sourceName, catalogType, filePath, fileHash, recordCount, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}

// ListSources returns every recorded catalog source.
func (s *Service) ListSources() ([]model.Source, error) {
	rows, err := s.db.Query(`SELECT source_name, catalog_type, file_path, file_hash, record_count, last_imported FROM catalog_sources ORDER BY source_name`)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []model.Source
	for rows.Next() {
		var src model.Source
		if err := rows.Scan(&src.SourceName, &src.CatalogType, &src.FilePath, &src.FileHash, &src.RecordCount, &src.LastImported); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		out = append(out, src)
	}
	return out, nil
}

// UploadedBook is a book a user attached to the library for reference,
// independent of whether it has been indexed into the catalog tables
// (spec.md's uploaded_books supplement from original_source).
type UploadedBook struct {
	ID              string
	DisplayName     string
	StorageLocation string
	ArchivePath     string
	SourceCode      string
	UploadedAt      string
}

func (s *Service) RecordUpload(b UploadedBook) (string, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT INTO uploaded_books (id, display_name, storage_location, archive_path, source_code, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.DisplayName, b.StorageLocation, b.ArchivePath, nullIfEmpty(b.SourceCode), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", apperr.NewDatabase(err, false)
	}
	return b.ID, nil
}

func (s *Service) ListUploadedBooks() ([]UploadedBook, error) {
	rows, err := s.db.Query(`SELECT id, display_name, storage_location, archive_path, source_code, uploaded_at FROM uploaded_books ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []UploadedBook
	for rows.Next() {
		var b UploadedBook
		var sourceCode sql.NullString
		if err := rows.Scan(&b.ID, &b.DisplayName, &b.StorageLocation, &b.ArchivePath, &sourceCode, &b.UploadedAt); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		b.SourceCode = sourceCode.String
		out = append(out, b)
	}
	return out, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
