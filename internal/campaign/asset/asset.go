// Package asset owns campaign assets: uploaded images and files attached
// to exactly one owner (a campaign or a module, never both, never
// neither), stored under a UUID blob path.
package asset

import (
	"database/sql"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

// allowedMIMETypes is the upload allow-list; anything else is rejected
// before the file ever touches disk.
var allowedMIMETypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"image/gif":       true,
	"application/pdf": true,
	"text/plain":      true,
	"text/markdown":   true,
}

type Asset struct {
	ID               string
	CampaignID       string
	ModuleID         string
	OriginalFilename string
	MimeType         string
	BlobPath         string
	SizeBytes        int64
}

type Service struct {
	db *sql.DB
	fs *fsstore.Root
}

func New(db *sql.DB, fs *fsstore.Root) *Service {
	return &Service{db: db, fs: fs}
}

// Upload validates exactly-one-owner and the MIME allow-list, writes the
// blob, and inserts the row.
func (s *Service) Upload(campaignID, moduleID, originalFilename, mimeType string, data []byte) (*Asset, error) {
	hasCampaign := campaignID != ""
	hasModule := moduleID != ""
	if hasCampaign == hasModule {
		return nil, apperr.NewValidation("an asset must belong to exactly one of campaign or module")
	}
	if !allowedMIMETypes[mimeType] {
		return nil, apperr.NewValidation("unsupported asset mime type: " + mimeType)
	}

	ownerID := campaignID
	if hasModule {
		ownerID = moduleID
	}
	blobPath := s.fs.NewAssetPath(ownerID, originalFilename)
	if err := s.fs.WriteFile(blobPath, data); err != nil {
		return nil, err
	}

	a := &Asset{
		ID: uuid.New().String(), CampaignID: campaignID, ModuleID: moduleID,
		OriginalFilename: originalFilename, MimeType: mimeType, BlobPath: blobPath, SizeBytes: int64(len(data)),
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO campaign_assets (id, campaign_id, module_id, original_filename, mime_type, blob_path, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, nullIfEmpty(a.CampaignID), nullIfEmpty(a.ModuleID), a.OriginalFilename, a.MimeType, a.BlobPath, a.SizeBytes, now)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	return a, nil
}

func (s *Service) Get(id string) (*Asset, error) {
	var a Asset
	var campaignID, moduleID sql.NullString
	row := s.db.QueryRow(`
		SELECT id, campaign_id, module_id, original_filename, mime_type, blob_path, size_bytes
		FROM campaign_assets WHERE id = ?
	`, id)
	if err := row.Scan(&a.ID, &campaignID, &moduleID, &a.OriginalFilename, &a.MimeType, &a.BlobPath, &a.SizeBytes); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("asset", id)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	a.CampaignID = campaignID.String
	a.ModuleID = moduleID.String
	return &a, nil
}

// Delete removes the row and best-effort removes the blob: a missing
// file on disk should not block the database row from being cleaned up.
func (s *Service) Delete(id string) error {
	a, err := s.Get(id)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM campaign_assets WHERE id = ?`, id); err != nil {
		return apperr.NewDatabase(err, false)
	}
	_ = tryRemove(a.BlobPath)
	return nil
}

func tryRemove(path string) error {
	return os.Remove(path)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
