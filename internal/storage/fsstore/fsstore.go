// Package fsstore owns the on-disk tree rooted at the data directory:
// campaign directories (each with its own maps/ subtree), the shared
// assets/ and books/ blob roots, and the
// UUID-keyed blob paths the campaign and map services write through.
// The directory layout is grounded on the bring-up sequence in
// original_source's app_init (campaigns live under a user-chosen or
// default "Campaigns" directory, created with create_dir_all on first
// run) generalized to the desktop-agnostic data root spec.md §6 names.
package fsstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Root is the filesystem tree rooted at a data directory.
type Root struct {
	base string
}

// New ensures the base layout exists and returns a handle to it.
func New(dataDir string) (*Root, error) {
	r := &Root{base: dataDir}
	for _, dir := range []string{
		r.CampaignsDir(),
		r.BooksDir(),
		filepath.Join(r.base, "templates"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperr.NewIo("mkdir "+dir, err)
		}
	}
	return r, nil
}

func (r *Root) CampaignsDir() string { return filepath.Join(r.base, "campaigns") }
func (r *Root) BooksDir() string     { return filepath.Join(r.base, "books") }

// CampaignDir returns (and ensures) the directory for one campaign, laid
// out with maps/ and assets/ subtrees as spec.md §3's directory_path
// fields expect.
func (r *Root) CampaignDir(campaignID string) (string, error) {
	dir := filepath.Join(r.CampaignsDir(), campaignID)
	for _, sub := range []string{"", "maps", "assets", "modules"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return "", apperr.NewIo("mkdir "+dir, err)
		}
	}
	return dir, nil
}

// ModuleDir returns (and ensures) a module's subdirectory within its
// campaign, where auto-provisioned documents (overview.md, play notes)
// are written.
func (r *Root) ModuleDir(campaignID, moduleID string) (string, error) {
	dir := filepath.Join(r.CampaignsDir(), campaignID, "modules", moduleID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.NewIo("mkdir "+dir, err)
	}
	return dir, nil
}

// CharacterDir returns (and ensures) a character's version-history
// directory.
func (r *Root) CharacterDir(characterID string) (string, error) {
	dir := filepath.Join(r.base, "characters", characterID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.NewIo("mkdir "+dir, err)
	}
	return dir, nil
}

// NewAssetPath allocates a UUID-named blob path under the shared assets/
// root, preserving the original extension for MIME sniffing
// convenience. The owner id passed in does not enter the path.
func (r *Root) NewAssetPath(campaignID, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return filepath.Join(r.base, "assets", uuid.NewString()+ext)
}

// NewMapImagePath allocates a UUID-named blob path under a campaign's
// maps/ directory for an uploaded map image.
func (r *Root) NewMapImagePath(campaignID, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return filepath.Join(r.CampaignsDir(), campaignID, "maps", uuid.NewString()+ext)
}

// WriteFile writes data to an absolute path under the root, creating
// parent directories as needed.
func (r *Root) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.NewIo("mkdir "+filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.NewIo("write "+path, err)
	}
	return nil
}

// ReadFile reads an absolute path under the root.
func (r *Root) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.NewIo("read "+path, err)
	}
	return data, nil
}

// RemoveCampaignTree deletes a campaign's directory tree. Deleting a
// directory that other processes (an antivirus scanner, a search
// indexer) have transiently opened can fail with a permission error on
// Windows; this just reports the single attempt's outcome, and
// RemoveCampaignTreeWithRetry below repeats it with backoff (the campaign
// service picks the attempt count and delay).
func (r *Root) RemoveCampaignTree(campaignID string) error {
	dir := filepath.Join(r.CampaignsDir(), campaignID)
	if err := os.RemoveAll(dir); err != nil {
		return apperr.NewIo(fmt.Sprintf("remove %s", dir), err)
	}
	return nil
}

// RemoveCampaignTreeWithRetry retries a transient delete failure with a
// short backoff before giving up. A file held open by a virus scanner or
// indexer on Windows clears within a handful of retries in practice;
// exhausting them surfaces as an apperr.Io so the caller can report it
// rather than silently leaving an orphaned directory.
func (r *Root) RemoveCampaignTreeWithRetry(campaignID string, attempts int, backoff time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := r.RemoveCampaignTree(campaignID); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(backoff * time.Duration(i+1))
	}
	return lastErr
}
