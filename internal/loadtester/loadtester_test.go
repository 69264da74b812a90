package loadtester

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mimir-dm/mimir-dm-go/internal/storage/db"
)

func openMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = db.Migrate(conn)
	require.NoError(t, err)
	return conn
}

func TestRun_EmptyRootYieldsEmptyReport(t *testing.T) {
	conn := openMigratedDB(t)
	log := logrus.NewEntry(logrus.New())

	root := t.TempDir()

	report, err := Run(conn, root, log)
	require.NoError(t, err)
	require.Empty(t, report.Archives)
	require.Equal(t, 0, report.Failures)
}

func TestRun_BookDirWithoutMetadataIsFlagged(t *testing.T) {
	conn := openMigratedDB(t)
	log := logrus.NewEntry(logrus.New())

	root := t.TempDir()
	bookDir := filepath.Join(root, "phb")
	require.NoError(t, os.MkdirAll(bookDir, 0o755))

	report, err := Run(conn, root, log)
	require.NoError(t, err)
	require.Len(t, report.Archives, 1)

	archive := report.Archives[0]
	require.Equal(t, "phb", archive.SourceName)
	require.True(t, archive.ExtractionOK)
	require.False(t, archive.MetadataOK)
	require.Equal(t, 1, report.Failures)
}

func TestRun_BookDirWithMetadataIsNotFlaggedForMetadata(t *testing.T) {
	conn := openMigratedDB(t)
	log := logrus.NewEntry(logrus.New())

	root := t.TempDir()
	bookDir := filepath.Join(root, "phb")
	require.NoError(t, os.MkdirAll(bookDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "book.json"), []byte(`{}`), 0o644))

	report, err := Run(conn, root, log)
	require.NoError(t, err)
	require.Len(t, report.Archives, 1)
	require.True(t, report.Archives[0].MetadataOK)
}

func TestRun_SkipsNonDirectoryEntries(t *testing.T) {
	conn := openMigratedDB(t)
	log := logrus.NewEntry(logrus.New())

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	report, err := Run(conn, root, log)
	require.NoError(t, err)
	require.Empty(t, report.Archives)
}
