package importer

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

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

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
}

func TestImportBook_ReadsFluffFromSiblingFile(t *testing.T) {
	conn := openMigratedDB(t)
	root := t.TempDir()

	writeJSON(t, filepath.Join(root, "races", "races-phb.json"), map[string]any{
		"race": []map[string]any{
			{"name": "Elf", "source": "PHB", "size": []string{"M"}},
		},
	})
	writeJSON(t, filepath.Join(root, "races", "fluff-races-phb.json"), map[string]any{
		"raceFluff": []map[string]any{
			{"name": "Elf", "source": "PHB", "entries": []string{"Elves are a magical people."}},
		},
	})

	result, err := ImportBook(conn, root, "phb", NewGenericKinds(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported["catalog_races"])

	var fluff sql.NullString
	require.NoError(t, conn.QueryRow(
		`SELECT fluff FROM catalog_races WHERE name = ? AND source = ?`, "Elf", "PHB",
	).Scan(&fluff))
	require.True(t, fluff.Valid)
	require.Contains(t, fluff.String, "magical people")
}

func TestImportBook_MissingFluffFileLeavesColumnNull(t *testing.T) {
	conn := openMigratedDB(t)
	root := t.TempDir()

	writeJSON(t, filepath.Join(root, "feats", "feats-phb.json"), map[string]any{
		"feat": []map[string]any{
			{"name": "Alert", "source": "PHB"},
		},
	})

	result, err := ImportBook(conn, root, "phb", NewGenericKinds(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported["catalog_feats"])

	var fluff sql.NullString
	require.NoError(t, conn.QueryRow(
		`SELECT fluff FROM catalog_feats WHERE name = ? AND source = ?`, "Alert", "PHB",
	).Scan(&fluff))
	require.False(t, fluff.Valid)
}

func TestImportBook_ReimportIsIdempotent(t *testing.T) {
	conn := openMigratedDB(t)
	root := t.TempDir()

	writeJSON(t, filepath.Join(root, "spells", "spells-phb.json"), map[string]any{
		"spell": []map[string]any{
			{"name": "Fireball", "source": "PHB", "level": 3, "school": "V"},
		},
	})

	kinds := AllKinds()
	_, err := ImportBook(conn, root, "phb", kinds, nil)
	require.NoError(t, err)
	result, err := ImportBook(conn, root, "phb", kinds, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported["catalog_spells"])

	var count int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM catalog_spells WHERE name = ? AND source = ?`, "Fireball", "PHB",
	).Scan(&count))
	require.Equal(t, 1, count)
}

func TestImportBook_MalformedFileIsSkippedNotFatal(t *testing.T) {
	conn := openMigratedDB(t)
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "bestiary"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bestiary", "bestiary-mm.json"), []byte("not json"), 0o644))

	result, err := ImportBook(conn, root, "mm", []KindImporter{monsterKind{}}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, result.Imported["catalog_monsters"])
	require.Len(t, result.Skipped, 1)
}

func TestParseChallengeRating(t *testing.T) {
	cases := map[string]float64{
		"1/8": 0.125, "1/4": 0.25, "1/2": 0.5, "7": 7, "21": 21, "": 0, "Unknown": 0,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseChallengeRating(in), "input %q", in)
	}
}
