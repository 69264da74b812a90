// Package importer scans a 5etools-style book directory, parses each
// catalog kind's JSON file, normalizes it into the shared core shape, and
// upserts it into the database. A single malformed record is logged and
// skipped rather than failing the whole book, matching spec.md §4.2's
// idempotent-reimport requirement: re-running an import must never leave
// the catalog in a worse state than before.
package importer

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RawRecord is one record as it comes out of a book's JSON file, before
// kind-specific field extraction.
type RawRecord struct {
	Name   string
	Source string
	Data   map[string]any
	Fluff  string
}

// KindImporter knows how to read one catalog kind's file(s) out of a book
// directory and how to upsert a parsed record into its table.
type KindImporter interface {
	// Kind is the catalog table this importer populates, e.g. "catalog_spells".
	Kind() string
	// FileGlobs lists the 5etools-style file(s) this kind is read from,
	// e.g. []string{"spells/spells-phb.json"} (glob-expanded by the caller
	// against every subdirectory actually present).
	FileGlobs() []string
	// Parse decodes the raw JSON bytes of one file into records.
	Parse(data []byte) ([]RawRecord, error)
	// Upsert writes one record, returning an error only for the record
	// itself (caller logs and continues on a parse/upsert failure).
	Upsert(tx *sql.Tx, rec RawRecord) error
}

// Result reports what one book import produced, per kind.
type Result struct {
	SourceName string
	Imported   map[string]int // kind -> record count
	Skipped    []string       // human-readable "<file>: <error>" entries
}

// ImportBook walks bookDir, running every registered KindImporter against
// whatever files it finds, inside one transaction per kind so a crash
// mid-import can't half-populate a table.
func ImportBook(db *sql.DB, bookDir, sourceName string, kinds []KindImporter, log *logrus.Entry) (*Result, error) {
	result := &Result{SourceName: sourceName, Imported: map[string]int{}}

	for _, ki := range kinds {
		count := 0
		tx, err := db.Begin()
		if err != nil {
			return nil, fmt.Errorf("begin tx for %s: %w", ki.Kind(), err)
		}

		for _, glob := range ki.FileGlobs() {
			matches, err := filepath.Glob(filepath.Join(bookDir, glob))
			if err != nil {
				continue
			}
			for _, path := range matches {
				raw, err := os.ReadFile(path)
				if err != nil {
					result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", path, err))
					continue
				}
				records, err := ki.Parse(raw)
				if err != nil {
					result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", path, err))
					if log != nil {
						log.WithError(err).WithField("file", path).Warn("catalog import: skipping unparsable file")
					}
					continue
				}
				fluff := loadFluff(path)
				for i := range records {
					if f, ok := fluff[fluffKey(records[i].Name, records[i].Source)]; ok {
						records[i].Fluff = f
					}
				}
				for _, rec := range records {
					if err := ki.Upsert(tx, rec); err != nil {
						result.Skipped = append(result.Skipped, fmt.Sprintf("%s (%s): %v", rec.Name, path, err))
						if log != nil {
							log.WithError(err).WithField("record", rec.Name).Warn("catalog import: skipping record")
						}
						continue
					}
					count++
				}
			}
		}

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit tx for %s: %w", ki.Kind(), err)
		}
		result.Imported[ki.Kind()] = count
	}

	return result, nil
}

// UpsertGeneric is the shared upsert used by every generic-shape kind
// (no bespoke extra columns): it inserts by a freshly-minted id on first
// sight of a (name, source) pair, and overwrites data/fluff on conflict,
// matching spec.md's "same name+source overwrites, doesn't duplicate".
func UpsertGeneric(tx *sql.Tx, table string, rec RawRecord) error {
	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, source, data, fluff)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name, source) DO UPDATE SET data = excluded.data, fluff = excluded.fluff
	`, table)
	_, err = tx.Exec(query, uuid.NewString(), rec.Name, rec.Source, string(dataJSON), nullIfEmpty(rec.Fluff))
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// fluffKey indexes a fluff entry by its (name, source) pair the same way
// the catalog tables' UNIQUE(name, source) constraint does.
func fluffKey(name, source string) string {
	return strings.ToLower(name) + "|" + strings.ToLower(source)
}

// loadFluff reads the sibling fluff-<file>.json for a primary catalog
// file, if present, and indexes every entry it contains by name+source.
// 5etools books ship flavor text this way: spells/spells-phb.json pairs
// with spells/fluff-spells-phb.json, bestiary/bestiary-mm.json pairs with
// bestiary/fluff-bestiary-mm.json, and so on. A missing or unparsable
// fluff file just yields no fluff, never an import failure.
func loadFluff(primaryPath string) map[string]string {
	dir, base := filepath.Split(primaryPath)
	raw, err := os.ReadFile(filepath.Join(dir, "fluff-"+base))
	if err != nil {
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	out := map[string]string{}
	for key, arr := range doc {
		if !strings.HasSuffix(key, "Fluff") {
			continue
		}
		var entries []map[string]any
		if err := json.Unmarshal(arr, &entries); err != nil {
			continue
		}
		for _, entry := range entries {
			name, _ := entry["name"].(string)
			source, _ := entry["source"].(string)
			if name == "" || source == "" {
				continue
			}
			encoded, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			out[fluffKey(name, source)] = string(encoded)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
