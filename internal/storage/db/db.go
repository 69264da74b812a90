// Package db owns the single embedded relational store: a SQLite-class
// database opened with WAL journaling and foreign keys enforced, plus the
// migration runner that brings its schema forward on process start.
//
// The schema-bring-up style (ordered CREATE TABLE IF NOT EXISTS statements,
// an additive ensureColumn helper, FTS5 tables created with a soft-fail
// flag) is grounded on the teacher's
// service/plugin/builtin/memory-core/store/schema.go.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
)

// Open opens the database at path (or ":memory:" for the in-memory variant
// spec.md §4.1 requires tests to be able to use interchangeably with an
// on-disk database) and applies the pragmas the spec mandates.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	} else {
		dsn = "file::memory:?_foreign_keys=on&cache=shared"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if path == ":memory:" {
		// A shared in-memory database must be kept alive by a single
		// connection, or SQLite tears it down between uses.
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if path != ":memory:" {
		if _, err := conn.Exec(`PRAGMA journal_mode = WAL`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable wal: %w", err)
		}
	}

	return conn, nil
}

// ensureColumn adds a column to an existing table if it is not already
// present, matching the teacher's additive-migration helper.
func ensureColumn(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			continue
		}
		if name == column {
			return nil
		}
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
