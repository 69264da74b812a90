package db

import (
	"database/sql"
	"fmt"
)

// SchemaResult reports which optional features (FTS5) came up, following
// the teacher's EnsureSchema soft-fail pattern — a missing FTS5 build of
// SQLite should degrade the document search feature, not the whole import.
type SchemaResult struct {
	FTSAvailable bool
	FTSError     string
}

// coreStatements are the entity tables of spec.md §3 outside the catalog
// (which is handled separately by CatalogKinds, since every kind shares one
// shape). Order matters: foreign keys reference tables created earlier.
var coreStatements = []string{
	`CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'concept',
		directory_path TEXT NOT NULL,
		created_at TEXT NOT NULL,
		last_activity_at TEXT NOT NULL,
		session_zero_date TEXT,
		first_session_date TEXT,
		archived_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS modules (
		id TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		module_number INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'concept',
		module_type TEXT NOT NULL DEFAULT 'general',
		expected_sessions INTEGER,
		actual_sessions INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(campaign_id, module_number)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		module_id TEXT REFERENCES modules(id) ON DELETE SET NULL,
		session_number INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		scheduled_at TEXT,
		actual_at TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		module_id TEXT REFERENCES modules(id) ON DELETE CASCADE,
		session_id TEXT REFERENCES sessions(id) ON DELETE CASCADE,
		template_id TEXT,
		document_type TEXT NOT NULL,
		title TEXT NOT NULL,
		file_path TEXT NOT NULL,
		is_user_created INTEGER NOT NULL DEFAULT 0,
		content_hash TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		completed_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS template_documents (
		document_id TEXT NOT NULL,
		version_number INTEGER NOT NULL,
		content TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		doc_type TEXT,
		level TEXT,
		purpose TEXT,
		variables_schema TEXT NOT NULL DEFAULT '[]',
		default_values TEXT NOT NULL DEFAULT '{}',
		is_active INTEGER NOT NULL DEFAULT 0,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		PRIMARY KEY (document_id, version_number)
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_players (
		campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		player_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		active INTEGER NOT NULL DEFAULT 1,
		joined_at TEXT NOT NULL,
		PRIMARY KEY (campaign_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		campaign_id TEXT REFERENCES campaigns(id) ON DELETE SET NULL,
		player_id TEXT REFERENCES players(id) ON DELETE SET NULL,
		character_name TEXT NOT NULL,
		is_npc INTEGER NOT NULL DEFAULT 0,
		current_level INTEGER NOT NULL DEFAULT 1,
		current_version INTEGER NOT NULL DEFAULT 1,
		directory_path TEXT NOT NULL,
		class_summary TEXT,
		race_summary TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS character_versions (
		character_id TEXT NOT NULL REFERENCES characters(id) ON DELETE CASCADE,
		version_number INTEGER NOT NULL,
		file_path TEXT NOT NULL,
		embedded_data TEXT NOT NULL,
		snapshot_reason TEXT,
		level INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (character_id, version_number)
	)`,
	`CREATE TABLE IF NOT EXISTS maps (
		id TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		module_id TEXT REFERENCES modules(id) ON DELETE CASCADE,
		display_name TEXT NOT NULL,
		stored_filename TEXT NOT NULL,
		width_px INTEGER NOT NULL,
		height_px INTEGER NOT NULL,
		original_width_px INTEGER NOT NULL,
		original_height_px INTEGER NOT NULL,
		grid_type TEXT NOT NULL DEFAULT 'square',
		grid_size_px REAL NOT NULL DEFAULT 70,
		grid_offset_x REAL NOT NULL DEFAULT 0,
		grid_offset_y REAL NOT NULL DEFAULT 0,
		fog_enabled INTEGER NOT NULL DEFAULT 1,
		ambient_light TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tokens (
		id TEXT PRIMARY KEY,
		map_id TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
		name TEXT,
		kind TEXT NOT NULL,
		size TEXT NOT NULL DEFAULT 'medium',
		x REAL NOT NULL,
		y REAL NOT NULL,
		visible_to_players INTEGER NOT NULL DEFAULT 0,
		color TEXT,
		image_path TEXT,
		monster_link TEXT,
		character_link TEXT REFERENCES characters(id) ON DELETE SET NULL,
		notes TEXT,
		vision_type TEXT NOT NULL DEFAULT 'normal',
		vision_range REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fog_revealed_areas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		map_id TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
		x REAL NOT NULL,
		y REAL NOT NULL,
		width REAL NOT NULL,
		height REAL NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS light_sources (
		id TEXT PRIMARY KEY,
		map_id TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
		token_id TEXT REFERENCES tokens(id) ON DELETE SET NULL,
		name TEXT NOT NULL,
		light_type TEXT NOT NULL DEFAULT 'torch',
		x REAL NOT NULL,
		y REAL NOT NULL,
		bright_radius REAL NOT NULL,
		dim_radius REAL NOT NULL,
		color TEXT NOT NULL DEFAULT '#ffaa33',
		active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_assets (
		id TEXT PRIMARY KEY,
		campaign_id TEXT REFERENCES campaigns(id) ON DELETE CASCADE,
		module_id TEXT REFERENCES modules(id) ON DELETE CASCADE,
		original_filename TEXT NOT NULL,
		mime_type TEXT NOT NULL,
		blob_path TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_sources (
		source_name TEXT PRIMARY KEY,
		catalog_type TEXT NOT NULL,
		file_path TEXT NOT NULL,
		file_hash TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		last_imported TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS uploaded_books (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		storage_location TEXT NOT NULL,
		archive_path TEXT NOT NULL,
		source_code TEXT,
		uploaded_at TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_campaign ON documents(campaign_id)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_module ON documents(module_id)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_session ON documents(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tokens_map ON tokens(map_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fog_map ON fog_revealed_areas(map_id)`,
	`CREATE INDEX IF NOT EXISTS idx_character_versions_character ON character_versions(character_id)`,
}

// documentsFTSStatements wire the FTS5 virtual table and the triggers that
// keep it synchronized with the documents table (spec.md §4.1).
var documentsFTSStatements = []string{
	`CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
		title, content, content='', content_rowid='rowid'
	)`,
}

const documentsFTSTriggers = `
CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
	INSERT INTO documents_fts(rowid, title, content) VALUES (new.rowid, new.title, '');
END;
CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, '');
END;
CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, '');
	INSERT INTO documents_fts(rowid, title, content) VALUES (new.rowid, new.title, '');
END;
`

// Migrate runs every migration. It is ordered and idempotent (every
// statement is IF NOT EXISTS / additive), so it is safe to call on every
// process start against either an on-disk or in-memory database.
func Migrate(conn *sql.DB) (*SchemaResult, error) {
	for _, stmt := range coreStatements {
		if _, err := conn.Exec(stmt); err != nil {
			return nil, fmt.Errorf("exec schema: %w", err)
		}
	}

	if err := migrateCatalogTables(conn); err != nil {
		return nil, err
	}

	if err := ensureColumn(conn, "documents", "content_hash", "TEXT"); err != nil {
		return nil, fmt.Errorf("ensure documents.content_hash: %w", err)
	}

	result := &SchemaResult{}
	for _, stmt := range documentsFTSStatements {
		if _, err := conn.Exec(stmt); err != nil {
			result.FTSError = err.Error()
			return result, nil
		}
	}
	if _, err := conn.Exec(documentsFTSTriggers); err != nil {
		result.FTSError = err.Error()
		return result, nil
	}
	result.FTSAvailable = true

	return result, nil
}
