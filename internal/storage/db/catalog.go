package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CatalogKind describes one catalog entity table. Every kind in spec.md
// §3's catalog model shares the same core shape (name, source, the raw
// normalized record, optional fluff text) plus a handful of bespoke
// columns the query layer filters on for that kind specifically. Rather
// than hand-write twenty near-identical CREATE TABLE statements, the
// common shape is factored out once and only the genuinely-distinct
// filter columns are declared per kind.
type CatalogKind struct {
	// Table is the SQL table name, e.g. "catalog_spells".
	Table string
	// ExtraColumns are appended after the shared core columns, already
	// including their SQL type and any constraint, e.g. "level INTEGER".
	ExtraColumns []string
}

// CatalogKinds enumerates every catalog entity kind spec.md §3 names.
// Kinds with filterable properties called out in §4.2 (spell, monster,
// item, and the class-feature family) get bespoke extra columns; the
// rest share the generic fallback shape (name/source/data/fluff only).
var CatalogKinds = []CatalogKind{
	{Table: "catalog_spells", ExtraColumns: []string{
		"level INTEGER",
		"school TEXT",
		"ritual INTEGER NOT NULL DEFAULT 0",
		"concentration INTEGER NOT NULL DEFAULT 0",
	}},
	{Table: "catalog_monsters", ExtraColumns: []string{
		"cr_numeric REAL",
		"size TEXT",
		"monster_type TEXT",
		"alignment TEXT",
	}},
	{Table: "catalog_items", ExtraColumns: []string{
		"rarity TEXT",
		"value_cp INTEGER",
		"item_type TEXT",
	}},
	{Table: "catalog_classes", ExtraColumns: []string{
		"hit_die INTEGER",
	}},
	{Table: "catalog_subclasses", ExtraColumns: []string{
		"class_name TEXT",
	}},
	{Table: "catalog_class_features", ExtraColumns: []string{
		"class_name TEXT",
		"subclass_name TEXT",
		"class_level INTEGER",
	}},
	{Table: "catalog_races"},
	{Table: "catalog_backgrounds"},
	{Table: "catalog_feats"},
	{Table: "catalog_conditions"},
	{Table: "catalog_diseases"},
	{Table: "catalog_deities"},
	{Table: "catalog_objects"},
	{Table: "catalog_traps"},
	{Table: "catalog_rewards"},
	{Table: "catalog_vehicles"},
	{Table: "catalog_variant_rules"},
	{Table: "catalog_tables"},
	{Table: "catalog_actions"},
	{Table: "catalog_languages"},
	{Table: "catalog_optional_features"},
	{Table: "catalog_psionics"},
}

// statement builds the CREATE TABLE for this kind. name+source is the
// dedupe key an importer upserts against (spec.md §4.2 "re-importing the
// same book is idempotent": same name+source overwrites, doesn't duplicate).
func (k CatalogKind) statement() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", k.Table)
	b.WriteString("\tid TEXT PRIMARY KEY,\n")
	b.WriteString("\tname TEXT NOT NULL,\n")
	b.WriteString("\tsource TEXT NOT NULL,\n")
	b.WriteString("\tdata TEXT NOT NULL,\n")
	b.WriteString("\tfluff TEXT,\n")
	for _, col := range k.ExtraColumns {
		fmt.Fprintf(&b, "\t%s,\n", col)
	}
	fmt.Fprintf(&b, "\tUNIQUE(name, source)\n)")
	return b.String()
}

func migrateCatalogTables(conn *sql.DB) error {
	for _, kind := range CatalogKinds {
		if _, err := conn.Exec(kind.statement()); err != nil {
			return fmt.Errorf("create %s: %w", kind.Table, err)
		}
		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_source ON %s(source)", kind.Table, kind.Table)
		if _, err := conn.Exec(idx); err != nil {
			return fmt.Errorf("index %s: %w", kind.Table, err)
		}
	}
	return nil
}
