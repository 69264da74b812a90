// Package model defines the catalog entity shapes returned by the query
// and reference services. Every kind shares the same core envelope (spec.md
// §3's catalog model); Extra carries the kind-specific fields the importer
// parsed out of the source JSON, pre-normalized so the query layer's filters
// can run as plain SQL predicates instead of re-parsing JSON per row.
package model

// Entry is one catalog record of any kind.
type Entry struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind"`
	Name   string         `json:"name"`
	Source string         `json:"source"`
	Data   map[string]any `json:"data"`
	Fluff  string         `json:"fluff,omitempty"`
}

// Spell is the bespoke filter shape for catalog_spells (spec.md §4.2:
// search spells by level, school, ritual, concentration).
type Spell struct {
	Entry
	Level         int    `json:"level"`
	School        string `json:"school"`
	Ritual        bool   `json:"ritual"`
	Concentration bool   `json:"concentration"`
}

// Monster is the bespoke filter shape for catalog_monsters (search by
// challenge rating, size, type, alignment).
type Monster struct {
	Entry
	CRNumeric float64 `json:"cr_numeric"`
	CRDisplay string  `json:"cr_display"`
	Size      string  `json:"size"`
	Type      string  `json:"type"`
	Alignment string  `json:"alignment"`
}

// Item is the bespoke filter shape for catalog_items.
type Item struct {
	Entry
	Rarity  string `json:"rarity"`
	ValueCP int64  `json:"value_cp"`
	Type    string `json:"item_type"`
}

// Class and Subclass carry the hierarchy the class-feature importer walks.
type Class struct {
	Entry
	HitDie int `json:"hit_die"`
}

type Subclass struct {
	Entry
	ClassName string `json:"class_name"`
}

type ClassFeature struct {
	Entry
	ClassName    string `json:"class_name"`
	SubclassName string `json:"subclass_name,omitempty"`
	ClassLevel   int    `json:"class_level"`
}

// Source describes one catalog_sources row: the book a kind was last
// imported from, and how many records it produced.
type Source struct {
	SourceName   string `json:"source_name"`
	CatalogType  string `json:"catalog_type"`
	FilePath     string `json:"file_path"`
	FileHash     string `json:"file_hash"`
	RecordCount  int    `json:"record_count"`
	LastImported string `json:"last_imported"`
}
