package importer

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// genericKind implements KindImporter for every catalog kind that has no
// bespoke filter columns — it only needs to know its table name and which
// 5etools file(s) to read.
type genericKind struct {
	table string
	globs []string
	array string // top-level JSON array key, e.g. "background"
}

func (g genericKind) Kind() string        { return g.table }
func (g genericKind) FileGlobs() []string { return g.globs }

func (g genericKind) Parse(data []byte) ([]RawRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	raw, ok := doc[g.array]
	if !ok {
		return nil, fmt.Errorf("missing %q array", g.array)
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	records := make([]RawRecord, 0, len(items))
	for _, item := range items {
		name, _ := item["name"].(string)
		source, _ := item["source"].(string)
		if name == "" || source == "" {
			continue
		}
		records = append(records, RawRecord{Name: name, Source: source, Data: item})
	}
	return records, nil
}

func (g genericKind) Upsert(tx *sql.Tx, rec RawRecord) error {
	return UpsertGeneric(tx, g.table, rec)
}

// NewGenericKinds builds the importers for every catalog kind that shares
// the plain name/source/data/fluff shape.
func NewGenericKinds() []KindImporter {
	defs := []struct{ table, glob, array string }{
		{"catalog_races", "races/races-*.json", "race"},
		{"catalog_backgrounds", "backgrounds/backgrounds-*.json", "background"},
		{"catalog_feats", "feats/feats-*.json", "feat"},
		{"catalog_conditions", "conditionsdiseases/conditionsdiseases-*.json", "condition"},
		{"catalog_diseases", "conditionsdiseases/conditionsdiseases-*.json", "disease"},
		{"catalog_deities", "deities/deities-*.json", "deity"},
		{"catalog_objects", "objects/objects-*.json", "object"},
		{"catalog_traps", "trapshazards/trapshazards-*.json", "trap"},
		{"catalog_rewards", "rewards/rewards-*.json", "reward"},
		{"catalog_vehicles", "vehicles/vehicles-*.json", "vehicle"},
		{"catalog_variant_rules", "variantrules/variantrules-*.json", "variantrule"},
		{"catalog_tables", "tables/tables-*.json", "table"},
		{"catalog_actions", "actions/actions-*.json", "action"},
		{"catalog_languages", "languages/languages-*.json", "language"},
		{"catalog_optional_features", "optionalfeatures/optionalfeatures-*.json", "optionalfeature"},
		{"catalog_psionics", "psionics/psionics-*.json", "psionic"},
	}
	kinds := make([]KindImporter, 0, len(defs))
	for _, d := range defs {
		kinds = append(kinds, genericKind{table: d.table, globs: []string{d.glob}, array: d.array})
	}
	return kinds
}

// spellKind extracts the filterable spell fields (level, school, ritual,
// concentration) spec.md §4.2 requires the search operation to filter on.
type spellKind struct{}

func (spellKind) Kind() string        { return "catalog_spells" }
func (spellKind) FileGlobs() []string { return []string{"spells/spells-*.json"} }

func (spellKind) Parse(data []byte) ([]RawRecord, error) {
	var doc struct {
		Spell []map[string]any `json:"spell"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	records := make([]RawRecord, 0, len(doc.Spell))
	for _, item := range doc.Spell {
		name, _ := item["name"].(string)
		source, _ := item["source"].(string)
		if name == "" || source == "" {
			continue
		}
		records = append(records, RawRecord{Name: name, Source: source, Data: item})
	}
	return records, nil
}

func (spellKind) Upsert(tx *sql.Tx, rec RawRecord) error {
	level, _ := rec.Data["level"].(float64)
	school, _ := rec.Data["school"].(string)
	ritual := hasMeta(rec.Data, "ritual")
	concentration := hasDuration(rec.Data)

	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO catalog_spells (id, name, source, data, fluff, level, school, ritual, concentration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, source) DO UPDATE SET
			data = excluded.data, level = excluded.level, school = excluded.school,
			ritual = excluded.ritual, concentration = excluded.concentration
	`, uuid.NewString(), rec.Name, rec.Source, string(dataJSON), nullIfEmpty(rec.Fluff),
		int(level), school, ritual, concentration)
	return err
}

func hasMeta(data map[string]any, key string) bool {
	meta, ok := data["meta"].(map[string]any)
	if !ok {
		return false
	}
	v, _ := meta[key].(bool)
	return v
}

func hasDuration(data map[string]any) bool {
	durations, ok := data["duration"].([]any)
	if !ok {
		return false
	}
	for _, d := range durations {
		m, ok := d.(map[string]any)
		if ok {
			if c, ok := m["concentration"].(bool); ok && c {
				return true
			}
		}
	}
	return false
}

// monsterKind extracts challenge rating, size, type, alignment.
type monsterKind struct{}

func (monsterKind) Kind() string        { return "catalog_monsters" }
func (monsterKind) FileGlobs() []string { return []string{"bestiary/bestiary-*.json"} }

func (monsterKind) Parse(data []byte) ([]RawRecord, error) {
	var doc struct {
		Monster []map[string]any `json:"monster"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	records := make([]RawRecord, 0, len(doc.Monster))
	for _, item := range doc.Monster {
		name, _ := item["name"].(string)
		source, _ := item["source"].(string)
		if name == "" || source == "" {
			continue
		}
		records = append(records, RawRecord{Name: name, Source: source, Data: item})
	}
	return records, nil
}

func (monsterKind) Upsert(tx *sql.Tx, rec RawRecord) error {
	crDisplay, crNumeric := crFromData(rec.Data)
	size, _ := firstString(rec.Data["size"])
	monsterType := typeFromData(rec.Data)
	alignment, _ := firstString(rec.Data["alignment"])

	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO catalog_monsters (id, name, source, data, fluff, cr_numeric, size, monster_type, alignment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, source) DO UPDATE SET
			data = excluded.data, cr_numeric = excluded.cr_numeric, size = excluded.size,
			monster_type = excluded.monster_type, alignment = excluded.alignment
	`, uuid.NewString(), rec.Name, rec.Source, string(dataJSON), nullIfEmpty(rec.Fluff),
		crNumeric, size, monsterType, alignment)
	_ = crDisplay
	return err
}

func crFromData(data map[string]any) (string, float64) {
	switch v := data["cr"].(type) {
	case string:
		return v, ParseChallengeRating(v)
	case map[string]any:
		s, _ := v["cr"].(string)
		return s, ParseChallengeRating(s)
	default:
		return "", 0
	}
}

func typeFromData(data map[string]any) string {
	switch v := data["type"].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["type"].(string)
		return s
	default:
		return ""
	}
}

func firstString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s, true
			}
		}
	}
	return "", false
}
