package importer

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

type itemKind struct{}

func (itemKind) Kind() string        { return "catalog_items" }
func (itemKind) FileGlobs() []string { return []string{"items/items-*.json", "items/items-base-*.json"} }

func (itemKind) Parse(data []byte) ([]RawRecord, error) {
	var doc struct {
		Item     []map[string]any `json:"item"`
		BaseItem []map[string]any `json:"baseitem"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	all := append(doc.Item, doc.BaseItem...)
	records := make([]RawRecord, 0, len(all))
	for _, item := range all {
		name, _ := item["name"].(string)
		source, _ := item["source"].(string)
		if name == "" || source == "" {
			continue
		}
		records = append(records, RawRecord{Name: name, Source: source, Data: item})
	}
	return records, nil
}

func (itemKind) Upsert(tx *sql.Tx, rec RawRecord) error {
	rarity, _ := rec.Data["rarity"].(string)
	valueCP, _ := rec.Data["value"].(float64)
	itemType, _ := rec.Data["type"].(string)

	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO catalog_items (id, name, source, data, fluff, rarity, value_cp, item_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, source) DO UPDATE SET
			data = excluded.data, rarity = excluded.rarity, value_cp = excluded.value_cp, item_type = excluded.item_type
	`, uuid.NewString(), rec.Name, rec.Source, string(dataJSON), nullIfEmpty(rec.Fluff),
		rarity, int64(valueCP), itemType)
	return err
}

type classKind struct{}

func (classKind) Kind() string        { return "catalog_classes" }
func (classKind) FileGlobs() []string { return []string{"class/class-*.json"} }

func (classKind) Parse(data []byte) ([]RawRecord, error) {
	var doc struct {
		Class []map[string]any `json:"class"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	records := make([]RawRecord, 0, len(doc.Class))
	for _, item := range doc.Class {
		name, _ := item["name"].(string)
		source, _ := item["source"].(string)
		if name == "" || source == "" {
			continue
		}
		records = append(records, RawRecord{Name: name, Source: source, Data: item})
	}
	return records, nil
}

func (classKind) Upsert(tx *sql.Tx, rec RawRecord) error {
	hitDie, _ := rec.Data["hd"].(map[string]any)
	faces, _ := hitDie["faces"].(float64)

	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO catalog_classes (id, name, source, data, fluff, hit_die)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, source) DO UPDATE SET data = excluded.data, hit_die = excluded.hit_die
	`, uuid.NewString(), rec.Name, rec.Source, string(dataJSON), nullIfEmpty(rec.Fluff), int(faces))
	return err
}

type subclassKind struct{}

func (subclassKind) Kind() string        { return "catalog_subclasses" }
func (subclassKind) FileGlobs() []string { return []string{"class/class-*.json"} }

func (subclassKind) Parse(data []byte) ([]RawRecord, error) {
	var doc struct {
		Subclass []map[string]any `json:"subclass"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	records := make([]RawRecord, 0, len(doc.Subclass))
	for _, item := range doc.Subclass {
		name, _ := item["name"].(string)
		source, _ := item["source"].(string)
		if name == "" || source == "" {
			continue
		}
		records = append(records, RawRecord{Name: name, Source: source, Data: item})
	}
	return records, nil
}

func (subclassKind) Upsert(tx *sql.Tx, rec RawRecord) error {
	className, _ := rec.Data["className"].(string)

	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO catalog_subclasses (id, name, source, data, fluff, class_name)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, source) DO UPDATE SET data = excluded.data, class_name = excluded.class_name
	`, uuid.NewString(), rec.Name, rec.Source, string(dataJSON), nullIfEmpty(rec.Fluff), className)
	return err
}

type classFeatureKind struct{}

func (classFeatureKind) Kind() string        { return "catalog_class_features" }
func (classFeatureKind) FileGlobs() []string { return []string{"class/class-*.json"} }

func (classFeatureKind) Parse(data []byte) ([]RawRecord, error) {
	var doc struct {
		ClassFeature    []map[string]any `json:"classFeature"`
		SubclassFeature []map[string]any `json:"subclassFeature"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	all := append(doc.ClassFeature, doc.SubclassFeature...)
	records := make([]RawRecord, 0, len(all))
	for _, item := range all {
		name, _ := item["name"].(string)
		source, _ := item["source"].(string)
		if name == "" || source == "" {
			continue
		}
		records = append(records, RawRecord{Name: name, Source: source, Data: item})
	}
	return records, nil
}

func (classFeatureKind) Upsert(tx *sql.Tx, rec RawRecord) error {
	className, _ := rec.Data["className"].(string)
	subclassName, _ := rec.Data["subclassShortName"].(string)
	level, _ := rec.Data["level"].(float64)

	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO catalog_class_features (id, name, source, data, fluff, class_name, subclass_name, class_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, source) DO UPDATE SET
			data = excluded.data, class_name = excluded.class_name,
			subclass_name = excluded.subclass_name, class_level = excluded.class_level
	`, uuid.NewString(), rec.Name, rec.Source, string(dataJSON), nullIfEmpty(rec.Fluff),
		className, nullIfEmpty(subclassName), int(level))
	return err
}

// AllKinds returns every registered KindImporter, the full set
// migrateCatalogTables' CatalogKinds table list exists to back.
func AllKinds() []KindImporter {
	kinds := []KindImporter{
		spellKind{}, monsterKind{}, itemKind{}, classKind{}, subclassKind{}, classFeatureKind{},
	}
	return append(kinds, NewGenericKinds()...)
}
