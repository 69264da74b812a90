// Package query implements the read side of the catalog: name/source
// lookup, paginated filtered search per kind, and the list of sources a
// kind has been imported from. Grounded on the teacher's domain/repo
// query-builder style (agent_repo.go's option-struct filters translated
// into a WHERE clause) generalized across the catalog's many kinds.
package query

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mimir-dm/mimir-dm-go/internal/catalog/importer"
	"github.com/mimir-dm/mimir-dm-go/internal/catalog/model"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Service answers catalog read queries against the database.
type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// SpellFilter narrows a spell search (spec.md §4.2).
type SpellFilter struct {
	NameContains  string
	Level         *int
	School        string
	Ritual        *bool
	Concentration *bool
	Source        string
	Limit, Offset int
}

// SearchSpells returns matching spells ordered by name, paginated.
func (s *Service) SearchSpells(f SpellFilter) ([]model.Spell, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.NameContains != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+f.NameContains+"%")
	}
	if f.Level != nil {
		where = append(where, "level = ?")
		args = append(args, *f.Level)
	}
	if f.School != "" {
		where = append(where, "school = ?")
		args = append(args, f.School)
	}
	if f.Ritual != nil {
		where = append(where, "ritual = ?")
		args = append(args, boolToInt(*f.Ritual))
	}
	if f.Concentration != nil {
		where = append(where, "concentration = ?")
		args = append(args, boolToInt(*f.Concentration))
	}
	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, f.Source)
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM catalog_spells WHERE " + whereClause
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperr.NewDatabase(err, false)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT id, name, source, data, fluff, level, school, ritual, concentration
		FROM catalog_spells WHERE %s ORDER BY name ASC LIMIT ? OFFSET ?
	`, whereClause)
	rows, err := s.db.Query(query, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []model.Spell
	for rows.Next() {
		var sp model.Spell
		var dataJSON string
		var fluff sql.NullString
		var ritual, concentration int
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Source, &dataJSON, &fluff, &sp.Level, &sp.School, &ritual, &concentration); err != nil {
			return nil, 0, apperr.NewDatabase(err, false)
		}
		sp.Kind = "spell"
		sp.Ritual = ritual != 0
		sp.Concentration = concentration != 0
		sp.Fluff = fluff.String
		_ = json.Unmarshal([]byte(dataJSON), &sp.Data)
		out = append(out, sp)
	}
	return out, total, nil
}

// MonsterFilter narrows a monster search by challenge rating range, size,
// type, and alignment.
type MonsterFilter struct {
	NameContains        string
	CRMin, CRMax        *float64
	Size, Type          string
	Alignment           string
	Limit, Offset       int
}

func (s *Service) SearchMonsters(f MonsterFilter) ([]model.Monster, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.NameContains != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+f.NameContains+"%")
	}
	if f.CRMin != nil {
		where = append(where, "cr_numeric >= ?")
		args = append(args, *f.CRMin)
	}
	if f.CRMax != nil {
		where = append(where, "cr_numeric <= ?")
		args = append(args, *f.CRMax)
	}
	if f.Size != "" {
		where = append(where, "size = ?")
		args = append(args, f.Size)
	}
	if f.Type != "" {
		where = append(where, "monster_type LIKE ?")
		args = append(args, "%"+f.Type+"%")
	}
	if f.Alignment != "" {
		where = append(where, "alignment = ?")
		args = append(args, f.Alignment)
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM catalog_monsters WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, apperr.NewDatabase(err, false)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT id, name, source, data, fluff, cr_numeric, size, monster_type, alignment
		FROM catalog_monsters WHERE %s ORDER BY cr_numeric ASC, name ASC LIMIT ? OFFSET ?
	`, whereClause)
	rows, err := s.db.Query(query, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []model.Monster
	for rows.Next() {
		var m model.Monster
		var dataJSON string
		var fluff sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Source, &dataJSON, &fluff, &m.CRNumeric, &m.Size, &m.Type, &m.Alignment); err != nil {
			return nil, 0, apperr.NewDatabase(err, false)
		}
		m.Kind = "monster"
		m.Fluff = fluff.String
		_ = json.Unmarshal([]byte(dataJSON), &m.Data)
		m.CRDisplay = crDisplay(m.CRNumeric)
		out = append(out, m)
	}
	return out, total, nil
}

func crDisplay(cr float64) string {
	switch cr {
	case 0.125:
		return "1/8"
	case 0.25:
		return "1/4"
	case 0.5:
		return "1/2"
	default:
		return fmt.Sprintf("%g", cr)
	}
}

// GetByNameAndSource fetches one record of a kind by its dedupe key.
func (s *Service) GetByNameAndSource(kind, name, source string) (*model.Entry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(fmt.Sprintf("SELECT id, name, source, data, fluff FROM %s WHERE name = ? AND source = ?", table), name, source)
	var e model.Entry
	var dataJSON string
	var fluff sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &e.Source, &dataJSON, &fluff); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound(kind, name+"@"+source)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	e.Kind = kind
	e.Fluff = fluff.String
	_ = json.Unmarshal([]byte(dataJSON), &e.Data)
	return &e, nil
}

// GetSources lists the distinct sources a kind has entries from.
func (s *Service) GetSources(kind string) ([]string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(fmt.Sprintf("SELECT DISTINCT source FROM %s ORDER BY source", table))
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		out = append(out, src)
	}
	return out, nil
}

func tableFor(kind string) (string, error) {
	for _, k := range importer.AllKinds() {
		// Kind() returns the table name already ("catalog_spells"); the
		// caller may pass either the table or the short kind name
		// ("spell", "monster") so accept both.
		if k.Kind() == kind || k.Kind() == "catalog_"+kind+"s" {
			return k.Kind(), nil
		}
	}
	return "", apperr.NewInvalidArgument("unknown catalog kind: " + kind)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
