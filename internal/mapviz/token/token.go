// Package token owns map tokens: their placement, identity (monster
// link, NPC/character link, or a bare label — exactly one), and the
// grid-cell/pixel coordinate transform the display runtime needs.
// Grounded on original_source's services/token.rs.
package token

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/mapviz/mapsvc"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// GridToPixel converts a grid-cell coordinate to pixels given the grid
// size in pixels, per spec.md §6's pixel = p*(grid+0.5) transform — the
// +0.5 centers the token within its cell rather than at the cell's
// top-left corner.
func GridToPixel(gridCell, gridSizePx float64) float64 {
	return gridSizePx * (gridCell + 0.5)
}

// PixelToGrid is the inverse of GridToPixel.
func PixelToGrid(pixels, gridSizePx float64) float64 {
	return pixels/gridSizePx - 0.5
}

// sizeMultiplier maps a D&D size category to how many grid squares a
// token of that size occupies per side (spec.md §4.4).
var sizeMultiplier = map[string]float64{
	"tiny":       0.5,
	"small":      1,
	"medium":     1,
	"large":      2,
	"huge":       3,
	"gargantuan": 4,
}

// SizeMultiplier returns the grid-square multiplier for a size code,
// defaulting to medium (1) for an unrecognized code.
func SizeMultiplier(size string) float64 {
	if m, ok := sizeMultiplier[size]; ok {
		return m
	}
	return 1
}

type Token struct {
	ID               string
	MapID            string
	Name             string
	Kind             string // "monster", "npc", "player-character", "marker"
	Size             string
	X, Y             float64
	VisibleToPlayers bool
	Color            string
	ImagePath        string
	MonsterLink      string
	CharacterLink    string
	Notes            string
	VisionType       string
	VisionRange      float64
	PixelX, PixelY   float64
}

// DisplayName resolves the token's shown name: the explicit label if
// set, otherwise the name of whatever it's linked to.
func (t Token) DisplayName(linkedName string) string {
	if t.Name != "" {
		return t.Name
	}
	return linkedName
}

type Service struct {
	db   *sql.DB
	maps *mapsvc.Service
}

func New(db *sql.DB, maps *mapsvc.Service) *Service {
	return &Service{db: db, maps: maps}
}

// gridSizePx looks up a map's grid calibration for pixel enrichment,
// defaulting to 70px (the teacher's upload-time default) if the map
// can't be found rather than failing the whole token response.
func (s *Service) gridSizePx(mapID string) float64 {
	m, err := s.maps.Get(mapID)
	if err != nil || m.GridSizePx == 0 {
		return 70
	}
	return m.GridSizePx
}

// enrich attaches pixel coordinates (spec.md §4.4: "every response
// enriches the raw token with ... pixel coordinates") derived from the
// token's grid position and its map's grid calibration.
func (s *Service) enrich(t *Token) {
	size := s.gridSizePx(t.MapID)
	t.PixelX = GridToPixel(t.X, size)
	t.PixelY = GridToPixel(t.Y, size)
}

// Create validates exactly one of {MonsterLink, CharacterLink, non-empty
// Name} is set, then inserts the token.
func (s *Service) Create(t Token) (*Token, error) {
	count := 0
	if t.MonsterLink != "" {
		count++
	}
	if t.CharacterLink != "" {
		count++
	}
	if t.Name != "" {
		count++
	}
	if count != 1 {
		return nil, apperr.NewValidation("a token must have exactly one of monster link, character link, or a label")
	}
	if t.Size == "" {
		t.Size = "medium"
	}
	if t.VisionType == "" {
		t.VisionType = "normal"
	}

	t.ID = uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO tokens (id, map_id, name, kind, size, x, y, visible_to_players, color, image_path,
			monster_link, character_link, notes, vision_type, vision_range, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.MapID, nullIfEmpty(t.Name), t.Kind, t.Size, t.X, t.Y, boolInt(t.VisibleToPlayers),
		nullIfEmpty(t.Color), nullIfEmpty(t.ImagePath), nullIfEmpty(t.MonsterLink), nullIfEmpty(t.CharacterLink),
		nullIfEmpty(t.Notes), t.VisionType, t.VisionRange, now, now)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	s.enrich(&t)
	return &t, nil
}

// Get returns one token, enriched with its pixel coordinates.
func (s *Service) Get(id string) (*Token, error) {
	var t Token
	var name, color, imagePath, monsterLink, characterLink, notes sql.NullString
	var visible int
	row := s.db.QueryRow(`
		SELECT id, map_id, name, kind, size, x, y, visible_to_players, color, image_path,
			monster_link, character_link, notes, vision_type, vision_range
		FROM tokens WHERE id = ?
	`, id)
	if err := row.Scan(&t.ID, &t.MapID, &name, &t.Kind, &t.Size, &t.X, &t.Y, &visible, &color,
		&imagePath, &monsterLink, &characterLink, &notes, &t.VisionType, &t.VisionRange); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("token", id)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	t.Name = name.String
	t.VisibleToPlayers = visible != 0
	t.Color = color.String
	t.ImagePath = imagePath.String
	t.MonsterLink = monsterLink.String
	t.CharacterLink = characterLink.String
	t.Notes = notes.String
	s.enrich(&t)
	return &t, nil
}

// Position is one token's new coordinates, used for a bulk move.
type Position struct {
	TokenID string
	X, Y    float64
}

// BulkMove updates many tokens' positions in a single transaction, so a
// drag-select move of a whole party never leaves the map half-updated.
func (s *Service) BulkMove(positions []Position) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range positions {
		if _, err := tx.Exec(`UPDATE tokens SET x = ?, y = ?, updated_at = ? WHERE id = ?`, p.X, p.Y, now, p.TokenID); err != nil {
			return apperr.NewDatabase(err, false)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}

// SetVisible toggles whether a token is shown to players.
func (s *Service) SetVisible(tokenID string, visible bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`UPDATE tokens SET visible_to_players = ?, updated_at = ? WHERE id = ?`, boolInt(visible), now, tokenID)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	if n == 0 {
		return apperr.NewNotFound("token", tokenID)
	}
	return nil
}

// ListByMap returns every token on a map.
func (s *Service) ListByMap(mapID string) ([]Token, error) {
	rows, err := s.db.Query(`
		SELECT id, map_id, name, kind, size, x, y, visible_to_players, color, image_path,
			monster_link, character_link, notes, vision_type, vision_range
		FROM tokens WHERE map_id = ?
	`, mapID)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Token
	for rows.Next() {
		var t Token
		var name, color, imagePath, monsterLink, characterLink, notes sql.NullString
		var visible int
		if err := rows.Scan(&t.ID, &t.MapID, &name, &t.Kind, &t.Size, &t.X, &t.Y, &visible, &color,
			&imagePath, &monsterLink, &characterLink, &notes, &t.VisionType, &t.VisionRange); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		t.Name = name.String
		t.VisibleToPlayers = visible != 0
		t.Color = color.String
		t.ImagePath = imagePath.String
		t.MonsterLink = monsterLink.String
		t.CharacterLink = characterLink.String
		t.Notes = notes.String
		s.enrich(&t)
		out = append(out, t)
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
