// Package fog owns a map's fog-of-war: an append-only log of revealed
// rectangles. Revealing never un-reveals; previously-shown area is
// hidden again only by DeleteArea (one rectangle) or ResetAll (every
// rectangle of the map).
package fog

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Rect is one revealed rectangle, in grid-cell coordinates.
type Rect struct {
	ID     int64
	MapID  string
	X, Y   float64
	Width  float64
	Height float64
}

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// RevealRect appends a revealed rectangle.
func (s *Service) RevealRect(mapID string, x, y, width, height float64) (*Rect, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`
		INSERT INTO fog_revealed_areas (map_id, x, y, width, height, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`, mapID, x, y, width, height, now)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	return &Rect{ID: id, MapID: mapID, X: x, Y: y, Width: width, Height: height}, nil
}

// RevealCircle reveals the bounding rectangle of a circle (Open Question
// decision: a circular reveal is realized as its axis-aligned bounding
// box, since the fog query surface only exposes rectangles).
func (s *Service) RevealCircle(mapID string, centerX, centerY, radius float64) (*Rect, error) {
	return s.RevealRect(mapID, centerX-radius, centerY-radius, radius*2, radius*2)
}

// RevealAll covers a map's full extent in one rectangle.
func (s *Service) RevealAll(mapID string, widthCells, heightCells float64) (*Rect, error) {
	return s.RevealRect(mapID, 0, 0, widthCells, heightCells)
}

// ListRevealed returns every revealed rectangle for a map (DM view and
// player view both read this; the player view additionally masks
// anything outside the union of these rectangles).
func (s *Service) ListRevealed(mapID string) ([]Rect, error) {
	rows, err := s.db.Query(`SELECT id, map_id, x, y, width, height FROM fog_revealed_areas WHERE map_id = ? ORDER BY id`, mapID)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Rect
	for rows.Next() {
		var r Rect
		if err := rows.Scan(&r.ID, &r.MapID, &r.X, &r.Y, &r.Width, &r.Height); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		out = append(out, r)
	}
	return out, nil
}

// DeleteArea removes one revealed rectangle by id (correcting an
// accidental reveal without wiping the whole map's fog state).
func (s *Service) DeleteArea(id int64) error {
	res, err := s.db.Exec(`DELETE FROM fog_revealed_areas WHERE id = ?`, id)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	if n == 0 {
		return apperr.NewNotFound("fog_revealed_area", strconv.FormatInt(id, 10))
	}
	return nil
}

// ResetAll clears every revealed rectangle for a map, restoring full fog.
func (s *Service) ResetAll(mapID string) error {
	if _, err := s.db.Exec(`DELETE FROM fog_revealed_areas WHERE map_id = ?`, mapID); err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}
