// Package light owns map light sources and the color blending of
// overlapping radii, using lucasb-eyer/go-colorful's perceptual (Lab
// space) blending rather than naive RGB averaging, which tends to muddy
// toward gray when several differently-colored lights overlap.
package light

import (
	"database/sql"
	"math"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

type Source struct {
	ID           string
	MapID        string
	TokenID      string
	Name         string
	LightType    string
	X, Y         float64
	BrightRadius float64
	DimRadius    float64
	Color        string
	Active       bool
}

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(l Source) (*Source, error) {
	if l.Color == "" {
		l.Color = "#ffaa33"
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	_, err := s.db.Exec(`
		INSERT INTO light_sources (id, map_id, token_id, name, light_type, x, y, bright_radius, dim_radius, color, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.MapID, nullIfEmpty(l.TokenID), l.Name, l.LightType, l.X, l.Y, l.BrightRadius, l.DimRadius, l.Color, boolInt(l.Active))
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	return &l, nil
}

func (s *Service) ListByMap(mapID string) ([]Source, error) {
	rows, err := s.db.Query(`
		SELECT id, map_id, token_id, name, light_type, x, y, bright_radius, dim_radius, color, active
		FROM light_sources WHERE map_id = ?
	`, mapID)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Source
	for rows.Next() {
		var l Source
		var tokenID sql.NullString
		var active int
		if err := rows.Scan(&l.ID, &l.MapID, &tokenID, &l.Name, &l.LightType, &l.X, &l.Y,
			&l.BrightRadius, &l.DimRadius, &l.Color, &active); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		l.TokenID = tokenID.String
		l.Active = active != 0
		out = append(out, l)
	}
	return out, nil
}

// BlendAt returns the perceptually-blended color of every active light
// whose bright or dim radius reaches (x, y), weighted by how close the
// point is to each light's center (closer = stronger contribution).
// Lights that don't reach the point at all don't contribute.
func BlendAt(lights []Source, x, y float64) (colorful.Color, bool) {
	type weighted struct {
		c colorful.Color
		w float64
	}
	var contributions []weighted

	for _, l := range lights {
		if !l.Active {
			continue
		}
		dx, dy := x-l.X, y-l.Y
		dist := dx*dx + dy*dy
		radius := l.DimRadius
		if radius <= 0 {
			radius = l.BrightRadius
		}
		if radius <= 0 || dist > radius*radius {
			continue
		}
		c, err := colorful.Hex(l.Color)
		if err != nil {
			continue
		}
		weight := 1 - (math.Sqrt(dist) / radius)
		if weight < 0 {
			weight = 0
		}
		contributions = append(contributions, weighted{c: c, w: weight})
	}

	if len(contributions) == 0 {
		return colorful.Color{}, false
	}

	blend := contributions[0].c
	totalWeight := contributions[0].w
	for _, c := range contributions[1:] {
		totalWeight += c.w
		if totalWeight == 0 {
			continue
		}
		blend = blend.BlendLab(c.c, c.w/totalWeight)
	}
	return blend, true
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
