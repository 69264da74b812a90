// Package mapsvc owns the maps table: the campaign-visible map record
// that ties together a stored image, its grid calibration, and whether
// fog-of-war is active for it. Token, fog, and light state live in their
// own packages keyed by map id.
package mapsvc

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

type Map struct {
	ID               string
	CampaignID       string
	ModuleID         string
	DisplayName      string
	StoredFilename   string
	WidthPx          int
	HeightPx         int
	OriginalWidthPx  int
	OriginalHeightPx int
	GridType         string
	GridSizePx       float64
	GridOffsetX      float64
	GridOffsetY      float64
	FogEnabled       bool
	AmbientLight     string
}

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(m Map) (*Map, error) {
	m.ID = uuid.New().String()
	if m.GridType == "" {
		m.GridType = "square"
	}
	if m.GridSizePx == 0 {
		m.GridSizePx = 70
	}
	m.FogEnabled = true

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO maps (id, campaign_id, module_id, display_name, stored_filename, width_px, height_px,
			original_width_px, original_height_px, grid_type, grid_size_px, grid_offset_x, grid_offset_y,
			fog_enabled, ambient_light, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.CampaignID, nullIfEmpty(m.ModuleID), m.DisplayName, m.StoredFilename, m.WidthPx, m.HeightPx,
		m.OriginalWidthPx, m.OriginalHeightPx, m.GridType, m.GridSizePx, m.GridOffsetX, m.GridOffsetY,
		boolInt(m.FogEnabled), nullIfEmpty(m.AmbientLight), now, now)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	return &m, nil
}

func (s *Service) Get(id string) (*Map, error) {
	var m Map
	var moduleID, ambient sql.NullString
	var fogEnabled int
	row := s.db.QueryRow(`
		SELECT id, campaign_id, module_id, display_name, stored_filename, width_px, height_px,
			original_width_px, original_height_px, grid_type, grid_size_px, grid_offset_x, grid_offset_y,
			fog_enabled, ambient_light
		FROM maps WHERE id = ?
	`, id)
	if err := row.Scan(&m.ID, &m.CampaignID, &moduleID, &m.DisplayName, &m.StoredFilename, &m.WidthPx, &m.HeightPx,
		&m.OriginalWidthPx, &m.OriginalHeightPx, &m.GridType, &m.GridSizePx, &m.GridOffsetX, &m.GridOffsetY,
		&fogEnabled, &ambient); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("map", id)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	m.ModuleID = moduleID.String
	m.AmbientLight = ambient.String
	m.FogEnabled = fogEnabled != 0
	return &m, nil
}

// UpdateGrid recalibrates a map's grid after the user aligns it to the
// uploaded image.
func (s *Service) UpdateGrid(id string, gridType string, gridSizePx, offsetX, offsetY float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`
		UPDATE maps SET grid_type = ?, grid_size_px = ?, grid_offset_x = ?, grid_offset_y = ?, updated_at = ?
		WHERE id = ?
	`, gridType, gridSizePx, offsetX, offsetY, now, id)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	if n == 0 {
		return apperr.NewNotFound("map", id)
	}
	return nil
}

func (s *Service) ListByCampaign(campaignID string) ([]Map, error) {
	rows, err := s.db.Query(`
		SELECT id, campaign_id, module_id, display_name, stored_filename, width_px, height_px,
			original_width_px, original_height_px, grid_type, grid_size_px, grid_offset_x, grid_offset_y,
			fog_enabled, ambient_light
		FROM maps WHERE campaign_id = ? ORDER BY display_name
	`, campaignID)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Map
	for rows.Next() {
		var m Map
		var moduleID, ambient sql.NullString
		var fogEnabled int
		if err := rows.Scan(&m.ID, &m.CampaignID, &moduleID, &m.DisplayName, &m.StoredFilename, &m.WidthPx, &m.HeightPx,
			&m.OriginalWidthPx, &m.OriginalHeightPx, &m.GridType, &m.GridSizePx, &m.GridOffsetX, &m.GridOffsetY,
			&fogEnabled, &ambient); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		m.ModuleID = moduleID.String
		m.AmbientLight = ambient.String
		m.FogEnabled = fogEnabled != 0
		out = append(out, m)
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
