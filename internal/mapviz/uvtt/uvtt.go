// Package uvtt reads and writes Universal VTT map files: the
// resolution/grid/image/line-of-sight/portal/light wire format several
// virtual tabletop tools share. Field names and the .dd2vtt/.uvtt dual
// read rule are grounded on original_source's maps_v2 command module.
package uvtt

import (
	"encoding/json"
	"strings"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Point is one LOS/portal vertex in grid-cell units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Resolution carries the grid origin/size and the pixel-per-grid-cell
// scale a UVTT file embeds.
type Resolution struct {
	MapOrigin   Point `json:"map_origin"`
	MapSize     Point `json:"map_size"`
	PixelsPerGrid int `json:"pixels_per_grid"`
}

// Portal is a door/opening along the line-of-sight mesh.
type Portal struct {
	Position Point   `json:"position"`
	Bounds   []Point `json:"bounds"`
	Rotation float64 `json:"rotation"`
	Closed   bool    `json:"closed"`
	Freestanding bool `json:"freestanding"`
}

// Light is a baked-in light source the map file itself describes
// (distinct from the runtime light.Source entities players can add).
type Light struct {
	Position Point   `json:"position"`
	Range    float64 `json:"range"`
	Intensity float64 `json:"intensity"`
	Color    string  `json:"color"`
	Shadows  bool    `json:"shadows"`
}

// Environment carries ambient lighting metadata.
type Environment struct {
	BakedLighting bool `json:"baked_lighting"`
	Ambient       *struct {
		Color string `json:"color"`
	} `json:"ambient_light,omitempty"`
}

// Doc is the full parsed UVTT document.
type Doc struct {
	Format      float64     `json:"format"`
	Resolution  Resolution  `json:"resolution"`
	LineOfSight [][]Point   `json:"line_of_sight"`
	Portals     []Portal    `json:"portals"`
	Lights      []Light     `json:"lights"`
	Environment Environment `json:"environment"`
	Image       string      `json:"image"` // base64-encoded, no data: prefix
}

// Parse decodes UVTT JSON bytes.
func Parse(data []byte) (*Doc, error) {
	var d Doc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, apperr.NewInvalidData("parse uvtt: " + err.Error())
	}
	return &d, nil
}

// Serialize encodes a Doc back to UVTT JSON.
func Serialize(d *Doc) ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, apperr.NewInvalidData("serialize uvtt: " + err.Error())
	}
	return out, nil
}

// IsUVTTFilename reports whether filename carries one of the two
// extensions UVTT-producing tools use interchangeably.
func IsUVTTFilename(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".dd2vtt") || strings.HasSuffix(lower, ".uvtt")
}

// DefaultPixelsPerGrid is the grid size assumed when wrapping a raw
// image that carries no grid metadata of its own.
const DefaultPixelsPerGrid = 70

// WrapRawImage builds a skeleton UVTT document around a plain image with
// no embedded grid metadata, defaulting to a 70px/cell square grid sized
// to the image's pixel dimensions.
func WrapRawImage(base64Image string, widthPx, heightPx int) *Doc {
	cols := float64(widthPx) / DefaultPixelsPerGrid
	rows := float64(heightPx) / DefaultPixelsPerGrid
	return &Doc{
		Format: 1.0,
		Resolution: Resolution{
			MapOrigin:     Point{0, 0},
			MapSize:       Point{cols, rows},
			PixelsPerGrid: DefaultPixelsPerGrid,
		},
		Image: base64Image,
	}
}
