// Package mapexport renders a battle map image with a grid overlay and
// optional token markers for print, and slices a rendered map into
// letter-sized play tiles labeled like a spreadsheet (A1, A2, B1, ...).
package mapexport

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// RenderToken is a token's print-relevant position and appearance.
type RenderToken struct {
	Name      string
	X, Y      float64 // pixel center
	GridUnits float64 // grid-square multiplier, see mapviz/token.SizeMultiplier
	Color     color.RGBA
}

// tokenScale mirrors the 85% token-diameter shrink used so adjacent
// tokens visually separate instead of touching at their grid-square
// boundary.
const tokenScale = 0.85

// RenderOptions controls grid/LOS/token overlay drawing.
type RenderOptions struct {
	ShowGrid     bool
	GridSizePx   float64
	GridOffsetX  float64
	GridOffsetY  float64
	LOSWalls     [][]image.Point
	ShowLOSWalls bool
}

// RenderWithOverlay draws a grid (and, if requested, LOS wall segments)
// over a copy of the base image, returning a new RGBA image. The base
// image is never mutated.
func RenderWithOverlay(base image.Image, opts RenderOptions) *image.RGBA {
	bounds := base.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, base, bounds.Min, draw.Src)

	if opts.ShowGrid && opts.GridSizePx > 0 {
		drawGrid(out, opts.GridSizePx, opts.GridOffsetX, opts.GridOffsetY)
	}
	if opts.ShowLOSWalls {
		for _, wall := range opts.LOSWalls {
			drawPolyline(out, wall, color.RGBA{220, 20, 20, 255})
		}
	}
	return out
}

func drawGrid(img *image.RGBA, size, offsetX, offsetY float64) {
	gridColor := color.RGBA{0, 0, 0, 100}
	bounds := img.Bounds()

	for x := offsetX; x < float64(bounds.Max.X); x += size {
		if x < 0 {
			continue
		}
		drawLine(img, int(x), bounds.Min.Y, int(x), bounds.Max.Y, gridColor)
	}
	for y := offsetY; y < float64(bounds.Max.Y); y += size {
		if y < 0 {
			continue
		}
		drawLine(img, bounds.Min.X, int(y), bounds.Max.X, int(y), gridColor)
	}
}

func drawPolyline(img *image.RGBA, points []image.Point, c color.RGBA) {
	for i := 0; i+1 < len(points); i++ {
		drawLine(img, points[i].X, points[i].Y, points[i+1].X, points[i+1].Y, c)
	}
}

// drawLine is a simple Bresenham-style line rasterizer, sufficient for
// the thin grid and wall overlays this package draws.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if (image.Point{X: x0, Y: y0}).In(img.Bounds()) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DrawTokens overlays token markers as filled circles with a darker
// border ring, scaled by each token's grid-square footprint.
func DrawTokens(img *image.RGBA, tokens []RenderToken, gridSizePx float64) {
	for _, t := range tokens {
		diameterPx := t.GridUnits * gridSizePx * tokenScale
		radius := diameterPx / 2
		drawFilledCircle(img, int(t.X), int(t.Y), int(radius), t.Color)

		border := color.RGBA{darken(t.Color.R), darken(t.Color.G), darken(t.Color.B), 255}
		drawCircleOutline(img, int(t.X), int(t.Y), int(radius), border)
	}
}

func darken(c uint8) uint8 {
	if int(c) < 30 {
		return 0
	}
	return c - 30
}

func drawFilledCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				p := image.Point{X: cx + x, Y: cy + y}
				if p.In(img.Bounds()) {
					img.SetRGBA(p.X, p.Y, c)
				}
			}
		}
	}
}

func drawCircleOutline(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	x, y := radius, 0
	err := 0
	for x >= y {
		plotOctants(img, cx, cy, x, y, c)
		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

func plotOctants(img *image.RGBA, cx, cy, x, y int, c color.RGBA) {
	pts := [][2]int{
		{cx + x, cy + y}, {cx - x, cy + y}, {cx + x, cy - y}, {cx - x, cy - y},
		{cx + y, cy + x}, {cx - y, cy + x}, {cx + y, cy - x}, {cx - y, cy - x},
	}
	for _, p := range pts {
		point := image.Point{X: p[0], Y: p[1]}
		if point.In(img.Bounds()) {
			img.SetRGBA(point.X, point.Y, c)
		}
	}
}

// EncodeQuantizedPNG encodes an image to PNG using a quantized palette,
// shrinking map-tile output for faster print jobs and smaller generated
// PDFs than a full 32-bit encode would produce.
func EncodeQuantizedPNG(img image.Image) ([]byte, error) {
	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, 256), img)
	paletted := image.NewPaletted(img.Bounds(), palette)
	draw.Draw(paletted, img.Bounds(), img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, paletted); err != nil {
		return nil, apperr.NewIo("encode quantized png", err)
	}
	return buf.Bytes(), nil
}

// Tile is one sliced play-mode tile, labeled spreadsheet-style (A1,
// B3, ...) by its row/column position.
type Tile struct {
	Label string
	PNG   []byte
}

// tileGridWidth/tileGridHeight are the printable area in grid squares
// per tile, leaving margin for the row/column labels on a physical
// printout.
const (
	tileGridWidth  = 9
	tileGridHeight = 6
)

// SliceIntoTiles cuts a rendered map image into 9x6-grid-square tiles
// at the given pixels-per-grid-cell scale, for printing as physical
// battle-map tiles that tape together. labelFont is optional; when nil,
// tiles are sliced without a stamped label (the caller can still use
// the returned Label for an on-screen legend).
func SliceIntoTiles(img image.Image, pixelsPerGrid int, labelFont *LabelFont) ([]Tile, int, int, error) {
	bounds := img.Bounds()
	tilePxWidth := tileGridWidth * pixelsPerGrid
	tilePxHeight := tileGridHeight * pixelsPerGrid

	tilesX := ceilDiv(bounds.Dx(), tilePxWidth)
	tilesY := ceilDiv(bounds.Dy(), tilePxHeight)

	var tiles []Tile
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x := tx * tilePxWidth
			y := ty * tilePxHeight
			w := minInt(tilePxWidth, bounds.Dx()-x)
			h := minInt(tilePxHeight, bounds.Dy()-y)

			rect := image.Rect(bounds.Min.X+x, bounds.Min.Y+y, bounds.Min.X+x+w, bounds.Min.Y+y+h)
			cropped := image.NewRGBA(image.Rect(0, 0, w, h))
			draw.Draw(cropped, cropped.Bounds(), img, rect.Min, draw.Src)

			label := tileLabel(ty, tx)
			if labelFont != nil {
				if err := labelFont.DrawLabel(cropped, label, 14); err != nil {
					return nil, 0, 0, err
				}
			}

			data, err := EncodeQuantizedPNG(cropped)
			if err != nil {
				return nil, 0, 0, err
			}

			tiles = append(tiles, Tile{Label: label, PNG: data})
		}
	}
	return tiles, tilesX, tilesY, nil
}

// tileLabel produces spreadsheet-style labels: row A, B, C... and
// 1-based column numbers, e.g. row 0 col 0 -> "A1".
func tileLabel(row, col int) string {
	rowLabel := string(rune('A' + row))
	return rowLabel + strconv.Itoa(col+1)
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
