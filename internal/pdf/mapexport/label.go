package mapexport

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// LabelFont wraps a parsed TTF used to stamp tile labels (A1, B3, ...)
// in a tile's corner. Loaded once from a configured font file and
// reused across every tile in a slicing run.
type LabelFont struct {
	parsed *truetype.Font
}

// LoadLabelFont parses TTF bytes (typically read from a path configured
// on the print server) into a reusable LabelFont.
func LoadLabelFont(ttfBytes []byte) (*LabelFont, error) {
	parsed, err := freetype.ParseFont(ttfBytes)
	if err != nil {
		return nil, apperr.NewInvalidData("parse label font: " + err.Error())
	}
	return &LabelFont{parsed: parsed}, nil
}

// DrawLabel stamps a tile's spreadsheet-style label in its top-left
// corner over a small opaque backing so it stays legible against busy
// map art.
func (f *LabelFont) DrawLabel(img *image.RGBA, label string, sizePt float64) error {
	pad := int(sizePt * 1.8)
	backing := image.Rect(0, 0, pad*len(label)+4, pad+4)
	draw.Draw(img, backing, image.NewUniform(color.RGBA{255, 255, 255, 220}), image.Point{}, draw.Over)

	ctx := freetype.NewContext()
	ctx.SetDPI(96)
	ctx.SetFont(f.parsed)
	ctx.SetFontSize(sizePt)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.RGBA{20, 20, 20, 255}))
	ctx.SetHinting(font.HintingFull)

	pt := freetype.Pt(4, int(sizePt)+2)
	if _, err := ctx.DrawString(label, pt); err != nil {
		return apperr.NewCompilation("draw tile label: " + err.Error())
	}
	return nil
}
