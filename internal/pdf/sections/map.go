package sections

import (
	"fmt"

	"github.com/mimir-dm/mimir-dm-go/internal/pdf/builder"
	"github.com/mimir-dm/mimir-dm-go/internal/pdf/mapexport"
	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
)

// MapPreviewSection embeds a single rendered map image (grid and, if
// requested, tokens already baked in by the caller) as one print page.
type MapPreviewSection struct {
	Title     string
	ImageName string // key into the builder.VirtualFileRegistry
	WidthMM   float64
	HeightMM  float64
}

func (s *MapPreviewSection) Name() string { return "map-preview:" + s.Title }

func (s *MapPreviewSection) Render(reg *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc := &typeset.Doc{}
	doc.Add(typeset.Heading{Level: 2, Text: s.Title})

	data, ok := reg.Get(s.ImageName)
	if !ok {
		doc.Add(typeset.Paragraph{Text: "(map image unavailable: " + s.ImageName + ")"})
		return doc, nil
	}
	doc.Add(typeset.Image{Name: s.ImageName, Data: data, WidthMM: s.WidthMM, HeightMM: s.HeightMM, ImageType: "PNG"})
	return doc, nil
}

// TiledMapSection lays out a map's play tiles one per page, in row-major
// order, each captioned with its spreadsheet-style label so a DM can
// assemble and tape them together in the right grid.
type TiledMapSection struct {
	Title   string
	Tiles   []mapexport.Tile
	TilesX  int
	TilesY  int
	WidthMM float64
}

func (s *TiledMapSection) Name() string { return "tiled-map:" + s.Title }

func (s *TiledMapSection) Render(reg *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc := &typeset.Doc{}
	doc.Add(typeset.Heading{Level: 1, Text: s.Title})
	doc.Add(typeset.Paragraph{Text: fmt.Sprintf("%d x %d tiles, assemble in reading order (A1, A2, ...).", s.TilesX, s.TilesY)})

	for i, tile := range s.Tiles {
		if i > 0 {
			doc.Add(typeset.PageBreak{})
		}
		name := fmt.Sprintf("%s-tile-%s", s.Title, tile.Label)
		reg.Put(name, tile.PNG)
		doc.Add(typeset.Heading{Level: 3, Text: "Tile " + tile.Label})
		doc.Add(typeset.Image{Name: name, Data: tile.PNG, WidthMM: s.WidthMM, ImageType: "PNG"})
	}
	return doc, nil
}

// TokenCutout is one physical paper-standee token: a creature image
// sized to its grid footprint plus a small name label.
type TokenCutout struct {
	Name      string
	ImageName string
	SizeMM    float64
}

// TokenCutoutSheet lays out multiple token cutouts on print pages for
// players to cut out and use as physical minis.
type TokenCutoutSheet struct {
	Title   string
	Cutouts []TokenCutout
}

func (s *TokenCutoutSheet) Name() string { return "token-cutouts:" + s.Title }

func (s *TokenCutoutSheet) Render(reg *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc := &typeset.Doc{}
	doc.Add(typeset.Heading{Level: 1, Text: s.Title})

	for _, c := range s.Cutouts {
		data, ok := reg.Get(c.ImageName)
		if !ok {
			doc.Add(typeset.Paragraph{Text: c.Name + " (image unavailable)"})
			continue
		}
		doc.Add(typeset.Image{Name: c.ImageName, Data: data, WidthMM: c.SizeMM, HeightMM: c.SizeMM, ImageType: "PNG"})
		doc.Add(typeset.Paragraph{Text: c.Name, Bold: true})
	}
	return doc, nil
}
