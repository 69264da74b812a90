// Package typeset defines the internal drawing-instruction AST every PDF
// section renders into, and the gofpdf-backed engine that turns that AST
// into bytes. "Typeset markup" is deliberately not a textual markup
// language here: the AST is simpler to unit-test block-by-block, and the
// engine only needs to guarantee the output starts with "%PDF".
package typeset

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Block is one instruction in a document's typeset AST.
type Block interface {
	render(pdf *gofpdf.Fpdf)
}

// Doc is an ordered list of blocks making up one section's output.
type Doc struct {
	Blocks []Block
}

func (d *Doc) Add(b Block) {
	d.Blocks = append(d.Blocks, b)
}

// Heading is a titled line at one of three levels.
type Heading struct {
	Level int // 1..3
	Text  string
}

func (h Heading) render(pdf *gofpdf.Fpdf) {
	size := 18.0
	switch h.Level {
	case 2:
		size = 14
	case 3:
		size = 12
	}
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, h.Text, "", "L", false)
	pdf.Ln(2)
}

// Run is one inline-styled span within a Paragraph. A paragraph built
// from markdown carries one Run per inline markup change (bold,
// italic, code, link) instead of a single flat string, so the renderer
// can actually honor the markup instead of printing it literally.
type Run struct {
	Text    string
	Bold    bool
	Italic  bool
	Code    bool
	LinkURL string
}

// Paragraph is a run of body text, optionally bold/italic. Runs, when
// set, overrides Text/Bold/Italic with per-span styling; Text remains
// the plain single-style path every non-markdown section uses.
type Paragraph struct {
	Text   string
	Bold   bool
	Italic bool
	Runs   []Run
}

func (p Paragraph) render(pdf *gofpdf.Fpdf) {
	if len(p.Runs) == 0 {
		style := ""
		if p.Bold {
			style += "B"
		}
		if p.Italic {
			style += "I"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.MultiCell(0, 5, p.Text, "", "L", false)
		pdf.Ln(1)
		return
	}

	for _, r := range p.Runs {
		style := ""
		if r.Bold {
			style += "B"
		}
		if r.Italic {
			style += "I"
		}
		face := "Helvetica"
		if r.Code {
			face = "Courier"
		}
		pdf.SetFont(face, style, 10)
		if r.LinkURL != "" {
			pdf.WriteLinkString(5, r.Text, r.LinkURL)
		} else {
			pdf.Write(5, r.Text)
		}
	}
	pdf.Ln(6)
}

// Table renders a header row plus data rows, one column per header,
// each column taking an equal share of the printable page width.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t Table) render(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageW - left - right) / float64(maxInt(len(t.Headers), 1))

	for _, h := range t.Headers {
		pdf.CellFormat(colWidth, 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range t.Rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Image embeds a raster image given its raw bytes and a registered name.
type Image struct {
	Name       string
	Data       []byte
	WidthMM    float64
	HeightMM   float64
	ImageType  string // "PNG" or "JPG"
}

func (img Image) render(pdf *gofpdf.Fpdf) {
	opts := gofpdf.ImageOptions{ImageType: img.ImageType}
	pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
	pdf.ImageOptions(img.Name, -1, -1, img.WidthMM, img.HeightMM, false, opts, 0, "")
	pdf.Ln(img.HeightMM + 2)
}

// HorizontalRule draws a full-width line.
type HorizontalRule struct{}

func (HorizontalRule) render(pdf *gofpdf.Fpdf) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	y := pdf.GetY()
	pdf.Line(left, y, pageW-right, y)
	pdf.Ln(3)
}

// PageBreak forces a new page.
type PageBreak struct{}

func (PageBreak) render(pdf *gofpdf.Fpdf) {
	pdf.AddPage()
}

// Blockquote indents and italicizes a run of text, used for callouts.
type Blockquote struct {
	Text string
}

func (b Blockquote) render(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 10)
	left, top, right, bottom := pdf.GetMargins()
	pdf.SetMargins(left+8, top, right)
	pdf.MultiCell(0, 5, b.Text, "", "L", false)
	pdf.SetMargins(left, top, right)
	_ = bottom
	pdf.Ln(1)
}

// Render executes a Doc's blocks against a fresh single-section PDF
// writer and returns the encoded bytes.
func Render(doc *Doc) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetMargins(15, 15, 15)

	for _, b := range doc.Blocks {
		b.render(pdf)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperr.NewCompilation("render pdf: " + err.Error())
	}
	return buf.Bytes(), nil
}
