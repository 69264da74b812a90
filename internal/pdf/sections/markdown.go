package sections

import (
	"github.com/mimir-dm/mimir-dm-go/internal/pdf/builder"
	mdconv "github.com/mimir-dm/mimir-dm-go/internal/pdf/markdown"
	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
)

// MarkdownSection wraps a rendered document (session notes, handouts,
// any template output) as a PDF section, reusing the shared markdown
// conversion rather than re-implementing block rendering per section.
type MarkdownSection struct {
	Title   string
	Content []byte
}

func (s *MarkdownSection) Name() string { return "markdown:" + s.Title }

func (s *MarkdownSection) Render(_ *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc, _, err := mdconv.Convert(s.Content)
	if err != nil {
		return nil, err
	}
	if s.Title != "" {
		titled := &typeset.Doc{}
		titled.Add(typeset.Heading{Level: 1, Text: s.Title})
		titled.Blocks = append(titled.Blocks, doc.Blocks...)
		return titled, nil
	}
	return doc, nil
}
