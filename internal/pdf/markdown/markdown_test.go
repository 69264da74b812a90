package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
)

func firstParagraphRuns(t *testing.T, doc *typeset.Doc) []typeset.Run {
	t.Helper()
	for _, b := range doc.Blocks {
		if p, ok := b.(typeset.Paragraph); ok {
			return p.Runs
		}
	}
	t.Fatal("no paragraph block found")
	return nil
}

func TestConvert_BoldAndItalicProduceStyledRunsNotLiteralMarkup(t *testing.T) {
	doc, _, err := Convert([]byte("This is **bold** and *italic* text."))
	require.NoError(t, err)
	runs := firstParagraphRuns(t, doc)

	var boldRun, italicRun *typeset.Run
	for i := range runs {
		assert.NotContains(t, runs[i].Text, "*", "run text must not carry literal markdown markup")
		if runs[i].Bold {
			boldRun = &runs[i]
		}
		if runs[i].Italic {
			italicRun = &runs[i]
		}
	}
	require.NotNil(t, boldRun)
	require.NotNil(t, italicRun)
	assert.Equal(t, "bold", boldRun.Text)
	assert.Equal(t, "italic", italicRun.Text)
}

func TestConvert_LinkCarriesDestinationURL(t *testing.T) {
	doc, _, err := Convert([]byte("See [the docs](https://example.com/docs) for details."))
	require.NoError(t, err)
	runs := firstParagraphRuns(t, doc)

	var linkRun *typeset.Run
	for i := range runs {
		if runs[i].LinkURL != "" {
			linkRun = &runs[i]
		}
	}
	require.NotNil(t, linkRun)
	assert.Equal(t, "the docs", linkRun.Text)
	assert.Equal(t, "https://example.com/docs", linkRun.LinkURL)
}

func TestConvert_CodeSpanUsesMonospaceRun(t *testing.T) {
	doc, _, err := Convert([]byte("Run `go test ./...` before committing."))
	require.NoError(t, err)
	runs := firstParagraphRuns(t, doc)

	var codeRun *typeset.Run
	for i := range runs {
		if runs[i].Code {
			codeRun = &runs[i]
		}
	}
	require.NotNil(t, codeRun)
	assert.Equal(t, "go test ./...", codeRun.Text)
}

func TestConvert_PlainParagraphHasNoStyledRuns(t *testing.T) {
	doc, _, err := Convert([]byte("Just plain text, nothing fancy."))
	require.NoError(t, err)
	runs := firstParagraphRuns(t, doc)
	for _, r := range runs {
		assert.False(t, r.Bold)
		assert.False(t, r.Italic)
		assert.False(t, r.Code)
		assert.Empty(t, r.LinkURL)
	}
}

func TestConvert_ExtractsFrontmatterSeparatelyFromBody(t *testing.T) {
	source := "---\ntitle: Session One\n---\n\n# Heading\n\nBody text."
	doc, fm, err := Convert([]byte(source))
	require.NoError(t, err)
	require.NotNil(t, fm)
	assert.Equal(t, "Session One", fm["title"])

	var heading *typeset.Heading
	for _, b := range doc.Blocks {
		if h, ok := b.(typeset.Heading); ok {
			heading = &h
		}
	}
	require.NotNil(t, heading)
	assert.Equal(t, "Heading", heading.Text)
}
