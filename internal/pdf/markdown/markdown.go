// Package markdown converts a user-authored or template-rendered
// markdown document into a typeset.Doc, walking the goldmark AST
// instead of re-parsing markdown by hand. A YAML frontmatter block
// ahead of the markdown body is extracted before goldmark ever sees
// the content, since goldmark has no frontmatter concept of its own.
package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Frontmatter is the parsed "---\n...\n---" YAML block, if present.
type Frontmatter map[string]any

const frontmatterDelim = "---"

// splitFrontmatter separates a leading YAML frontmatter block from the
// markdown body. Absence of a leading "---" line means there is no
// frontmatter and the whole input is body.
func splitFrontmatter(content string) (Frontmatter, string, error) {
	trimmed := strings.TrimLeft(content, "\r\n")
	if !strings.HasPrefix(trimmed, frontmatterDelim) {
		return nil, content, nil
	}

	rest := trimmed[len(frontmatterDelim):]
	idx := strings.Index(rest, "\n"+frontmatterDelim)
	if idx == -1 {
		return nil, content, nil
	}

	yamlBlock := rest[:idx]
	body := rest[idx+len("\n"+frontmatterDelim):]
	body = strings.TrimPrefix(body, "\n")

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, "", apperr.NewInvalidData("parse frontmatter: " + err.Error())
	}
	return fm, body, nil
}

// Convert turns markdown source into a typeset.Doc plus any frontmatter
// found ahead of the body.
func Convert(source []byte) (*typeset.Doc, Frontmatter, error) {
	fm, body, err := splitFrontmatter(string(source))
	if err != nil {
		return nil, nil, err
	}

	md := goldmark.New()
	bodyBytes := []byte(body)
	root := md.Parser().Parse(text.NewReader(bodyBytes))

	doc := &typeset.Doc{}
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			doc.Add(typeset.Heading{Level: node.Level, Text: plainText(node, bodyBytes)})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			doc.Add(typeset.Paragraph{Runs: inlineRuns(node, bodyBytes)})
			return ast.WalkSkipChildren, nil
		case *ast.Blockquote:
			doc.Add(typeset.Blockquote{Text: plainText(node, bodyBytes)})
			return ast.WalkSkipChildren, nil
		case *ast.ThematicBreak:
			doc.Add(typeset.HorizontalRule{})
			return ast.WalkContinue, nil
		case *ast.FencedCodeBlock:
			doc.Add(typeset.Paragraph{Text: codeBlockText(node, bodyBytes)})
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			doc.Add(typeset.Paragraph{Text: codeBlockText(node, bodyBytes)})
			return ast.WalkSkipChildren, nil
		case *ast.List:
			doc.Add(typeset.Paragraph{Text: listText(node, bodyBytes)})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, nil, apperr.NewCompilation("walk markdown ast: " + err.Error())
	}

	return doc, fm, nil
}

// plainText flattens a block node's inline children into one text run,
// dropping emphasis markers — headings and blockquotes render as plain
// typeset text regardless of inline markup.
func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeInline(&buf, c, src)
	}
	return strings.TrimSpace(buf.String())
}

// inlineRuns converts a paragraph's inline AST into styled typeset.Run
// spans: emphasis becomes Bold/Italic, links carry their destination
// URL, code spans get the monospace face. Nothing downstream sees
// literal "**"/"[...]()" markup.
func inlineRuns(n ast.Node, src []byte) []typeset.Run {
	var runs []typeset.Run
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectRuns(&runs, c, src, false, false)
	}
	return trimRuns(runs)
}

func collectRuns(out *[]typeset.Run, n ast.Node, src []byte, bold, italic bool) {
	switch node := n.(type) {
	case *ast.Text:
		text := string(node.Segment.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			text += " "
		}
		if text != "" {
			*out = append(*out, typeset.Run{Text: text, Bold: bold, Italic: italic})
		}
	case *ast.Emphasis:
		b, i := bold, italic
		if node.Level >= 2 {
			b = true
		} else {
			i = true
		}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			collectRuns(out, c, src, b, i)
		}
	case *ast.Link:
		var linkRuns []typeset.Run
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			collectRuns(&linkRuns, c, src, bold, italic)
		}
		url := string(node.Destination)
		for i := range linkRuns {
			linkRuns[i].LinkURL = url
		}
		*out = append(*out, linkRuns...)
	case *ast.CodeSpan:
		var buf bytes.Buffer
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(src))
			}
		}
		*out = append(*out, typeset.Run{Text: buf.String(), Bold: bold, Italic: italic, Code: true})
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			collectRuns(out, c, src, bold, italic)
		}
	}
}

// trimRuns trims leading/trailing whitespace off the first and last
// run's text and drops any run left empty by that trim.
func trimRuns(runs []typeset.Run) []typeset.Run {
	if len(runs) == 0 {
		return runs
	}
	runs[0].Text = strings.TrimLeft(runs[0].Text, " \t\r\n")
	last := len(runs) - 1
	runs[last].Text = strings.TrimRight(runs[last].Text, " \t\r\n")

	out := runs[:0]
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func writeInline(buf *bytes.Buffer, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		buf.Write(node.Segment.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			buf.WriteByte(' ')
		}
	case *ast.Emphasis:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(buf, c, src)
		}
	case *ast.Link:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(buf, c, src)
		}
	case *ast.CodeSpan:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(buf, c, src)
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(buf, c, src)
		}
	}
}

func codeBlockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

func listText(n *ast.List, src []byte) string {
	var buf bytes.Buffer
	i := 1
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "-"
		if n.IsOrdered() {
			bullet = strconv.Itoa(i) + "."
		}
		buf.WriteString(bullet)
		buf.WriteByte(' ')
		buf.WriteString(plainText(item, src))
		buf.WriteByte('\n')
		i++
	}
	return strings.TrimSpace(buf.String())
}
