// Package builder assembles a finished PDF from an ordered list of
// sections plus a registry of supporting virtual files (embedded images,
// generated map tiles) that sections reference by name rather than by
// filesystem path. The concurrent-map-guarded-by-sync.RWMutex shape
// mirrors the connection registry pattern used elsewhere in this tree
// for shared, concurrently-touched service state.
package builder

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Renderable is one document section: a character sheet, a spell card
// block, an encounter stat block, a map preview, or a user document
// converted from markdown.
type Renderable interface {
	// Name identifies the section for diagnostics.
	Name() string
	// Render produces the section's typeset blocks, reading any
	// embedded assets it needs from the registry.
	Render(reg *VirtualFileRegistry) (*typeset.Doc, error)
}

// VirtualFileRegistry holds in-memory assets (images, generated tile
// PNGs) that sections reference by name instead of touching disk
// directly, so a builder run is reproducible independent of what's on
// the filesystem at render time.
type VirtualFileRegistry struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewVirtualFileRegistry() *VirtualFileRegistry {
	return &VirtualFileRegistry{files: make(map[string][]byte)}
}

func (r *VirtualFileRegistry) Put(name string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[name] = data
}

func (r *VirtualFileRegistry) Get(name string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.files[name]
	return data, ok
}

// Diagnostic is one non-fatal problem encountered while assembling a
// document (a missing image, an unresolved reference). Assembly
// continues past these; BuildResult.Diagnostics carries them to the
// caller instead of failing the whole build over one bad section.
type Diagnostic struct {
	Section string
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Section, d.Message)
}

// Diagnostics is a joined view of multiple Diagnostic values, usable
// anywhere an error is expected.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "; ")
}

// DocumentBuilder assembles one or more Renderables into a single PDF.
type DocumentBuilder struct {
	registry    *VirtualFileRegistry
	sections    []Renderable
	diagnostics []Diagnostic
}

func New(registry *VirtualFileRegistry) *DocumentBuilder {
	if registry == nil {
		registry = NewVirtualFileRegistry()
	}
	return &DocumentBuilder{registry: registry}
}

func (b *DocumentBuilder) Add(r Renderable) {
	b.sections = append(b.sections, r)
}

// BuildResult is a finished PDF plus any non-fatal diagnostics raised
// while assembling it.
type BuildResult struct {
	PDF         []byte
	Diagnostics []Diagnostic
}

// Build renders every added section in order, concatenating their
// typeset blocks into one document, and encodes it to PDF bytes. A
// document with no sections is refused rather than producing an empty,
// confusing PDF.
func (b *DocumentBuilder) Build() (*BuildResult, error) {
	if len(b.sections) == 0 {
		return nil, apperr.NewValidation("document has no sections to render")
	}

	doc := &typeset.Doc{}
	for i, section := range b.sections {
		sDoc, err := section.Render(b.registry)
		if err != nil {
			b.diagnostics = append(b.diagnostics, Diagnostic{Section: section.Name(), Message: err.Error()})
			continue
		}
		if i > 0 {
			doc.Add(typeset.PageBreak{})
		}
		doc.Blocks = append(doc.Blocks, sDoc.Blocks...)
	}

	if len(doc.Blocks) == 0 {
		return nil, Diagnostics(b.diagnostics)
	}

	out, err := typeset.Render(doc)
	if err != nil {
		return nil, err
	}

	return &BuildResult{PDF: out, Diagnostics: b.diagnostics}, nil
}

// DumpDebugCopy writes the rendered PDF to a temp file for manual
// inspection when a render looks wrong, returning its path.
func DumpDebugCopy(pdf []byte, namePrefix string) (string, error) {
	f, err := os.CreateTemp("", namePrefix+"-*.pdf")
	if err != nil {
		return "", apperr.NewIo("create debug pdf", err)
	}
	defer f.Close()

	if _, err := f.Write(pdf); err != nil {
		return "", apperr.NewIo("write debug pdf", err)
	}
	return f.Name(), nil
}

// LooksLikePDF is a cheap sanity check used by callers and tests: a
// well-formed PDF stream begins with the "%PDF" signature.
func LooksLikePDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}
