// Package reference resolves a catalog reference the way a document or
// LLM tool call names one: by kind/name/source, looked up in the catalog
// database tables only. Book files are not scanned, so an entry from a
// book that has not been imported does not resolve. The preview text returned to
// callers is sanitized with bluemonday, since 5etools fluff text embeds
// stray HTML spans the original renderer tolerated but a Go template must not.
package reference

import (
	"database/sql"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mimir-dm/mimir-dm-go/internal/catalog/query"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// Service resolves catalog references for callers that only have a name
// and optionally a source, not a database id.
type Service struct {
	queries  *query.Service
	sanitize *bluemonday.Policy
	// precedence lists the source abbreviations preferred when a name is
	// ambiguous across sources and the caller didn't pin one down
	// (spec.md §4.2: core rulebooks take precedence over third-party or
	// UA content when a reference doesn't specify a source).
	precedence []string
}

func New(db *sql.DB) *Service {
	return &Service{
		queries:  query.New(db),
		sanitize: bluemonday.StrictPolicy(),
		precedence: []string{"PHB", "XPHB", "DMG", "MM", "XMM", "TCE", "XGE"},
	}
}

// Resolved is a catalog reference resolved to a concrete record plus a
// sanitized preview string suitable for a tool response or document
// template substitution.
type Resolved struct {
	Kind    string
	Name    string
	Source  string
	Preview string
}

// Resolve looks up kind/name, preferring source if given, otherwise
// picking the highest-precedence source among matches, or the first
// matching source in alphabetical order when none is on the list.
func (s *Service) Resolve(kind, name, source string) (*Resolved, error) {
	if source != "" {
		entry, err := s.queries.GetByNameAndSource(kind, name, source)
		if err != nil {
			return nil, err
		}
		return s.toResolved(kind, entry.Name, entry.Source, entry.Fluff), nil
	}

	sources, err := s.queries.GetSources(kind)
	if err != nil {
		return nil, err
	}
	chosen := ""
	for _, pref := range s.precedence {
		for _, src := range sources {
			if strings.EqualFold(src, pref) {
				if _, err := s.queries.GetByNameAndSource(kind, name, src); err == nil {
					chosen = src
					break
				}
			}
		}
		if chosen != "" {
			break
		}
	}
	if chosen == "" {
		for _, src := range sources {
			if _, err := s.queries.GetByNameAndSource(kind, name, src); err == nil {
				chosen = src
				break
			}
		}
	}
	if chosen == "" {
		return nil, apperr.NewNotFound(kind, name)
	}

	entry, err := s.queries.GetByNameAndSource(kind, name, chosen)
	if err != nil {
		return nil, err
	}
	return s.toResolved(kind, entry.Name, entry.Source, entry.Fluff), nil
}

func (s *Service) toResolved(kind, name, source, fluff string) *Resolved {
	preview := s.sanitize.Sanitize(fluff)
	if len(preview) > 400 {
		preview = preview[:400] + "..."
	}
	return &Resolved{Kind: kind, Name: name, Source: source, Preview: preview}
}
