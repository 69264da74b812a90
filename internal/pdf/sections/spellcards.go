package sections

import (
	"fmt"
	"strings"

	"github.com/mimir-dm/mimir-dm-go/internal/pdf/builder"
	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
)

// SpellCard is one spell's print-ready summary, already stripped of
// 5etools inline markup.
type SpellCard struct {
	Name        string
	Level       int
	School      string
	CastingTime string
	Range       string
	Components  string
	Duration    string
	Description string
}

// SpellCardsSection renders a one-card-per-spell reference sheet.
type SpellCardsSection struct {
	Spells []SpellCard
}

func (s *SpellCardsSection) Name() string { return "spell-cards" }

func (s *SpellCardsSection) Render(_ *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc := &typeset.Doc{}
	for i, c := range s.Spells {
		if i > 0 {
			doc.Add(typeset.HorizontalRule{})
		}
		levelLabel := "Cantrip"
		if c.Level > 0 {
			levelLabel = fmt.Sprintf("Level %d", c.Level)
		}
		doc.Add(typeset.Heading{Level: 3, Text: c.Name})
		doc.Add(typeset.Paragraph{Text: fmt.Sprintf("%s %s", levelLabel, c.School), Italic: true})
		doc.Add(typeset.Paragraph{Text: fmt.Sprintf("Casting Time: %s    Range: %s", c.CastingTime, c.Range)})
		doc.Add(typeset.Paragraph{Text: fmt.Sprintf("Components: %s    Duration: %s", c.Components, c.Duration)})
		doc.Add(typeset.Paragraph{Text: stripCatalogTags(c.Description)})
	}
	return doc, nil
}

// NewSpellCardFromCatalogEntry builds a SpellCard from a decoded
// catalog spell JSON blob (the shape produced by the catalog importer).
func NewSpellCardFromCatalogEntry(name string, level int, school string, entries []string) SpellCard {
	return SpellCard{
		Name:        name,
		Level:       level,
		School:      school,
		Description: strings.Join(entries, " "),
	}
}

// EquipmentCard is one piece of gear's print-ready summary.
type EquipmentCard struct {
	Name        string
	ItemType    string
	Rarity      string
	Value       string
	Weight      string
	Description string
}

// EquipmentCardsSection renders a one-card-per-item reference sheet.
type EquipmentCardsSection struct {
	Items []EquipmentCard
}

func (s *EquipmentCardsSection) Name() string { return "equipment-cards" }

func (s *EquipmentCardsSection) Render(_ *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc := &typeset.Doc{}
	for i, item := range s.Items {
		if i > 0 {
			doc.Add(typeset.HorizontalRule{})
		}
		doc.Add(typeset.Heading{Level: 3, Text: item.Name})
		subtitle := item.ItemType
		if item.Rarity != "" && item.Rarity != "none" {
			subtitle += ", " + item.Rarity
		}
		doc.Add(typeset.Paragraph{Text: subtitle, Italic: true})
		doc.Add(typeset.Paragraph{Text: fmt.Sprintf("Value: %s    Weight: %s", item.Value, item.Weight)})
		doc.Add(typeset.Paragraph{Text: stripCatalogTags(item.Description)})
	}
	return doc, nil
}

// isCardWorthy reports whether a spell or item has enough content to
// deserve its own printed card, rather than padding the document with
// near-empty entries for catalog records that only have a name.
func isCardWorthy(description string) bool {
	return strings.TrimSpace(description) != ""
}
