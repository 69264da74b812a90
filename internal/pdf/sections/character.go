package sections

import (
	"fmt"
	"strings"

	"github.com/mimir-dm/mimir-dm-go/internal/pdf/builder"
	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
)

// ClassLevel is one entry in a (possibly multiclassed) character's
// class list.
type ClassLevel struct {
	ClassName string
	Level     int
	HitDie    int
}

// CharacterSheetSection renders a full character sheet: ability scores,
// derived combat numbers, proficiencies, and spellcasting summary.
type CharacterSheetSection struct {
	CharacterName   string
	Classes         []ClassLevel
	Race            string
	Background      string
	AbilityScores   map[string]int // "str","dex","con","int","wis","cha"
	ArmorBonus      int            // worn armor's base AC, 0 if unarmored
	ShieldBonus     int
	CurrentHP       int
	TempHP          int
	Proficiencies   []string
	Languages       []string
	SpellAbility    string // for DC/attack derivation; empty if non-caster
}

func (s *CharacterSheetSection) Name() string { return "character:" + s.CharacterName }

func (s *CharacterSheetSection) Render(_ *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc := &typeset.Doc{}
	totalLevel := s.TotalLevel()
	prof := ProficiencyBonus(totalLevel)

	doc.Add(typeset.Heading{Level: 1, Text: s.CharacterName})
	doc.Add(typeset.Paragraph{Text: fmt.Sprintf("%s %s, Level %d (%s)", s.Race, s.Background, totalLevel, s.ClassSummary())})
	doc.Add(typeset.HorizontalRule{})

	ac := s.ArmorClass()
	doc.Add(typeset.Table{
		Headers: []string{"AC", "HP", "Proficiency"},
		Rows:    [][]string{{fmt.Sprintf("%d", ac), fmt.Sprintf("%d (+%d temp)", s.CurrentHP, s.TempHP), fmt.Sprintf("+%d", prof)}},
	})

	doc.Add(typeset.Table{
		Headers: []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"},
		Rows: [][]string{{
			abilityCell(float64(s.AbilityScores["str"])),
			abilityCell(float64(s.AbilityScores["dex"])),
			abilityCell(float64(s.AbilityScores["con"])),
			abilityCell(float64(s.AbilityScores["int"])),
			abilityCell(float64(s.AbilityScores["wis"])),
			abilityCell(float64(s.AbilityScores["cha"])),
		}},
	})

	if s.SpellAbility != "" {
		mod := AbilityModifier(s.AbilityScores[s.SpellAbility])
		dc := 8 + prof + mod
		atk := prof + mod
		doc.Add(typeset.Paragraph{Text: fmt.Sprintf("Spell Save DC %d, Spell Attack Bonus +%d", dc, atk)})
	}

	if len(s.Proficiencies) > 0 {
		doc.Add(typeset.Paragraph{Text: "Proficiencies: " + strings.Join(s.Proficiencies, ", ")})
	}
	if len(s.Languages) > 0 {
		doc.Add(typeset.Paragraph{Text: "Languages: " + strings.Join(s.Languages, ", ")})
	}

	if len(s.Classes) > 1 {
		doc.Add(typeset.Heading{Level: 3, Text: "Multiclass Spell Slots"})
		slots := MulticlassSpellSlots(s.Classes)
		doc.Add(typeset.Paragraph{Text: slots})
	}

	return doc, nil
}

func (s *CharacterSheetSection) TotalLevel() int {
	total := 0
	for _, c := range s.Classes {
		total += c.Level
	}
	return total
}

func (s *CharacterSheetSection) ClassSummary() string {
	parts := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		parts[i] = fmt.Sprintf("%s %d", c.ClassName, c.Level)
	}
	return strings.Join(parts, "/")
}

// ArmorClass derives a basic AC from dex modifier and worn armor; a
// character with no armor uses the unarmored 10+dex baseline.
func (s *CharacterSheetSection) ArmorClass() int {
	dexMod := AbilityModifier(s.AbilityScores["dex"])
	base := 10 + dexMod
	if s.ArmorBonus > 0 {
		base = s.ArmorBonus + dexMod
	}
	return base + s.ShieldBonus
}

// ProficiencyBonus is the standard level-scaled proficiency bonus.
func ProficiencyBonus(totalLevel int) int {
	return 2 + (totalLevel-1)/4
}

// AbilityModifier is the standard (score-10)/2 floor division.
func AbilityModifier(score int) int {
	if score >= 10 {
		return (score - 10) / 2
	}
	return -((10 - score + 1) / 2)
}

// MulticlassSpellSlots sums each non-Warlock class's caster-level
// contribution (full casters contribute their level, half casters half
// their level rounded down, third casters a third rounded down) into one
// combined caster level, then reports it as a slot-table lookup key
// rather than expanding the full 9-level slot table inline. Warlock
// levels never enter this pool: Pact Magic has its own slot progression
// and recharges on a short rest, so it's reported separately.
func MulticlassSpellSlots(classes []ClassLevel) string {
	casterLevel := 0
	warlockLevel := 0
	for _, c := range classes {
		if strings.ToLower(c.ClassName) == "warlock" {
			warlockLevel += c.Level
			continue
		}
		casterLevel += casterContribution(c.ClassName, c.Level)
	}

	var parts []string
	if casterLevel > 0 {
		parts = append(parts, fmt.Sprintf("combined caster level %d", casterLevel))
	}
	if warlockLevel > 0 {
		slots, slotLevel := PactMagicSlots(warlockLevel)
		parts = append(parts, fmt.Sprintf("Pact Magic: %d level %d slot(s)", slots, slotLevel))
	}
	if len(parts) == 0 {
		return "no spell slots (non-caster multiclass)"
	}
	return strings.Join(parts, "; ")
}

var fullCasters = map[string]bool{"wizard": true, "sorcerer": true, "cleric": true, "druid": true, "bard": true}
var halfCasters = map[string]bool{"paladin": true, "ranger": true}
var thirdCasters = map[string]bool{"fighter": true, "rogue": true}

func casterContribution(className string, level int) int {
	name := strings.ToLower(className)
	switch {
	case fullCasters[name]:
		return level
	case halfCasters[name]:
		return level / 2
	case thirdCasters[name]:
		return level / 3
	default:
		return 0
	}
}

// pactMagicSlotsByLevel is the Warlock's Pact Magic progression (PHB
// table): total slots and the slot level they're all cast at, indexed
// by Warlock class level 1-20.
var pactMagicSlotsByLevel = [21][2]int{
	{0, 0},
	{1, 1}, {2, 1}, {2, 2}, {2, 2}, {2, 3},
	{2, 3}, {2, 4}, {2, 4}, {2, 5}, {2, 5},
	{3, 5}, {3, 5}, {3, 5}, {3, 5}, {3, 5},
	{3, 5}, {4, 5}, {4, 5}, {4, 5}, {4, 5},
}

// PactMagicSlots returns (slot count, slot level) for a Warlock's own
// Pact Magic table, independent of any other class's spellcasting.
func PactMagicSlots(warlockLevel int) (int, int) {
	if warlockLevel < 1 {
		return 0, 0
	}
	if warlockLevel > 20 {
		warlockLevel = 20
	}
	pair := pactMagicSlotsByLevel[warlockLevel]
	return pair[0], pair[1]
}
