package sections

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mimir-dm/mimir-dm-go/internal/pdf/builder"
	"github.com/mimir-dm/mimir-dm-go/internal/pdf/typeset"
)

// MonsterStatBlockSection renders one or more 5etools-shaped monster
// JSON records as stat blocks. 5etools data is wildly polymorphic about
// how it represents AC/HP/CR/speed/saves (sometimes a bare number,
// sometimes an object with extra detail), so every field goes through a
// normalizer that copes with every shape seen in the catalog data.
type MonsterStatBlockSection struct {
	Monsters []map[string]any
}

func NewMonsterStatBlockSection(monster map[string]any) *MonsterStatBlockSection {
	return &MonsterStatBlockSection{Monsters: []map[string]any{monster}}
}

func (s *MonsterStatBlockSection) Name() string { return "monster-stat-block" }

func (s *MonsterStatBlockSection) Render(_ *builder.VirtualFileRegistry) (*typeset.Doc, error) {
	doc := &typeset.Doc{}
	for i, m := range s.Monsters {
		if i > 0 {
			doc.Add(typeset.HorizontalRule{})
		}
		renderOneMonster(doc, m)
	}
	return doc, nil
}

func renderOneMonster(doc *typeset.Doc, m map[string]any) {
	name := stringOr(m["name"], "Unknown Monster")
	size := normalizeSize(m["size"])
	creatureType := normalizeType(m["type"])
	alignment := normalizeAlignment(m["alignment"])

	doc.Add(typeset.Heading{Level: 2, Text: name})
	doc.Add(typeset.Paragraph{Text: fmt.Sprintf("%s %s, %s", titlecase(size), creatureType, alignment), Italic: true})
	doc.Add(typeset.HorizontalRule{})

	doc.Add(typeset.Paragraph{Text: fmt.Sprintf("Armor Class %s", normalizeAC(m["ac"]))})
	doc.Add(typeset.Paragraph{Text: fmt.Sprintf("Hit Points %s", normalizeHP(m["hp"]))})
	doc.Add(typeset.Paragraph{Text: fmt.Sprintf("Speed %s", normalizeSpeed(m["speed"]))})
	doc.Add(typeset.HorizontalRule{})

	doc.Add(typeset.Table{
		Headers: []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"},
		Rows: [][]string{{
			abilityCell(m["str"]), abilityCell(m["dex"]), abilityCell(m["con"]),
			abilityCell(m["int"]), abilityCell(m["wis"]), abilityCell(m["cha"]),
		}},
	})

	if saves := normalizeSaveOrSkillMap(m["save"], strings.ToUpper); saves != "" {
		doc.Add(typeset.Paragraph{Text: "Saving Throws " + saves})
	}
	if skills := normalizeSaveOrSkillMap(m["skill"], titlecase); skills != "" {
		doc.Add(typeset.Paragraph{Text: "Skills " + skills})
	}
	if imm := normalizeStringList(m["immune"]); imm != "" {
		doc.Add(typeset.Paragraph{Text: "Damage Immunities " + imm})
	}
	if res := normalizeStringList(m["resist"]); res != "" {
		doc.Add(typeset.Paragraph{Text: "Damage Resistances " + res})
	}
	if vuln := normalizeStringList(m["vulnerable"]); vuln != "" {
		doc.Add(typeset.Paragraph{Text: "Damage Vulnerabilities " + vuln})
	}
	if cImm := normalizeStringList(m["conditionImmune"]); cImm != "" {
		doc.Add(typeset.Paragraph{Text: "Condition Immunities " + cImm})
	}

	senses := normalizeStringList(m["senses"])
	if senses == "" {
		senses = "passive Perception 10"
	}
	doc.Add(typeset.Paragraph{Text: "Senses " + senses})

	languages := normalizeStringList(m["languages"])
	if languages == "" {
		languages = "—"
	}
	doc.Add(typeset.Paragraph{Text: "Languages " + languages})

	doc.Add(typeset.Paragraph{Text: "Challenge " + normalizeCR(m["cr"])})

	if traits, ok := m["trait"].([]any); ok {
		doc.Add(typeset.HorizontalRule{})
		for _, t := range traits {
			entry, _ := t.(map[string]any)
			doc.Add(typeset.Paragraph{Text: stringOr(entry["name"], "") + ". " + entryText(entry["entries"]), Bold: false})
		}
	}

	if actions, ok := m["action"].([]any); ok {
		doc.Add(typeset.Heading{Level: 3, Text: "Actions"})
		for _, a := range actions {
			entry, _ := a.(map[string]any)
			doc.Add(typeset.Paragraph{Text: stringOr(entry["name"], "") + ". " + entryText(entry["entries"])})
		}
	}
}

func abilityCell(v any) string {
	score := intOr(v, 10)
	mod := AbilityModifier(score)
	sign := "+"
	if mod < 0 {
		sign = ""
	}
	return fmt.Sprintf("%d (%s%d)", score, sign, mod)
}

func normalizeSize(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return "Medium"
}

func normalizeType(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["type"].(string); ok {
			return s
		}
	}
	return "humanoid"
}

func normalizeAlignment(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var parts []string
		for _, a := range t {
			if s, ok := a.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return "neutral"
}

func normalizeAC(v any) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%d", int(t))
	case []any:
		if len(t) == 0 {
			return "10"
		}
		switch first := t[0].(type) {
		case float64:
			return fmt.Sprintf("%d", int(first))
		case map[string]any:
			base := intOr(first["ac"], 10)
			if from, ok := first["from"].([]any); ok && len(from) > 0 {
				return fmt.Sprintf("%d (%s)", base, normalizeStringList(from))
			}
			return fmt.Sprintf("%d", base)
		}
	}
	return "10"
}

func normalizeHP(v any) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%d", int(t))
	case map[string]any:
		avg := intOr(t["average"], 10)
		if formula, ok := t["formula"].(string); ok && formula != "" {
			return fmt.Sprintf("%d (%s)", avg, formula)
		}
		return fmt.Sprintf("%d", avg)
	}
	return "10"
}

func normalizeSpeed(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return "30 ft."
	}
	var parts []string
	order := []struct{ key, label string }{
		{"walk", ""}, {"fly", "fly"}, {"swim", "swim"}, {"climb", "climb"}, {"burrow", "burrow"},
	}
	for _, o := range order {
		if n, ok := obj[o.key]; ok {
			dist := intOr(n, 0)
			if o.label == "" {
				parts = append(parts, fmt.Sprintf("%d ft.", dist))
			} else {
				parts = append(parts, fmt.Sprintf("%s %d ft.", o.label, dist))
			}
		}
	}
	if len(parts) == 0 {
		return "30 ft."
	}
	return strings.Join(parts, ", ")
}

func normalizeCR(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case map[string]any:
		if s, ok := t["cr"].(string); ok {
			return s
		}
	}
	return "0"
}

func normalizeSaveOrSkillMap(v any, keyCase func(string) string) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", keyCase(k), stringOr(obj[k], "+0")))
	}
	return strings.Join(parts, ", ")
}

func normalizeStringList(v any) string {
	arr, ok := v.([]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, item := range arr {
		if s, ok := item.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func entryText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var parts []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func intOr(v any, fallback int) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return fallback
}

func titlecase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
