// Package character owns character records, their append-only version
// history, and level-up progression. The level-up validation rules
// (HP roll bounds, ability score improvement shape, multiclass ability
// prerequisites) are grounded line-for-line on original_source's
// services/character/level_up.rs, translated from Rust enums into a Go
// struct-plus-tag shape since Go has no sum type.
package character

import (
	"strconv"
	"strings"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

// HpGainMethod is Roll(n) or Average — level_up.rs's HpGainMethod enum.
type HpGainMethod struct {
	Roll    *int // non-nil selects Roll(n)
	Average bool
}

// AbilityScores mirrors the six canonical D&D ability scores.
type AbilityScores struct {
	Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma int
}

func (a AbilityScores) byName(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "strength":
		return a.Strength, true
	case "dexterity":
		return a.Dexterity, true
	case "constitution":
		return a.Constitution, true
	case "intelligence":
		return a.Intelligence, true
	case "wisdom":
		return a.Wisdom, true
	case "charisma":
		return a.Charisma, true
	default:
		return 0, false
	}
}

var validAbilities = map[string]bool{
	"strength": true, "dexterity": true, "constitution": true,
	"intelligence": true, "wisdom": true, "charisma": true,
}

func isValidAbility(name string) bool {
	return validAbilities[strings.ToLower(name)]
}

// AbilityIncrease is one half of an AbilityScoreImprovement choice.
type AbilityIncrease struct {
	Ability  string
	Increase int
}

// AsiOrFeat is either an ability score improvement (one or two
// increases summing to 2) or a feat name — level_up.rs's AsiOrFeat enum.
type AsiOrFeat struct {
	ASI  []AbilityIncrease // 1 or 2 entries when set
	Feat string            // non-empty selects the feat branch
}

// LevelUpOptions is the input to a level-up operation.
type LevelUpOptions struct {
	ClassName      string
	ClassSource    string
	HPMethod       HpGainMethod
	AsiOrFeat      *AsiOrFeat
	SubclassChoice string
	SnapshotReason string
}

// ValidateHPGain checks a roll is within [1, hitDieValue]; Average is
// always valid.
func (o LevelUpOptions) ValidateHPGain(hitDieValue int) error {
	if o.HPMethod.Roll == nil {
		return nil
	}
	v := *o.HPMethod.Roll
	if v < 1 || v > hitDieValue {
		return apperr.NewInvalidData(
			"HP roll " + strconv.Itoa(v) + " is invalid for hit die d" + strconv.Itoa(hitDieValue))
	}
	return nil
}

// ValidateAsiOrFeat enforces: ability names must be one of the six
// canonical abilities (case-insensitive), one or two increases, each in
// {1,2}, and their sum must equal exactly 2. A non-empty feat name
// selects the feat branch and is rejected if it is only whitespace.
func (o LevelUpOptions) ValidateAsiOrFeat() error {
	if o.AsiOrFeat == nil {
		return nil
	}
	if o.AsiOrFeat.Feat != "" {
		if strings.TrimSpace(o.AsiOrFeat.Feat) == "" {
			return apperr.NewInvalidData("feat name cannot be empty")
		}
		return nil
	}

	asi := o.AsiOrFeat.ASI
	if len(asi) == 0 || len(asi) > 2 {
		return apperr.NewInvalidData("ability score improvement requires one or two abilities")
	}
	total := 0
	for _, inc := range asi {
		if !isValidAbility(inc.Ability) {
			return apperr.NewInvalidData("invalid ability score: " + inc.Ability)
		}
		if inc.Increase < 1 || inc.Increase > 2 {
			return apperr.NewInvalidData("ability score increase must be 1 or 2")
		}
		total += inc.Increase
	}
	if total != 2 {
		return apperr.NewInvalidData("total ability score increase must be exactly 2")
	}
	return nil
}

// AverageHPGain is floor(hitDieValue/2) + 1, the "take the average"
// method's fixed result.
func AverageHPGain(hitDieValue int) int {
	return hitDieValue/2 + 1
}

// MulticlassRequirement is one class's multiclassing ability
// prerequisite: every entry in All must be met (AND), and at least one
// requirement set in Any must be fully met (OR) when Any is non-empty.
// This generalizes level_up.rs's flattened "push every requirement,
// including OR alternatives, into one list" into the actual AND/OR
// semantics the 5e multiclassing table describes.
type MulticlassRequirement struct {
	ClassName string
	All       map[string]int
	Any       []map[string]int
}

// Check reports whether scores satisfies the requirement.
func (r MulticlassRequirement) Check(scores AbilityScores) error {
	for ability, min := range r.All {
		score, ok := scores.byName(ability)
		if !ok {
			return apperr.NewInvalidData("unknown ability: " + ability)
		}
		if score < min {
			return apperr.NewInvalidData(
				"multiclass prerequisite not met: " + r.ClassName + " requires " + ability + " " + strconv.Itoa(min))
		}
	}

	if len(r.Any) == 0 {
		return nil
	}
	for _, alt := range r.Any {
		met := true
		for ability, min := range alt {
			score, ok := scores.byName(ability)
			if !ok || score < min {
				met = false
				break
			}
		}
		if met {
			return nil
		}
	}
	return apperr.NewInvalidData("multiclass prerequisite not met: " + r.ClassName + " requires one of its alternative ability minimums")
}

