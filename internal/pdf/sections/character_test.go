package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPactMagicSlots_FollowsThePHBProgression(t *testing.T) {
	cases := []struct {
		level      int
		slots      int
		slotLevel  int
	}{
		{1, 1, 1},
		{2, 2, 1},
		{5, 2, 3},
		{11, 3, 5},
		{17, 4, 5},
		{20, 4, 5},
	}
	for _, c := range cases {
		slots, slotLevel := PactMagicSlots(c.level)
		assert.Equal(t, c.slots, slots, "level %d slot count", c.level)
		assert.Equal(t, c.slotLevel, slotLevel, "level %d slot level", c.level)
	}
}

func TestPactMagicSlots_BelowLevelOneIsZero(t *testing.T) {
	slots, slotLevel := PactMagicSlots(0)
	assert.Equal(t, 0, slots)
	assert.Equal(t, 0, slotLevel)
}

func TestMulticlassSpellSlots_WarlockNeverJoinsTheSharedCasterPool(t *testing.T) {
	classes := []ClassLevel{
		{ClassName: "Wizard", Level: 3},
		{ClassName: "Warlock", Level: 2},
	}
	result := MulticlassSpellSlots(classes)
	assert.Contains(t, result, "combined caster level 3")
	assert.Contains(t, result, "Pact Magic: 2 level 1 slot(s)")
}

func TestMulticlassSpellSlots_PureWarlockReportsOnlyPactMagic(t *testing.T) {
	classes := []ClassLevel{{ClassName: "Warlock", Level: 5}}
	result := MulticlassSpellSlots(classes)
	assert.Equal(t, "Pact Magic: 2 level 3 slot(s)", result)
}

func TestMulticlassSpellSlots_NonCasterMulticlassReportsNoSlots(t *testing.T) {
	classes := []ClassLevel{
		{ClassName: "Fighter", Level: 2},
		{ClassName: "Rogue", Level: 2},
	}
	assert.Equal(t, "no spell slots (non-caster multiclass)", MulticlassSpellSlots(classes))
}

func TestCasterContribution_HalfAndThirdCastersRoundDown(t *testing.T) {
	assert.Equal(t, 2, casterContribution("Paladin", 5))
	assert.Equal(t, 1, casterContribution("Fighter", 5))
	assert.Equal(t, 5, casterContribution("Wizard", 5))
	assert.Equal(t, 0, casterContribution("Barbarian", 5))
}

func TestProficiencyBonus_ScalesByLevelTier(t *testing.T) {
	assert.Equal(t, 2, ProficiencyBonus(1))
	assert.Equal(t, 3, ProficiencyBonus(5))
	assert.Equal(t, 6, ProficiencyBonus(20))
}

func TestAbilityModifier_RoundsTowardNegativeInfinity(t *testing.T) {
	assert.Equal(t, 0, AbilityModifier(10))
	assert.Equal(t, 3, AbilityModifier(17))
	assert.Equal(t, -1, AbilityModifier(9))
	assert.Equal(t, -4, AbilityModifier(2))
}
