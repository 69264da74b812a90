package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestValidateAsiOrFeat_SingleEntryMustStillSumToTwo(t *testing.T) {
	opts := LevelUpOptions{AsiOrFeat: &AsiOrFeat{ASI: []AbilityIncrease{{Ability: "strength", Increase: 1}}}}
	err := opts.ValidateAsiOrFeat()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 2")
}

func TestValidateAsiOrFeat_SingleEntryOfTwoIsValid(t *testing.T) {
	opts := LevelUpOptions{AsiOrFeat: &AsiOrFeat{ASI: []AbilityIncrease{{Ability: "constitution", Increase: 2}}}}
	require.NoError(t, opts.ValidateAsiOrFeat())
}

func TestValidateAsiOrFeat_TwoEntriesSummingToTwoIsValid(t *testing.T) {
	opts := LevelUpOptions{AsiOrFeat: &AsiOrFeat{ASI: []AbilityIncrease{
		{Ability: "strength", Increase: 1},
		{Ability: "dexterity", Increase: 1},
	}}}
	require.NoError(t, opts.ValidateAsiOrFeat())
}

func TestValidateAsiOrFeat_TwoEntriesSummingToThreeIsRejected(t *testing.T) {
	opts := LevelUpOptions{AsiOrFeat: &AsiOrFeat{ASI: []AbilityIncrease{
		{Ability: "strength", Increase: 1},
		{Ability: "dexterity", Increase: 2},
	}}}
	err := opts.ValidateAsiOrFeat()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 2")
}

func TestValidateAsiOrFeat_MoreThanTwoEntriesIsRejected(t *testing.T) {
	opts := LevelUpOptions{AsiOrFeat: &AsiOrFeat{ASI: []AbilityIncrease{
		{Ability: "strength", Increase: 1},
		{Ability: "dexterity", Increase: 1},
		{Ability: "wisdom", Increase: 1},
	}}}
	err := opts.ValidateAsiOrFeat()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one or two abilities")
}

func TestValidateAsiOrFeat_UnknownAbilityIsRejected(t *testing.T) {
	opts := LevelUpOptions{AsiOrFeat: &AsiOrFeat{ASI: []AbilityIncrease{{Ability: "luck", Increase: 2}}}}
	err := opts.ValidateAsiOrFeat()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ability score")
}

func TestValidateAsiOrFeat_FeatChoiceSkipsAsiRules(t *testing.T) {
	opts := LevelUpOptions{AsiOrFeat: &AsiOrFeat{Feat: "Sharpshooter"}}
	require.NoError(t, opts.ValidateAsiOrFeat())
}

func TestValidateHPGain_RollOutOfRangeIsRejected(t *testing.T) {
	opts := LevelUpOptions{HPMethod: HpGainMethod{Roll: intPtr(9)}}
	require.Error(t, opts.ValidateHPGain(8))
}

func TestValidateHPGain_RollWithinRangeIsAccepted(t *testing.T) {
	opts := LevelUpOptions{HPMethod: HpGainMethod{Roll: intPtr(5)}}
	require.NoError(t, opts.ValidateHPGain(8))
}

func TestAverageHPGain(t *testing.T) {
	assert.Equal(t, 5, AverageHPGain(8))
	assert.Equal(t, 7, AverageHPGain(12))
}

func TestMulticlassRequirement_AndSemanticsRejectsPartialMatch(t *testing.T) {
	req := MulticlassRequirement{ClassName: "paladin", All: map[string]int{"strength": 13, "charisma": 13}}
	scores := AbilityScores{Strength: 15, Charisma: 10}
	err := req.Check(scores)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charisma")
}

func TestMulticlassRequirement_AndSemanticsAcceptsFullMatch(t *testing.T) {
	req := MulticlassRequirement{ClassName: "paladin", All: map[string]int{"strength": 13, "charisma": 13}}
	scores := AbilityScores{Strength: 13, Charisma: 13}
	require.NoError(t, req.Check(scores))
}

func TestMulticlassRequirement_OrSemanticsAcceptsEitherAlternative(t *testing.T) {
	req := MulticlassRequirement{
		ClassName: "fighter",
		Any: []map[string]int{
			{"strength": 13},
			{"dexterity": 13},
		},
	}
	require.NoError(t, req.Check(AbilityScores{Dexterity: 14}))
}

func TestMulticlassRequirement_OrSemanticsRejectsWhenNeitherMet(t *testing.T) {
	req := MulticlassRequirement{
		ClassName: "fighter",
		Any: []map[string]int{
			{"strength": 13},
			{"dexterity": 13},
		},
	}
	err := req.Check(AbilityScores{Strength: 10, Dexterity: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alternative ability minimums")
}

func TestMulticlassRequirement_CombinesAndWithOr(t *testing.T) {
	req := MulticlassRequirement{
		ClassName: "ranger",
		All:       map[string]int{"dexterity": 13},
		Any: []map[string]int{
			{"wisdom": 13},
		},
	}
	require.Error(t, req.Check(AbilityScores{Dexterity: 8, Wisdom: 15}))
	require.Error(t, req.Check(AbilityScores{Dexterity: 15, Wisdom: 8}))
	require.NoError(t, req.Check(AbilityScores{Dexterity: 15, Wisdom: 15}))
}
