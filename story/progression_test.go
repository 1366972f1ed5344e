package story_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solo_legend/errors"
	"solo_legend/story"
)

func newHero(t *testing.T) story.Character {
	t.Helper()
	c, err := story.NewCharacter(story.CharacterDraft{
		Name:       "Aria",
		Race:       "Elf",
		Class:      story.ClassMage,
		Attributes: story.DefaultAttributes(),
	})
	require.NoError(t, err)
	return c
}

func TestApplyTurn_LevelUp(t *testing.T) {
	c := newHero(t)
	c.XP = 140
	c.HP = 40
	c.Mana = 12
	maxHP, maxMana := c.MaxHP, c.MaxMana

	next := story.ApplyTurn(c, story.TurnResult{XPChange: 20})

	assert.Equal(t, 2, next.Level)
	assert.Equal(t, 10, next.XP)
	assert.Equal(t, maxHP+30, next.MaxHP)
	assert.Equal(t, maxMana+20, next.MaxMana)
	assert.Equal(t, next.MaxHP, next.HP)
	assert.Equal(t, next.MaxMana, next.Mana)
}

func TestApplyTurn_MultipleLevelUps(t *testing.T) {
	c := newHero(t)

	// 150 for level 1, 300 for level 2, 50 left over.
	next := story.ApplyTurn(c, story.TurnResult{XPChange: 500})

	assert.Equal(t, 3, next.Level)
	assert.Equal(t, 50, next.XP)
	assert.Equal(t, c.MaxHP+60, next.MaxHP)
	assert.Equal(t, c.MaxMana+40, next.MaxMana)
}

func TestApplyTurn_Clamping(t *testing.T) {
	c := newHero(t)
	c.MaxHP = 100
	c.HP = 10

	next := story.ApplyTurn(c, story.TurnResult{HPChange: -500, MPChange: -9999})
	assert.Equal(t, 0, next.HP)
	assert.Equal(t, 0.0, next.Mana)

	healed := story.ApplyTurn(next, story.TurnResult{HPChange: 1000, MPChange: 1000})
	assert.Equal(t, 100, healed.HP)
	assert.Equal(t, healed.MaxMana, healed.Mana)
}

func TestApplyTurn_CoinsNotFloored(t *testing.T) {
	c := newHero(t)
	c.ManaCoins = 5

	next := story.ApplyTurn(c, story.TurnResult{ManaCoinChange: -20})
	assert.Equal(t, -15, next.ManaCoins)
}

func TestApplyTurn_Deterministic(t *testing.T) {
	c := newHero(t)
	c.Inventory = []story.Item{{ID: "i1", Name: "Rusty Key"}, {ID: "i2", Name: "Torch"}}
	r := story.TurnResult{
		HPChange:        -12,
		MPChange:        -7.5,
		XPChange:        33,
		ManaCoinChange:  4,
		InventoryAdd:    []story.Item{{ID: "i3", Name: "Silver Ring"}},
		InventoryRemove: []string{"rusty key"},
	}

	first := story.ApplyTurn(c, r)
	second := story.ApplyTurn(c, r)

	assert.Equal(t, first, second)
	assert.Equal(t, []story.Item{{ID: "i2", Name: "Torch"}, {ID: "i3", Name: "Silver Ring"}}, first.Inventory)
	// input untouched
	assert.Len(t, c.Inventory, 2)
}

func TestRegenerate(t *testing.T) {
	c := newHero(t)
	c.Attributes.Intelligence = 10
	c.MaxMana = 100
	c.Mana = 50

	next, changed := story.Regenerate(c)
	assert.True(t, changed)
	assert.InDelta(t, 51.5, next.Mana, 1e-9)

	c.Mana = 99.8
	next, _ = story.Regenerate(c)
	assert.Equal(t, 100.0, next.Mana)

	_, changed = story.Regenerate(next)
	assert.False(t, changed)
}

func TestConfirmForge(t *testing.T) {
	skill := story.Skill{Name: "Ember Nova", Cost: 15, EffectType: story.EffectDamage, Cooldown: 2}

	t.Run("underfunded approved offer is rejected", func(t *testing.T) {
		c := newHero(t)
		c.ManaCoins = 40
		offer := story.ForgeOffer{Skill: skill, ManaCoinCost: 50, IsApproved: true}

		next, err := story.ConfirmForge(c, offer)
		require.Error(t, err)
		assert.True(t, errors.IsFailedPrecondition(err))
		assert.Equal(t, c, next)
		assert.False(t, story.CanAfford(c, offer))
	})

	t.Run("refused offer is rejected", func(t *testing.T) {
		c := newHero(t)
		c.ManaCoins = 500
		_, err := story.ConfirmForge(c, story.ForgeOffer{Skill: skill, ManaCoinCost: 10, RefusalReason: "too powerful"})
		assert.True(t, errors.IsFailedPrecondition(err))
	})

	t.Run("approved and funded", func(t *testing.T) {
		c := newHero(t)
		c.ManaCoins = 120
		next, err := story.ConfirmForge(c, story.ForgeOffer{Skill: skill, ManaCoinCost: 100, IsApproved: true})
		require.NoError(t, err)
		assert.Equal(t, 20, next.ManaCoins)
		assert.Equal(t, []story.Skill{skill}, next.Skills)
		assert.Empty(t, c.Skills)
	})
}
