package narrator_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solo_legend/errors"
	"solo_legend/narrator"
	"solo_legend/prompts"
	"solo_legend/story"
)

const fullReply = `{
  "narrative": "[Gorak]: You shall not pass!",
  "visual_description": "A troll bars a stone bridge.",
  "hp_change": -15,
  "mp_change": 5,
  "xp_change": 40,
  "mana_coin_change": 3,
  "inventory_add": [{"name": "Troll Tooth", "description": "yellowed and cracked", "type": "misc", "rarity": "Rare"}],
  "inventory_remove": ["Torch"],
  "location_update": "Stone Bridge",
  "is_combat": true,
  "enemy_update": {"name": "Gorak", "currentHp": 80, "maxHp": 100, "level": 3, "description": "a moss troll"},
  "suggested_actions": ["Attack", "Flee", "Parley"],
  "world_context_update": "A troll guards the bridge."
}`

func TestParseTurn_EquivalentAcrossWrappings(t *testing.T) {
	direct, err := narrator.ParseTurn(fullReply)
	require.NoError(t, err)

	wrappings := map[string]string{
		"json fence":        "```json\n" + fullReply + "\n```",
		"bare fence":        "```\n" + fullReply + "\n```",
		"fence with prose":  "Here is the turn:\n```json\n" + fullReply + "\n```\nEnjoy!",
		"prose only":        "Sure! " + fullReply + " Hope that helps.",
		"surrounding space": "\n\n   " + fullReply + "   \n",
	}
	for name, raw := range wrappings {
		t.Run(name, func(t *testing.T) {
			got, err := narrator.ParseTurn(raw)
			require.NoError(t, err)
			assert.Equal(t, direct, got)
		})
	}
}

func TestParseTurn_FullPayload(t *testing.T) {
	res, err := narrator.ParseTurn(fullReply)
	require.NoError(t, err)

	assert.Equal(t, -15, res.HPChange)
	assert.Equal(t, 5.0, res.MPChange)
	assert.Equal(t, 40, res.XPChange)
	assert.Equal(t, 3, res.ManaCoinChange)
	assert.True(t, res.IsCombat)
	require.NotNil(t, res.LocationUpdate)
	assert.Equal(t, "Stone Bridge", *res.LocationUpdate)
	require.NotNil(t, res.EnemyUpdate)
	assert.Equal(t, story.Enemy{Name: "Gorak", CurrentHP: 80, MaxHP: 100, Level: 3, Description: "a moss troll"}, *res.EnemyUpdate)
	require.Len(t, res.InventoryAdd, 1)
	assert.Equal(t, "Troll Tooth", res.InventoryAdd[0].Name)
	assert.Equal(t, story.RarityRare, res.InventoryAdd[0].Rarity)
	assert.NotEmpty(t, res.InventoryAdd[0].ID)
	assert.Equal(t, []string{"Torch"}, res.InventoryRemove)
	assert.Equal(t, []string{"Attack", "Flee", "Parley"}, res.SuggestedActions)
}

func TestParseTurn_Defaults(t *testing.T) {
	res, err := narrator.ParseTurn(`{}`)
	require.NoError(t, err)

	assert.Equal(t, story.TurnResult{
		Narrative:          prompts.FallbackNarrative,
		VisualDescription:  prompts.FallbackVisual,
		InventoryAdd:       []story.Item{},
		InventoryRemove:    []string{},
		SuggestedActions:   prompts.DefaultSuggestions,
		WorldContextUpdate: prompts.FallbackWorldContext,
	}, res)
}

func TestParseTurn_Coercion(t *testing.T) {
	raw := `{
		"narrative": 42,
		"hp_change": "-7",
		"mp_change": "lots",
		"xp_change": true,
		"mana_coin_change": null,
		"inventory_add": "sword",
		"inventory_remove": {"name": "x"},
		"suggested_actions": [],
		"is_combat": 1,
		"enemy_update": "goblin",
		"location_update": ""
	}`
	res, err := narrator.ParseTurn(raw)
	require.NoError(t, err)

	assert.Equal(t, prompts.FallbackNarrative, res.Narrative)
	assert.Equal(t, -7, res.HPChange)
	assert.Equal(t, 0.0, res.MPChange)
	assert.Equal(t, 1, res.XPChange)
	assert.Equal(t, 0, res.ManaCoinChange)
	assert.Empty(t, res.InventoryAdd)
	assert.Empty(t, res.InventoryRemove)
	assert.Equal(t, []string{}, res.SuggestedActions)
	assert.True(t, res.IsCombat)
	assert.Nil(t, res.EnemyUpdate)
	assert.Nil(t, res.LocationUpdate)
}

func TestParseTurn_HugeNumbersAreBounded(t *testing.T) {
	res, err := narrator.ParseTurn(`{"hp_change": 1e20, "xp_change": -1e20, "mana_coin_change": "9e30"}`)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000_000, res.HPChange)
	assert.Equal(t, -1_000_000_000, res.XPChange)
	assert.Equal(t, 1_000_000_000, res.ManaCoinChange)

	c := story.Character{Level: 1, HP: 10, MaxHP: 150, MaxMana: 150}
	res.XPChange = 1_000_000_000
	healed := story.ApplyTurn(c, res)
	assert.Equal(t, healed.MaxHP, healed.HP)
	assert.Positive(t, healed.XP)
	assert.Greater(t, healed.Level, 1)
}

func TestParseTurn_ItemIDsAreStable(t *testing.T) {
	raw := `{"inventory_add": ["Healing Potion", {"name": "healing potion"}, {"name": ""}, 7]}`
	a, err := narrator.ParseTurn(raw)
	require.NoError(t, err)
	b, err := narrator.ParseTurn(raw)
	require.NoError(t, err)

	require.Len(t, a.InventoryAdd, 2)
	assert.Equal(t, a, b)
	assert.Equal(t, a.InventoryAdd[0].ID, a.InventoryAdd[1].ID)
}

func TestParseTurn_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"no braces":       "The narrator shrugs.",
		"only open":       `{"narrative": "cut off`,
		"closing first":   `} oops {`,
		"invalid json":    `{"narrative": "a",}`,
		"two objects":     `{"a": 1} and {"b": 2}`,
		"nested fences":   "```json\n```json\n{\"narrative\":\"x\"}\n```\n```",
		"two blocks":      "```json\n{\"a\":1}\n```\ntext\n```json\n{\"b\":2}\n```",
		"fenced no json":  "```text\nnothing here\n```",
		"array not found": `["a", "b"]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := narrator.ParseTurn(raw)
			require.Error(t, err)
			assert.True(t, errors.IsMalformedResponse(err), "got %v", err)
			assert.Equal(t, story.TurnResult{}, res)
		})
	}
}

func TestParseForgeOffer(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		offer, err := narrator.ParseForgeOffer(`{"skill":{"name":"Ember Nova","description":"A ring of fire","cost":15,"effect_type":"Damage","cooldown":2,"flavor_text":"Burn."},"mana_coin_cost":80,"is_approved":true}`)
		require.NoError(t, err)
		assert.True(t, offer.IsApproved)
		assert.Equal(t, 80, offer.ManaCoinCost)
		assert.Equal(t, story.Skill{Name: "Ember Nova", Description: "A ring of fire", Cost: 15, EffectType: story.EffectDamage, Cooldown: 2, FlavorText: "Burn."}, offer.Skill)
	})

	t.Run("refused", func(t *testing.T) {
		offer, err := narrator.ParseForgeOffer(`{"skill":{"name":"Instant Win"},"mana_coin_cost":0,"is_approved":false,"refusal_reason":"Too powerful"}`)
		require.NoError(t, err)
		assert.False(t, offer.IsApproved)
		assert.Equal(t, "Too powerful", offer.RefusalReason)
	})

	t.Run("approved without skill is refused", func(t *testing.T) {
		offer, err := narrator.ParseForgeOffer(`{"mana_coin_cost":10,"is_approved":true}`)
		require.NoError(t, err)
		assert.False(t, offer.IsApproved)
		assert.NotEmpty(t, offer.RefusalReason)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := narrator.ParseForgeOffer("no")
		assert.True(t, errors.IsMalformedResponse(err))
	})
}

func TestTurnResultJSONNames(t *testing.T) {
	res, err := narrator.ParseTurn(fullReply)
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hp_change":-15`)
	assert.Contains(t, string(data), `"currentHp":80`)
}
