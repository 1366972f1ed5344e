package narrator

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"solo_legend/errors"
	"solo_legend/prompts"
	"solo_legend/story"
)

const fence = "```"

// fencedBlock captures the body of a markdown code block with an optional language tag.
var fencedBlock = regexp.MustCompile("(?s)```[\\w+-]*\\s*(.*?)\\s*```")

// itemNamespace seeds deterministic IDs for items the collaborator hands out without one.
var itemNamespace = uuid.MustParse("6f1b2a3c-4d5e-4f60-8a7b-9c0d1e2f3a4b")

// extractJSON isolates the JSON object inside a collaborator reply.
func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	switch n := strings.Count(text, fence); {
	case n > 2:
		return "", errors.MalformedResponsef("reply holds %d fence markers, expected at most one block", n)
	case n == 2:
		if m := fencedBlock.FindStringSubmatch(text); m != nil {
			text = m[1]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.MalformedResponse("no JSON object found in reply")
	}
	return text[start : end+1], nil
}

// decodeObject parses the extracted JSON into a generic object, keeping numbers exact.
func decodeObject(raw string) (map[string]any, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeMalformedResponse, "invalid JSON in reply")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.MalformedResponse("trailing data after JSON object")
	}
	if obj == nil {
		return nil, errors.MalformedResponse("reply JSON is null")
	}
	return obj, nil
}

// ParseTurn converts a collaborator reply into a defaulted TurnResult.
// It fails only when no JSON object can be recovered; missing fields take defaults.
func ParseTurn(raw string) (story.TurnResult, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return story.TurnResult{}, err
	}

	res := story.TurnResult{
		Narrative:          stringOr(obj["narrative"], prompts.FallbackNarrative),
		VisualDescription:  stringOr(obj["visual_description"], prompts.FallbackVisual),
		HPChange:           toInt(obj["hp_change"]),
		MPChange:           toNumber(obj["mp_change"]),
		XPChange:           toInt(obj["xp_change"]),
		ManaCoinChange:     toInt(obj["mana_coin_change"]),
		InventoryAdd:       toItems(obj["inventory_add"]),
		InventoryRemove:    toNames(obj["inventory_remove"]),
		IsCombat:           truthy(obj["is_combat"]),
		EnemyUpdate:        toEnemy(obj["enemy_update"]),
		WorldContextUpdate: stringOr(obj["world_context_update"], prompts.FallbackWorldContext),
	}

	if loc := stringOr(obj["location_update"], ""); loc != "" {
		res.LocationUpdate = &loc
	}

	if list, ok := obj["suggested_actions"].([]any); ok {
		res.SuggestedActions = toStrings(list)
	} else {
		res.SuggestedActions = append([]string(nil), prompts.DefaultSuggestions...)
	}

	return res, nil
}

// ParseForgeOffer converts a schema-constrained forge reply into a ForgeOffer.
func ParseForgeOffer(raw string) (story.ForgeOffer, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return story.ForgeOffer{}, err
	}

	offer := story.ForgeOffer{
		ManaCoinCost:  toInt(obj["mana_coin_cost"]),
		IsApproved:    truthy(obj["is_approved"]),
		RefusalReason: stringOr(obj["refusal_reason"], ""),
	}
	if skill, ok := obj["skill"].(map[string]any); ok {
		offer.Skill = story.Skill{
			Name:        stringOr(skill["name"], ""),
			Description: stringOr(skill["description"], ""),
			Cost:        toInt(skill["cost"]),
			EffectType:  story.SkillEffect(strings.ToLower(stringOr(skill["effect_type"], string(story.EffectUtility)))),
			Cooldown:    toInt(skill["cooldown"]),
			FlavorText:  stringOr(skill["flavor_text"], ""),
		}
	}

	if offer.IsApproved && offer.Skill.Name == "" {
		offer.IsApproved = false
		offer.RefusalReason = "the forge returned no skill"
	}
	if offer.ManaCoinCost < 0 {
		offer.ManaCoinCost = 0
	}
	return offer, nil
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// toNumber is a loose numeric conversion: numbers, numeric strings and booleans convert,
// everything else is 0.
func toNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = n
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// maxMagnitude bounds every integer field of a reply.
const maxMagnitude = 1e9

func toInt(v any) int {
	f := math.Round(toNumber(v))
	return int(math.Max(-maxMagnitude, math.Min(maxMagnitude, f)))
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case json.Number, float64:
		return toNumber(b) != 0
	case string:
		return b != "" && !strings.EqualFold(b, "false")
	default:
		return true
	}
}

func toStrings(list []any) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		switch s := v.(type) {
		case string:
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		case json.Number:
			out = append(out, s.String())
		}
	}
	return out
}

func toNames(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, el := range list {
		switch e := el.(type) {
		case string:
			if strings.TrimSpace(e) != "" {
				out = append(out, e)
			}
		case map[string]any:
			if name := stringOr(e["name"], ""); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func toItems(v any) []story.Item {
	list, ok := v.([]any)
	if !ok {
		return []story.Item{}
	}
	out := make([]story.Item, 0, len(list))
	for _, el := range list {
		var it story.Item
		switch e := el.(type) {
		case string:
			it = story.Item{Name: strings.TrimSpace(e), Type: "misc", Rarity: story.RarityCommon}
		case map[string]any:
			it = story.Item{
				ID:               stringOr(e["id"], ""),
				Name:             strings.TrimSpace(stringOr(e["name"], "")),
				Description:      stringOr(e["description"], ""),
				Type:             stringOr(e["type"], "misc"),
				Rarity:           story.Rarity(stringOr(e["rarity"], string(story.RarityCommon))),
				Effect:           stringOr(e["effect"], ""),
				ClassRequirement: stringOr(e["classRequirement"], ""),
			}
		default:
			continue
		}
		if it.Name == "" {
			continue
		}
		if it.ID == "" {
			it.ID = itemID(it.Name)
		}
		out = append(out, it)
	}
	return out
}

func itemID(name string) string {
	return fmt.Sprintf("item-%s", uuid.NewSHA1(itemNamespace, []byte(strings.ToLower(name))))
}

func toEnemy(v any) *story.Enemy {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &story.Enemy{
		Name:        stringOr(obj["name"], ""),
		CurrentHP:   toInt(obj["currentHp"]),
		MaxHP:       toInt(obj["maxHp"]),
		Level:       toInt(obj["level"]),
		Description: stringOr(obj["description"], ""),
		ImageURL:    stringOr(obj["imageUrl"], ""),
	}
}
