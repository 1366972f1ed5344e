package narrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"solo_legend/errors"
	"solo_legend/prompts"
	"solo_legend/story"
)

// ForgeSchema is the response schema for skill proposals.
var ForgeSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"skill": {
			Type: TypeObject,
			Properties: map[string]*Schema{
				"name":        {Type: TypeString},
				"description": {Type: TypeString},
				"cost":        {Type: TypeNumber},
				"effect_type": {Type: TypeString},
				"cooldown":    {Type: TypeNumber},
				"flavor_text": {Type: TypeString},
			},
			Required: []string{"name", "description", "cost", "effect_type", "cooldown"},
		},
		"mana_coin_cost": {Type: TypeNumber},
		"is_approved":    {Type: TypeBoolean},
		"refusal_reason": {Type: TypeString},
	},
	Required: []string{"skill", "mana_coin_cost", "is_approved"},
}

// ProposeSkill asks the collaborator to judge and price a skill concept.
// It never touches the character; confirmation is story.ConfirmForge.
func (n *Narrator) ProposeSkill(ctx context.Context, concept string, c story.Character) (story.ForgeOffer, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return story.ForgeOffer{}, errors.InvalidArgument("skill concept cannot be empty")
	}

	text, err := n.generate(ctx, TextRequest{
		Prompt: fmt.Sprintf(prompts.ForgePrompt, c.Class, concept),
		Schema: ForgeSchema,
	})
	if err != nil {
		return story.ForgeOffer{}, err
	}

	offer, err := ParseForgeOffer(text)
	if err != nil {
		n.logger.Warn("Unparsable forge reply", zap.Error(err))
		return story.ForgeOffer{}, err
	}
	n.logger.Info("Forge offer received",
		zap.String("skill", offer.Skill.Name),
		zap.Bool("approved", offer.IsApproved),
		zap.Int("price", offer.ManaCoinCost))
	return offer, nil
}
