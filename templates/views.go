// Package templates renders the HTML views as templ components.
//
//go:generate templ generate
package templates

import (
	"encoding/json"
	"fmt"
	"net/url"

	"solo_legend/story"
)

// CreatorForm is the state of the character creator.
type CreatorForm struct {
	World story.World
	Draft story.CharacterDraft
	Error string
}

// PlayView is everything the game screen shows.
type PlayView struct {
	Save        story.GameSave
	Suggestions []string
	Muted       bool
	Busy        bool
	Offer       *story.ForgeOffer
	Dice        []int
	Error       string
}

type attributeField struct {
	Name  string
	Value int
}

func attributeFields(a story.Attributes) []attributeField {
	return []attributeField{
		{"strength", a.Strength},
		{"dexterity", a.Dexterity},
		{"intelligence", a.Intelligence},
		{"wisdom", a.Wisdom},
	}
}

func playPath(id string) string {
	return "/play/" + url.PathEscape(id)
}

func downloadPath(id string) string {
	return "/download/" + url.PathEscape(id)
}

func deletePath(id string) string {
	return "/saves/" + url.PathEscape(id) + "/delete"
}

func creatorPath(worldID string) string {
	return "/creator?world=" + url.QueryEscape(worldID)
}

// actionVals is the hx-vals payload that submits a suggested action.
func actionVals(action string) string {
	return jsonObject(map[string]string{"action": action})
}

func sidesVals(sides int) string {
	return jsonObject(map[string]string{"sides": fmt.Sprint(sides)})
}

func jsonObject(v map[string]string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func muteLabel(muted bool) string {
	if muted {
		return "Unmute"
	}
	return "Mute"
}

func saveSummary(s story.GameSave) string {
	return fmt.Sprintf("· Lvl %d %s", s.Character.Level, s.Character.Class)
}

func heroLine(c story.Character) string {
	return fmt.Sprintf("Lvl %d %s %s", c.Level, c.Race, c.Class)
}

func hpLine(c story.Character) string {
	return fmt.Sprintf("HP %d/%d · %s", c.HP, c.MaxHP, GetHealthStatus(c.HP, c.MaxHP).Description)
}

func enemyLine(e *story.Enemy) string {
	return fmt.Sprintf("Lvl %d · %d/%d", e.Level, e.CurrentHP, e.MaxHP)
}

func offerLine(o *story.ForgeOffer) string {
	return fmt.Sprintf("%s · %s", o.Skill.EffectType, FormatSkill(o.Skill))
}
