package templates

import (
	"fmt"
	"strings"

	"solo_legend/story"
)

// HealthStatus represents the hero's health state and its corresponding color.
type HealthStatus struct {
	Description string
	Color       string
}

// GetHealthStatus returns a HealthStatus based on the share of hit points left.
func GetHealthStatus(hp, maxHP int) HealthStatus {
	health := Percent(float64(hp), float64(maxHP))
	switch {
	case health >= 80:
		return HealthStatus{"Healthy", "#a6e22e"} // Lime Green
	case health >= 50:
		return HealthStatus{"Injured", "#e6db74"} // Yellow
	case health >= 20:
		return HealthStatus{"Wounded", "#fd971f"} // Orange
	case health > 0:
		return HealthStatus{"Critical", "#f92672"} // Pink/Red
	default:
		return HealthStatus{"Fallen", "#75715e"} // Gray
	}
}

// Percent returns cur/max as a whole percentage in [0,100].
func Percent(cur, max float64) int {
	if max <= 0 {
		return 0
	}
	p := int(cur / max * 100)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// XPNeeded is the experience required for the next level.
func XPNeeded(c story.Character) int {
	return c.Level * story.XPPerLevel
}

// FormatItem renders an item as "Name (rarity)".
func FormatItem(it story.Item) string {
	if it.Rarity == "" {
		return it.Name
	}
	return fmt.Sprintf("%s (%s)", it.Name, strings.ToLower(string(it.Rarity)))
}

// FormatSkill renders a skill with its mana cost and cooldown.
func FormatSkill(s story.Skill) string {
	parts := []string{fmt.Sprintf("%d MP", s.Cost)}
	if s.Cooldown > 0 {
		parts = append(parts, fmt.Sprintf("%d turn cooldown", s.Cooldown))
	}
	return fmt.Sprintf("%s [%s]", s.Name, strings.Join(parts, ", "))
}

// HealthStyle colours the hero's hit point line.
func HealthStyle(status HealthStatus) string {
	return fmt.Sprintf("<style>.sheet .hp { color: %s; }</style>", status.Color)
}

// EnemyBarStyle sizes the enemy health bar from its health ratio.
func EnemyBarStyle(e *story.Enemy) string {
	return fmt.Sprintf("<style>#enemy .bar div { width: %d%%; }</style>", Percent(e.HealthRatio(), 1))
}

// VignetteStyle darkens the edges of the log while in combat, more as the hero weakens.
func VignetteStyle(state story.GameState, c story.Character) string {
	if !state.IsCombat {
		return ""
	}
	tension := 100 - Percent(float64(c.HP), float64(c.MaxHP))/2
	opacity := float64(tension) / 200.0 // 0.25 to 0.5
	spread := tension / 2
	blur := tension / 4

	return fmt.Sprintf(`
		<style>
			#log::before {
				content: '';
				position: absolute;
				top: 0;
				left: 0;
				right: 0;
				bottom: 0;
				box-shadow: inset 0 0 %dpx %dpx rgba(80,0,0,%.2f);
				transition: box-shadow 0.5s ease-in-out;
				pointer-events: none;
				border-radius: 8px;
			}
		</style>
	`, blur, spread, opacity)
}
