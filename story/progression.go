package story

import (
	"math"
	"strings"

	"solo_legend/errors"
)

const (
	// XPPerLevel multiplied by the current level gives the next threshold.
	XPPerLevel = 150
	// LevelUpHP is added to MaxHP on every level gained.
	LevelUpHP = 30
	// LevelUpMana is added to MaxMana on every level gained.
	LevelUpMana = 20
)

// ApplyTurn folds a turn's deltas into a copy of c.
//
// Coins are not floor-clamped here; the forge confirmation step keeps them non-negative.
func ApplyTurn(c Character, r TurnResult) Character {
	next := c.Clone()

	next.HP = clampInt(next.HP+r.HPChange, 0, next.MaxHP)
	next.Mana = math.Max(0, math.Min(next.MaxMana, next.Mana+r.MPChange))
	next.XP += r.XPChange
	next.ManaCoins += r.ManaCoinChange

	for next.Level > 0 && next.XP >= next.Level*XPPerLevel {
		next.XP -= next.Level * XPPerLevel
		next.Level++
		next.MaxHP += LevelUpHP
		next.MaxMana += LevelUpMana
		next.HP = next.MaxHP
		next.Mana = next.MaxMana
	}

	next.Inventory = reconcileInventory(next.Inventory, r.InventoryRemove, r.InventoryAdd)
	return next
}

// reconcileInventory drops removed names (case-insensitive) then appends the additions.
func reconcileInventory(inv []Item, remove []string, add []Item) []Item {
	drop := make(map[string]bool, len(remove))
	for _, name := range remove {
		drop[strings.ToLower(strings.TrimSpace(name))] = true
	}

	out := make([]Item, 0, len(inv)+len(add))
	for _, it := range inv {
		if !drop[strings.ToLower(strings.TrimSpace(it.Name))] {
			out = append(out, it)
		}
	}
	return append(out, add...)
}

// RegenAmount is the mana restored per passive tick.
func RegenAmount(c Character) float64 {
	return 1 + float64(c.Attributes.Intelligence)/20
}

// Regenerate applies one passive mana tick. The second result is false when mana was already full.
func Regenerate(c Character) (Character, bool) {
	if c.Mana >= c.MaxMana {
		return c, false
	}
	c.Mana = math.Min(c.MaxMana, c.Mana+RegenAmount(c))
	return c, true
}

// CanAfford reports whether the character can pay for an approved offer.
func CanAfford(c Character, offer ForgeOffer) bool {
	return offer.IsApproved && c.ManaCoins >= offer.ManaCoinCost
}

// ConfirmForge debits the offer's price and teaches the skill.
// Refused or unaffordable offers are rejected without touching c.
func ConfirmForge(c Character, offer ForgeOffer) (Character, error) {
	if !offer.IsApproved {
		return c, errors.FailedPrecondition("the forge refused this concept")
	}
	if offer.ManaCoinCost < 0 {
		return c, errors.InvalidArgumentf("negative forge price %d", offer.ManaCoinCost)
	}
	if c.ManaCoins < offer.ManaCoinCost {
		return c, errors.FailedPreconditionf("forge costs %d mana-coins, only %d available", offer.ManaCoinCost, c.ManaCoins)
	}

	next := c.Clone()
	next.ManaCoins -= offer.ManaCoinCost
	next.Skills = append(next.Skills, offer.Skill)
	return next, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
