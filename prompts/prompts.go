package prompts

import "fmt"

// SystemInstruction is sent with every narrative request. Args: world name, world theme,
// character name, race, class.
const SystemInstruction = `You are the Supreme RPG Game Master. Respond ONLY in JSON.
WORLD: %s (%s)
CHARACTER: %s (%s %s).
Golden rules:
1. Never leave the JSON.
2. Be dark, heroic and detailed.
3. If there is combat, 'is_combat' must be true.

The JSON object has these keys:
  "narrative": string, what happens (may start with "[Speaker]:" when an NPC speaks),
  "visual_description": string, a short scene description for an illustrator,
  "hp_change", "mp_change", "xp_change", "mana_coin_change": numbers, deltas for this turn,
  "inventory_add": array of {"name","description","type","rarity"},
  "inventory_remove": array of item names,
  "location_update": string or null,
  "is_combat": boolean,
  "enemy_update": {"name","currentHp","maxHp","level","description"} or null,
  "suggested_actions": array of 3 short strings,
  "world_context_update": string, a one-line memory of the story so far.
`

// ArrivalPrompt opens a new adventure. Args: character name, world name.
const ArrivalPrompt = `START: The hero %s arrives in %s. Narrate the beginning of the adventure and give 3 options.`

// TurnPrompt carries one player action. Args: action, die roll, hp, mana, location.
const TurnPrompt = `ACTION: %s | DIE: %s. HP: %d, MP: %d. LOCATION: %s.`

// ForgePrompt asks for a skill verdict. Args: character class, concept.
const ForgePrompt = `FORGE: The character of class %s wishes to manifest the following skill concept: %s. Analyse whether it is appropriate and return the skill data.`

// ImageStyle prefixes every image prompt.
const ImageStyle = "Digital RPG art style: "

// EnemyImagePrompt describes a monster portrait. Args: enemy name, description.
const EnemyImagePrompt = "RPG Monster, %s, %s, cinematic, highly detailed art."

// PortraitPrompt describes a hero portrait. Args: gender, race, class, appearance, blessing.
const PortraitPrompt = "%s %s %s, physical: %s, blessing: %s"

// SpeechPrompt frames narration for the speech model. Args: speaker, text.
const SpeechPrompt = "%s says: %s"

// Fallback texts used when the collaborator is unreachable or omits fields.
const (
	FallbackNarrative       = "The mist dissipates..."
	FallbackVisual          = "A mysterious place."
	FallbackWorldContext    = "Following the journey."
	FallbackLocation        = "Portal das Sombras"
	FallbackTurnSummary     = "Silent Arrival"
	FallbackContext         = "Mystic connection weakened."
	ArrivalLocation         = "Journey's Beginning"
	ArrivalTurnSummary      = "Arrival"
	NarratorDistracted      = "The narrator was distracted by a dimensional butterfly. Try acting again."
	ForgeAcquiredAction     = "SYSTEM: Manifestation successful! Skill '%s' acquired."
	RolledDieAction         = "Rolled a D%d"
	RollSuffix              = "%s (Die result: %d)"
	offlineArrivalNarrative = "Your eyes open in %s. The air hums with the theme of %s. Destiny has called you, but the Master is silent... for now."
)

// DefaultSuggestions replaces a missing suggested_actions list.
var DefaultSuggestions = []string{"Observe", "Continue"}

// OfflineArrival is the pre-authored opening scene used when the adventure start fails.
func OfflineArrival(worldName, theme string) string {
	return fmt.Sprintf(offlineArrivalNarrative, worldName, theme)
}

// System renders SystemInstruction.
func System(worldName, theme, charName, race, class string) string {
	return fmt.Sprintf(SystemInstruction, worldName, theme, charName, race, class)
}

// Turn renders TurnPrompt.
func Turn(action, roll string, hp, mana int, location string) string {
	return fmt.Sprintf(TurnPrompt, action, roll, hp, mana, location)
}
