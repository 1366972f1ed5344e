package story

import "slices"

// CharacterClass is one of the four playable classes.
type CharacterClass string

const (
	ClassWarrior CharacterClass = "Warrior"
	ClassMage    CharacterClass = "Mage"
	ClassRogue   CharacterClass = "Rogue"
	ClassCleric  CharacterClass = "Cleric"
)

// Classes lists the playable classes in display order.
var Classes = []CharacterClass{ClassWarrior, ClassMage, ClassRogue, ClassCleric}

// Valid reports whether c is one of the playable classes.
func (c CharacterClass) Valid() bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// Rarity grades an item.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RarityMythic    Rarity = "Mythic"
	RarityArtifact  Rarity = "Artifact"
)

// World is the setting of a playthrough. Immutable once created.
type World struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Theme       string `json:"theme"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"createdAt"` // unix millis
}

// Attributes are the four allocatable scores.
type Attributes struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
}

// Item represents an object in the player's inventory.
type Item struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Type             string `json:"type"` // consumable, weapon, armor, accessory, tool, misc
	Rarity           Rarity `json:"rarity,omitempty"`
	Effect           string `json:"effect,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
	ClassRequirement string `json:"classRequirement,omitempty"`
}

// Equipment holds the three equip slots; nil means empty.
type Equipment struct {
	Weapon    *Item `json:"weapon"`
	Armor     *Item `json:"armor"`
	Accessory *Item `json:"accessory"`
}

// SkillEffect is the category of a forged skill.
type SkillEffect string

const (
	EffectDamage  SkillEffect = "damage"
	EffectHeal    SkillEffect = "heal"
	EffectUtility SkillEffect = "utility"
	EffectBuff    SkillEffect = "buff"
)

// Skill is a learned ability. Only created through the forge.
type Skill struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cost        int         `json:"cost"`
	EffectType  SkillEffect `json:"effect_type"`
	Cooldown    int         `json:"cooldown"`
	FlavorText  string      `json:"flavor_text,omitempty"`
}

// Quest tracks a story objective.
type Quest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"` // active, completed, failed
	Difficulty  int    `json:"difficulty"`
}

// Character is the player's hero.
type Character struct {
	Name                string         `json:"name"`
	Class               CharacterClass `json:"class"`
	Race                string         `json:"race"`
	Gender              string         `json:"gender"`
	Appearance          string         `json:"appearance"`
	Backstory           string         `json:"backstory"`
	BlessingName        string         `json:"blessingName,omitempty"`
	BlessingDescription string         `json:"blessingDescription,omitempty"`
	PortraitURL         string         `json:"portraitUrl,omitempty"`

	Level           int        `json:"level"`
	HP              int        `json:"hp"`
	MaxHP           int        `json:"maxHp"`
	Mana            float64    `json:"mana"`
	MaxMana         float64    `json:"maxMana"`
	XP              int        `json:"xp"`
	ManaCoins       int        `json:"manaCoins"`
	AttributePoints int        `json:"attributePoints"`
	Attributes      Attributes `json:"attributes"`

	Inventory     []Item    `json:"inventory"`
	Equipment     Equipment `json:"equipment"`
	Skills        []Skill   `json:"skills"`
	Quests        []Quest   `json:"quests"`
	Proficiencies []string  `json:"proficiencies"`
}

// Enemy exists only while combat is active.
type Enemy struct {
	Name        string `json:"name"`
	CurrentHP   int    `json:"currentHp"`
	MaxHP       int    `json:"maxHp"`
	Level       int    `json:"level"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// HealthRatio returns CurrentHP/MaxHP clamped to [0,1].
func (e *Enemy) HealthRatio() float64 {
	if e == nil || e.MaxHP <= 0 {
		return 0
	}
	r := float64(e.CurrentHP) / float64(e.MaxHP)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

// GameState is the situational part of a save.
type GameState struct {
	LocationName    string `json:"locationName"`
	IsCombat        bool   `json:"isCombat"`
	CurrentEnemy    *Enemy `json:"currentEnemy"`
	LastTurnSummary string `json:"lastTurnSummary"`
	WorldContext    string `json:"worldContext"`
}

// Sender tags a chat message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderDM     Sender = "dm"
	SenderSystem Sender = "system"
)

// ChatMessage is one entry of the append-only adventure log.
type ChatMessage struct {
	ID        string `json:"id"`
	Sender    Sender `json:"sender"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// GameSave is the aggregate root of one playthrough.
type GameSave struct {
	ID         string        `json:"id"`
	World      World         `json:"world"`
	Character  Character     `json:"character"`
	Messages   []ChatMessage `json:"messages"`
	GameState  GameState     `json:"gameState"`
	LastPlayed int64         `json:"lastPlayed"` // unix millis
}

// Clone returns a deep copy of the save so callers can mutate it freely.
func (s GameSave) Clone() GameSave {
	out := s
	out.Character = s.Character.Clone()
	out.Messages = slices.Clone(s.Messages)
	if s.GameState.CurrentEnemy != nil {
		enemy := *s.GameState.CurrentEnemy
		out.GameState.CurrentEnemy = &enemy
	}
	return out
}

// Clone returns a deep copy of the character.
func (c Character) Clone() Character {
	out := c
	out.Inventory = slices.Clone(c.Inventory)
	out.Skills = slices.Clone(c.Skills)
	out.Quests = slices.Clone(c.Quests)
	out.Proficiencies = slices.Clone(c.Proficiencies)
	out.Equipment = Equipment{
		Weapon:    cloneItem(c.Equipment.Weapon),
		Armor:     cloneItem(c.Equipment.Armor),
		Accessory: cloneItem(c.Equipment.Accessory),
	}
	return out
}

func cloneItem(it *Item) *Item {
	if it == nil {
		return nil
	}
	cp := *it
	return &cp
}

// TurnResult is the structured, defaulted record parsed from one collaborator reply.
type TurnResult struct {
	Narrative          string   `json:"narrative"`
	VisualDescription  string   `json:"visual_description"`
	HPChange           int      `json:"hp_change"`
	MPChange           float64  `json:"mp_change"`
	XPChange           int      `json:"xp_change"`
	ManaCoinChange     int      `json:"mana_coin_change"`
	InventoryAdd       []Item   `json:"inventory_add"`
	InventoryRemove    []string `json:"inventory_remove"`
	LocationUpdate     *string  `json:"location_update"`
	IsCombat           bool     `json:"is_combat"`
	EnemyUpdate        *Enemy   `json:"enemy_update"`
	SuggestedActions   []string `json:"suggested_actions"`
	WorldContextUpdate string   `json:"world_context_update"`
}

// ForgeOffer is the collaborator's verdict on a skill concept.
type ForgeOffer struct {
	Skill         Skill  `json:"skill"`
	ManaCoinCost  int    `json:"mana_coin_cost"`
	IsApproved    bool   `json:"is_approved"`
	RefusalReason string `json:"refusal_reason,omitempty"`
}
