package story

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"solo_legend/errors"
)

const (
	// BaseAttribute is every attribute's starting score.
	BaseAttribute = 10
	// MinAttribute is the lowest score an attribute may be lowered to.
	MinAttribute = 8
	// AttributePool is the number of bonus points available at creation.
	AttributePool = 20
	// MaxAttribute is the highest score reachable by spending the whole pool on one attribute.
	MaxAttribute = BaseAttribute + AttributePool
)

// PresetWorlds returns the fixed set of ready-made settings.
func PresetWorlds() []World {
	return []World{
		{
			ID:          "fantasy-classic",
			Name:        "Eldoria: The Forgotten Kingdom",
			Theme:       "High Medieval Fantasy",
			Description: "A kingdom of floating castles where heroes are born in taverns and magic runs through the veins of the land.",
		},
		{
			ID:          "cyber-neo",
			Name:        "Neo-Saka 2099",
			Theme:       "Dystopian Cyberpunk",
			Description: "Megacorporations rule from the top of neon towers while implant-laden mercenaries survive on the wet asphalt.",
		},
		{
			ID:          "eldritch-fog",
			Name:        "Yharnam: The Fog",
			Theme:       "Gothic and Cosmic Horror",
			Description: "A blood moon watches over a cursed city. Knowledge brings madness and monsters lurk in the eternal fog.",
		},
	}
}

// PresetWorld looks a preset up by ID and stamps its creation time.
func PresetWorld(id string, now time.Time) (World, bool) {
	for _, w := range PresetWorlds() {
		if w.ID == id {
			w.CreatedAt = now.UnixMilli()
			return w, true
		}
	}
	return World{}, false
}

// NewCustomWorld builds a user-authored world. Name and theme are required.
func NewCustomWorld(name, theme, description string, now time.Time) (World, error) {
	name, theme = strings.TrimSpace(name), strings.TrimSpace(theme)
	if name == "" || theme == "" {
		return World{}, errors.InvalidArgument("world name and theme are required")
	}
	return World{
		ID:          "custom-" + uuid.NewString(),
		Name:        name,
		Theme:       theme,
		Description: strings.TrimSpace(description),
		CreatedAt:   now.UnixMilli(),
	}, nil
}

// CharacterDraft is the creator form before validation.
type CharacterDraft struct {
	Name                string
	Race                string
	Gender              string
	Appearance          string
	Backstory           string
	BlessingName        string
	BlessingDescription string
	PortraitURL         string
	Class               CharacterClass
	Attributes          Attributes
}

// DefaultAttributes returns every attribute at BaseAttribute.
func DefaultAttributes() Attributes {
	return Attributes{
		Strength:     BaseAttribute,
		Dexterity:    BaseAttribute,
		Intelligence: BaseAttribute,
		Wisdom:       BaseAttribute,
	}
}

// SpentPoints returns how many bonus points an allocation uses.
// Lowering an attribute below BaseAttribute refunds points.
func (a Attributes) SpentPoints() int {
	return a.Strength + a.Dexterity + a.Intelligence + a.Wisdom - 4*BaseAttribute
}

func (a Attributes) validate() error {
	for _, attr := range []struct {
		name  string
		value int
	}{
		{"strength", a.Strength},
		{"dexterity", a.Dexterity},
		{"intelligence", a.Intelligence},
		{"wisdom", a.Wisdom},
	} {
		if attr.value < MinAttribute {
			return errors.InvalidArgumentf("%s must be at least %d", attr.name, MinAttribute)
		}
		// Bounding each score first keeps the sum below from overflowing.
		if attr.value > MaxAttribute {
			return errors.InvalidArgumentf("%s cannot exceed %d", attr.name, MaxAttribute)
		}
	}
	if spent := a.SpentPoints(); spent > AttributePool {
		return errors.InvalidArgumentf("allocation spends %d points, only %d available", spent, AttributePool)
	}
	return nil
}

// NewCharacter validates a draft and derives the level-one hero.
func NewCharacter(d CharacterDraft) (Character, error) {
	name, race := strings.TrimSpace(d.Name), strings.TrimSpace(d.Race)
	if name == "" || race == "" {
		return Character{}, errors.InvalidArgument("name and race are required")
	}
	if !d.Class.Valid() {
		return Character{}, errors.InvalidArgumentf("unknown class %q", d.Class)
	}
	if err := d.Attributes.validate(); err != nil {
		return Character{}, err
	}

	maxHP := 100 + d.Attributes.Strength*5
	maxMana := float64(50 + d.Attributes.Intelligence*10)

	return Character{
		Name:                name,
		Class:               d.Class,
		Race:                race,
		Gender:              strings.TrimSpace(d.Gender),
		Appearance:          strings.TrimSpace(d.Appearance),
		Backstory:           strings.TrimSpace(d.Backstory),
		BlessingName:        strings.TrimSpace(d.BlessingName),
		BlessingDescription: strings.TrimSpace(d.BlessingDescription),
		PortraitURL:         d.PortraitURL,
		Level:               1,
		HP:                  maxHP,
		MaxHP:               maxHP,
		Mana:                maxMana,
		MaxMana:             maxMana,
		AttributePoints:     AttributePool - d.Attributes.SpentPoints(),
		Attributes:          d.Attributes,
		Inventory:           []Item{},
		Skills:              []Skill{},
		Quests:              []Quest{},
		Proficiencies:       []string{},
	}, nil
}
