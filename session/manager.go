// Package session runs active adventures: one Session per save being played, each with its
// own regeneration loop and media update channel.
package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solo_legend/audio"
	"solo_legend/clock"
	"solo_legend/errors"
	"solo_legend/narrator"
	"solo_legend/prompts"
	"solo_legend/saves"
	"solo_legend/story"
)

const (
	// StartingCoins is granted when the opening scene was generated.
	StartingCoins = 150
	// FallbackCoins is granted when the offline arrival had to be used.
	FallbackCoins = 100
	// DefaultRegenInterval is the mana regeneration tick.
	DefaultRegenInterval = 3 * time.Second
	// DMAvatar is shown next to the game master's messages.
	DMAvatar = "https://img.icons8.com/ios-filled/100/b45309/wizard.png"
)

// Narrator is what a session needs from the game master.
type Narrator interface {
	StartAdventure(ctx context.Context, c story.Character, world story.World) (story.TurnResult, error)
	ProcessTurn(ctx context.Context, in narrator.TurnRequest) (story.TurnResult, error)
	ProposeSkill(ctx context.Context, concept string, c story.Character) (story.ForgeOffer, error)
	GenerateImage(ctx context.Context, prompt string) string
	Speak(ctx context.Context, narrative string) *audio.Clip
}

var _ Narrator = (*narrator.Narrator)(nil)

// Roller returns a number in [1, sides].
type Roller func(sides int) int

// RandomRoll is the default Roller.
func RandomRoll(sides int) int { return rand.IntN(sides) + 1 }

// Config configures a Manager.
type Config struct {
	Narrator      Narrator
	Store         *saves.Store
	Clock         clock.Clock
	Logger        *zap.Logger
	RegenInterval time.Duration
	Roller        Roller
}

// Validate checks the required fields.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Narrator == nil {
		return errors.InvalidArgument("narrator cannot be nil")
	}
	if cfg.Store == nil {
		return errors.InvalidArgument("store cannot be nil")
	}
	return nil
}

// Manager creates adventures and hands out sessions for saves.
type Manager struct {
	narrator      Narrator
	store         *saves.Store
	clock         clock.Clock
	logger        *zap.Logger
	regenInterval time.Duration
	roll          Roller

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager. Close stops every session it started.
func NewManager(cfg *Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		narrator:      cfg.Narrator,
		store:         cfg.Store,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		regenInterval: cfg.RegenInterval,
		roll:          cfg.Roller,
		ctx:           ctx,
		cancel:        cancel,
		sessions:      make(map[string]*Session),
	}
	if m.clock == nil {
		m.clock = clock.New()
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.regenInterval <= 0 {
		m.regenInterval = DefaultRegenInterval
	}
	if m.roll == nil {
		m.roll = RandomRoll
	}
	return m, nil
}

// Saves lists every stored save, most recent first.
func (m *Manager) Saves() []story.GameSave {
	return m.store.List()
}

// Save returns the latest copy of a save, preferring the running session's view of it.
func (m *Manager) Save(id string) (story.GameSave, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s.Save(), nil
	}
	return m.store.Get(id)
}

// NewAdventure starts a fresh save for the character in world. If the opening scene cannot be
// generated in time, the offline arrival is used instead; either way a save is returned.
func (m *Manager) NewAdventure(ctx context.Context, c story.Character, world story.World) (story.GameSave, error) {
	res, err := m.narrator.StartAdventure(ctx, c, world)

	var save story.GameSave
	if err != nil {
		m.logger.Warn("Using offline arrival",
			zap.String("world", world.Name),
			zap.Bool("timeout", errors.IsTimeout(err)),
			zap.Error(err))
		save = m.fallbackSave(c, world)
		adventuresTotal.WithLabelValues("offline").Inc()
	} else {
		save = m.startedSave(c, world, res)
		adventuresTotal.WithLabelValues("generated").Inc()
	}

	stored, err := m.store.Put(context.WithoutCancel(ctx), save)
	if err != nil {
		return story.GameSave{}, errors.Wrap(err, "failed to store new adventure")
	}
	m.logger.Info("Adventure started",
		zap.String("save", stored.ID),
		zap.String("world", world.Name),
		zap.String("character", c.Name),
		zap.Int("mana_coins", stored.Character.ManaCoins))
	return stored, nil
}

func (m *Manager) startedSave(c story.Character, world story.World, res story.TurnResult) story.GameSave {
	c = c.Clone()
	c.ManaCoins = StartingCoins

	location := prompts.ArrivalLocation
	if res.LocationUpdate != nil && *res.LocationUpdate != "" {
		location = *res.LocationUpdate
	}
	return story.GameSave{
		ID:        uuid.NewString(),
		World:     world,
		Character: c,
		Messages: []story.ChatMessage{{
			ID:        uuid.NewString(),
			Sender:    story.SenderDM,
			Content:   res.Narrative,
			AvatarURL: DMAvatar,
		}},
		GameState: story.GameState{
			LocationName:    location,
			IsCombat:        res.IsCombat,
			CurrentEnemy:    res.EnemyUpdate,
			LastTurnSummary: prompts.ArrivalTurnSummary,
			WorldContext:    res.WorldContextUpdate,
		},
		LastPlayed: m.clock.Now().UnixMilli(),
	}
}

func (m *Manager) fallbackSave(c story.Character, world story.World) story.GameSave {
	c = c.Clone()
	c.ManaCoins = FallbackCoins
	return story.GameSave{
		ID:        uuid.NewString(),
		World:     world,
		Character: c,
		Messages: []story.ChatMessage{{
			ID:        uuid.NewString(),
			Sender:    story.SenderDM,
			Content:   prompts.OfflineArrival(world.Name, world.Theme),
			AvatarURL: DMAvatar,
		}},
		GameState: story.GameState{
			LocationName:    prompts.FallbackLocation,
			IsCombat:        false,
			LastTurnSummary: prompts.FallbackTurnSummary,
			WorldContext:    prompts.FallbackContext,
		},
		LastPlayed: m.clock.Now().UnixMilli(),
	}
}

// Session returns the running session of a save, starting it if needed.
func (m *Manager) Session(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	save, err := m.store.Get(id)
	if err != nil {
		return nil, err
	}
	if m.ctx.Err() != nil {
		return nil, errors.FailedPrecondition("session manager is closed")
	}
	s := newSession(m.ctx, save, m)
	m.sessions[id] = s
	activeSessions.Inc()
	go s.run()
	m.logger.Debug("Session opened", zap.String("save", id))
	return s, nil
}

// Delete stops the save's session, if any, and removes the save.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.close()
		activeSessions.Dec()
	}
	return m.store.Delete(ctx, id)
}

// Close stops every session.
func (m *Manager) Close() {
	m.cancel()
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.close()
		activeSessions.Dec()
	}
}
