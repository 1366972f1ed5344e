package saves

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"solo_legend/clock"
	"solo_legend/errors"
	"solo_legend/story"
)

// Config configures a Store.
type Config struct {
	Persistence Persistence
	Clock       clock.Clock
	Logger      *zap.Logger
}

// Validate checks the required fields.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Persistence == nil {
		return errors.InvalidArgument("persistence cannot be nil")
	}
	return nil
}

// Store is the in-memory list of saves, most recent first, written through on every change.
// Concurrent writers are serialized; the last write wins.
type Store struct {
	mu     sync.Mutex
	saves  []story.GameSave
	p      Persistence
	clock  clock.Clock
	logger *zap.Logger
}

// Open loads the saved list once.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loaded, err := cfg.Persistence.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load saves")
	}
	s := &Store{
		saves:  loaded,
		p:      cfg.Persistence,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger.Info("Saves loaded", zap.Int("count", len(loaded)))
	return s, nil
}

// List returns copies of all saves, most recent first.
func (s *Store) List() []story.GameSave {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]story.GameSave, len(s.saves))
	for i, sv := range s.saves {
		out[i] = sv.Clone()
	}
	return out
}

// Get returns a copy of the save with id.
func (s *Store) Get(id string) (story.GameSave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.saves[i].Clone(), nil
	}
	return story.GameSave{}, errors.NotFoundf("save %q not found", id)
}

// Put stamps the save with the current time and stores it. A new save goes to the front of
// the list; an existing one is replaced in place.
func (s *Store) Put(ctx context.Context, save story.GameSave) (story.GameSave, error) {
	if save.ID == "" {
		return story.GameSave{}, errors.InvalidArgument("save id is required")
	}
	save = save.Clone()
	save.LastPlayed = s.clock.Now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(save.ID); i >= 0 {
		s.saves[i] = save
	} else {
		s.saves = append([]story.GameSave{save}, s.saves...)
	}
	return save.Clone(), s.flush(ctx)
}

// Delete removes the save with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return errors.NotFoundf("save %q not found", id)
	}
	s.saves = append(s.saves[:i:i], s.saves[i+1:]...)
	return s.flush(ctx)
}

func (s *Store) index(id string) int {
	for i := range s.saves {
		if s.saves[i].ID == id {
			return i
		}
	}
	return -1
}

// flush writes the full list. The in-memory list stays authoritative if the write fails.
func (s *Store) flush(ctx context.Context) error {
	if err := s.p.Save(ctx, s.saves); err != nil {
		s.logger.Error("Failed to persist saves", zap.Int("count", len(s.saves)), zap.Error(err))
		return errors.Wrap(err, "failed to persist saves")
	}
	return nil
}
