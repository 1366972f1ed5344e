// Package saves keeps the list of game saves and writes it through to a key-value backend.
package saves

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"solo_legend/story"
)

// DefaultKey is the single key under which the whole save list is stored.
const DefaultKey = "solo_legend_saves"

// Persistence stores the full save list as one value.
type Persistence interface {
	// Load returns the stored list, or an empty list when nothing was stored yet.
	Load(ctx context.Context) ([]story.GameSave, error)
	// Save replaces the stored list.
	Save(ctx context.Context, saves []story.GameSave) error
}

func encode(saves []story.GameSave) ([]byte, error) {
	if saves == nil {
		saves = []story.GameSave{}
	}
	data, err := json.Marshal(saves)
	if err != nil {
		return nil, fmt.Errorf("encode saves: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]story.GameSave, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out []story.GameSave
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode saves: %w", err)
	}
	return out, nil
}

// Memory keeps the encoded list in process. Useful for tests and throwaway servers.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(ctx context.Context) ([]story.GameSave, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return decode(m.data)
}

func (m *Memory) Save(ctx context.Context, saves []story.GameSave) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(saves)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}
