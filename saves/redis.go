package saves

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"solo_legend/story"
)

// Redis stores the save list as one string value.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects lazily to addr.
func NewRedis(addr, key string) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis: endpoint is required")
	}
	return NewRedisWithClient(redis.NewClient(&redis.Options{Addr: addr}), key), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key}
}

// Close closes the client.
func (r *Redis) Close() error { return r.client.Close() }

func (r *Redis) Load(ctx context.Context) ([]story.GameSave, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load saves: %w", err)
	}
	return decode(data)
}

func (r *Redis) Save(ctx context.Context, saves []story.GameSave) error {
	data, err := encode(saves)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write saves: %w", err)
	}
	return nil
}
