package gemini

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"solo_legend/errors"
)

// APIKeyEnv is the environment variable holding the Gemini key.
const APIKeyEnv = "GEMINI_API_KEY"

// Keys holds the current API key and reloads it on demand.
// It is the server-side stand-in for the browser's key selection dialog: selecting a key
// re-reads the env file, so an operator can drop a new key in place without a restart.
type Keys struct {
	mu      sync.RWMutex
	key     string
	envFile string
	logger  *zap.Logger
}

// NewKeys starts with key and reloads from envFile (may be empty) on SelectKey.
func NewKeys(key, envFile string, logger *zap.Logger) *Keys {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Keys{key: strings.TrimSpace(key), envFile: envFile, logger: logger}
}

// Current returns the key in use.
func (k *Keys) Current() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.key
}

// Set replaces the key.
func (k *Keys) Set(key string) {
	k.mu.Lock()
	k.key = strings.TrimSpace(key)
	k.mu.Unlock()
}

// SelectKey reloads the key from the env file and the process environment.
// The caller still sees its original error; the next request uses the new key.
func (k *Keys) SelectKey(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if k.envFile != "" {
		if err := godotenv.Overload(k.envFile); err != nil {
			k.logger.Warn("Could not reload env file", zap.String("path", k.envFile), zap.Error(err))
		}
	}

	fresh := strings.TrimSpace(os.Getenv(APIKeyEnv))
	if fresh == "" {
		return errors.FailedPreconditionf("%s is not set", APIKeyEnv)
	}
	if fresh == k.Current() {
		k.logger.Warn("API key unchanged after selection")
		return nil
	}
	k.Set(fresh)
	k.logger.Info("API key replaced")
	return nil
}
