// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds every setting of the server.
type Config struct {
	Gemini  GeminiConfig
	Server  ServerConfig
	Store   StoreConfig
	Game    GameConfig
	Log     LogConfig
	EnvFile string `envconfig:"ENV_FILE" default:".env"`
}

// GeminiConfig selects the key and the models.
type GeminiConfig struct {
	APIKey      string `envconfig:"GEMINI_API_KEY"`
	TextModel   string `envconfig:"TEXT_MODEL" default:"gemini-3-flash-preview"`
	ImageModel  string `envconfig:"IMAGE_MODEL" default:"gemini-2.5-flash-image"`
	SpeechModel string `envconfig:"TTS_MODEL" default:"gemini-2.5-flash-preview-tts"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:"0.0.0.0:9779"`
}

// StoreConfig selects where saves live.
type StoreConfig struct {
	Driver     string `envconfig:"STORE_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"solo_legend.db"`
	RedisAddr  string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisKey   string `envconfig:"REDIS_KEY" default:"solo_legend_saves"`
}

// GameConfig tunes the game loop.
type GameConfig struct {
	StartTimeout  time.Duration `envconfig:"START_TIMEOUT" default:"12s"`
	RegenInterval time.Duration `envconfig:"REGEN_INTERVAL" default:"3s"`
	HistoryWindow int           `envconfig:"HISTORY_WINDOW" default:"6"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	Encoding string `envconfig:"LOG_ENCODING" default:"console"`
	Output   string `envconfig:"LOG_OUTPUT"`
}

// Load reads envFile if it exists, then the environment. Variables already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// A missing file is fine; the key may come from the environment.
		_ = godotenv.Load(envFile)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if envFile != "" {
		cfg.EnvFile = envFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Game.StartTimeout <= 0 {
		return fmt.Errorf("START_TIMEOUT must be positive")
	}
	if c.Game.RegenInterval <= 0 {
		return fmt.Errorf("REGEN_INTERVAL must be positive")
	}
	if c.Game.HistoryWindow <= 0 {
		return fmt.Errorf("HISTORY_WINDOW must be positive")
	}
	return nil
}
