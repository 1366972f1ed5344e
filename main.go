// Package main is the entry point of the Solo Legend server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solo_legend/clock"
	"solo_legend/config"
	"solo_legend/logger"
	"solo_legend/saves"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "solo_legend",
	Short: "Solo Legend game master",
	Long:  `Solo Legend is a single-player text adventure narrated by a generative model.`,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file read before the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(savesCmd)
}

// setup loads the config and builds the logger every command needs.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		OutputPath: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

// openStore opens the configured persistence and loads the saves from it.
// The returned close function releases the backend.
func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (*saves.Store, func(), error) {
	var (
		p       saves.Persistence
		closeFn = func() {}
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := saves.OpenSQLite(cfg.SQLitePath, saves.DefaultKey)
		if err != nil {
			return nil, nil, err
		}
		p, closeFn = db, func() { _ = db.Close() }
	case config.DriverRedis:
		rdb, err := saves.NewRedis(cfg.RedisAddr, cfg.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		p, closeFn = rdb, func() { _ = rdb.Close() }
	default:
		p = saves.NewMemory()
	}

	store, err := saves.Open(ctx, &saves.Config{Persistence: p, Clock: clock.New(), Logger: log})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	log.Info("Save store opened", zap.String("driver", cfg.Driver))
	return store, closeFn, nil
}
