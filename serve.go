package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solo_legend/gemini"
	"solo_legend/handlers"
	"solo_legend/narrator"
	"solo_legend/session"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the game server: hub, character creator, play screen, live updates and /metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; adventures will start offline until a key is provided",
			zap.String("env_file", cfg.EnvFile))
	}
	keys := gemini.NewKeys(cfg.Gemini.APIKey, cfg.EnvFile, log.Named("keys"))
	ai, err := gemini.New(gemini.Config{
		Keys:        keys,
		TextModel:   cfg.Gemini.TextModel,
		ImageModel:  cfg.Gemini.ImageModel,
		SpeechModel: cfg.Gemini.SpeechModel,
		Logger:      log.Named("gemini"),
	})
	if err != nil {
		return err
	}
	defer func() { _ = ai.Close() }()

	gm, err := narrator.New(&narrator.Config{
		Collaborator:  ai,
		KeySelector:   keys,
		Logger:        log.Named("narrator"),
		StartTimeout:  cfg.Game.StartTimeout,
		HistoryWindow: cfg.Game.HistoryWindow,
	})
	if err != nil {
		return err
	}

	manager, err := session.NewManager(&session.Config{
		Narrator:      gm,
		Store:         store,
		Logger:        log.Named("session"),
		RegenInterval: cfg.Game.RegenInterval,
	})
	if err != nil {
		return err
	}
	defer manager.Close()

	h, err := handlers.New(&handlers.Config{
		Manager: manager,
		Painter: gm,
		Logger:  log.Named("http"),
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := cfg.Server.ListenAddr
	if listenAddr != "" {
		addr = listenAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening", zap.String("addr", "http://"+addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Received shutdown signal, gracefully stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
