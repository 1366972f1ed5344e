package handlers

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"solo_legend/clock"
	"solo_legend/errors"
	"solo_legend/session"
	"solo_legend/templates"
)

// Painter generates images as data URLs; "" means no image.
type Painter interface {
	GenerateImage(ctx context.Context, prompt string) string
}

// Config configures a Handler.
type Config struct {
	Manager *session.Manager
	Painter Painter
	Clock   clock.Clock
	Logger  *zap.Logger
}

// Validate checks the required fields.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Manager == nil {
		return errors.InvalidArgument("manager cannot be nil")
	}
	if cfg.Painter == nil {
		return errors.InvalidArgument("painter cannot be nil")
	}
	return nil
}

// Handler serves the game over HTTP.
type Handler struct {
	manager *session.Manager
	painter Painter
	clock   clock.Clock
	logger  *zap.Logger
}

// New creates a Handler.
func New(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Handler{
		manager: cfg.Manager,
		painter: cfg.Painter,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}
	if h.clock == nil {
		h.clock = clock.New()
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h, nil
}

// Register adds the game routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Hub)
	mux.HandleFunc("GET /creator", h.Creator)
	mux.HandleFunc("POST /creator", h.CustomWorld)
	mux.HandleFunc("POST /portrait", h.Portrait)
	mux.HandleFunc("POST /adventures", h.CreateAdventure)
	mux.HandleFunc("POST /saves/{id}/delete", h.DeleteSave)
	mux.HandleFunc("GET /download/{id}", h.DownloadChronicle)

	mux.HandleFunc("GET /play/{id}", h.Play)
	mux.HandleFunc("GET /play/{id}/panel", h.Panel)
	mux.HandleFunc("POST /play/{id}/action", h.Action)
	mux.HandleFunc("POST /play/{id}/roll", h.Roll)
	mux.HandleFunc("POST /play/{id}/mute", h.Mute)
	mux.HandleFunc("POST /play/{id}/forge", h.Forge)
	mux.HandleFunc("POST /play/{id}/forge/confirm", h.ConfirmForge)
	mux.HandleFunc("POST /play/{id}/forge/discard", h.DiscardForge)
	mux.HandleFunc("GET /play/{id}/audio/{msg}", h.Audio)
	mux.HandleFunc("GET /play/{id}/ws", h.Updates)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	h.component(w, r, templates.Layout(title, body))
}

func (h *Handler) component(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render view", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidArgument:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeFailedPrecondition:
		return http.StatusConflict
	case errors.CodeTimeout:
		return http.StatusGatewayTimeout
	case errors.CodeCredential, errors.CodeMalformedResponse, errors.CodeGenerationFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		h.logger.Debug("Request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	http.Error(w, message(err), status)
}

// message is the text shown to players; internal failures stay generic.
func message(err error) string {
	status := statusFor(err)
	var e *errors.Error
	if errors.As(err, &e) && status < http.StatusInternalServerError {
		return e.Message
	}
	return http.StatusText(status)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
