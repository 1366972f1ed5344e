package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"solo_legend/session"
)

const (
	// Time allowed to write a message to the client.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong from the client.
	pongWait = 60 * time.Second
	// Pings are sent with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Clients only send control frames.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// notice is the push payload. The page re-fetches its panel, so the save itself is not sent.
type notice struct {
	Kind      session.EventKind `json:"kind"`
	Cues      *session.Cues     `json:"cues,omitempty"`
	MessageID string            `json:"messageId,omitempty"`
	Failed    bool              `json:"failed,omitempty"`
}

// Updates streams session events to the play page.
func (h *Handler) Updates(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	events, stop := s.Subscribe()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		stop()
		// The upgrader has already answered the request.
		h.logger.Warn("Failed to upgrade connection", zap.String("save", s.ID()), zap.Error(err))
		return
	}
	logger := h.logger.With(zap.String("save", s.ID()))
	logger.Debug("Live connection established")

	go readPump(conn, stop, logger)
	writePump(conn, events, logger)
}

// readPump drains client frames so pongs are handled, and unsubscribes once the client leaves.
func readPump(conn *websocket.Conn, stop func(), logger *zap.Logger) {
	defer stop()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Live connection read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards events until the subscription ends, pinging the client meanwhile.
func writePump(conn *websocket.Conn, events <-chan session.Event, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
		logger.Debug("Live connection closed")
	}()
	for {
		select {
		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(notice{Kind: ev.Kind, Cues: ev.Cues, MessageID: ev.MessageID, Failed: ev.Failed})
			if err != nil {
				logger.Error("Failed to encode event", zap.Error(err))
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Debug("Live connection write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
