// Package ws carries the chat conversation over a WebSocket connection
// for clients that prefer a bidirectional channel over SSE.
package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatHandler "github.com/taipeifirst/tellerdesk/backend/internal/handler/chat"
	"github.com/taipeifirst/tellerdesk/backend/internal/service/conversation"
	"github.com/taipeifirst/tellerdesk/backend/pkg/utils"
	"github.com/taipeifirst/tellerdesk/backend/pkg/utils/logging"
)

const (
	readDeadline = 60 * time.Second
	writeWait    = 10 * time.Second
)

var pingInterval = 54 * time.Second

// DefaultChunkSize is the rune count of each streamed text frame.
const DefaultChunkSize = 20

// Handler serves the conversational WebSocket endpoint.
type Handler struct {
	svc       *conversation.Service
	chunkSize int
	upgrader  websocket.Upgrader
}

// Option adjusts WebSocket handler construction.
type Option func(*Handler)

// WithChunkSize overrides the streamed frame size in runes.
func WithChunkSize(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.chunkSize = n
		}
	}
}

// New creates a WebSocket chat handler.
func New(svc *conversation.Service, opts ...Option) *Handler {
	h := &Handler{
		svc:       svc,
		chunkSize: DefaultChunkSize,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Intent    string `json:"intent,omitempty"`
	State     string `json:"state,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := logging.From(r.Context())

	sessionID := chi.URLParam(r, "sessionID")
	if !chatHandler.ValidSessionID(sessionID) {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	if _, err := h.svc.State(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logger.Info("websocket connected", "session", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, outgoingMessage{Type: "connected"})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Warn("websocket read error", "error", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(readDeadline))

			h.handleMessage(ctx, conn, sessionID, &msg)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "message":
		h.handleChat(ctx, conn, sessionID, msg.Text)
	case "ping":
		h.send(conn, outgoingMessage{Type: "pong"})
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *Handler) handleChat(ctx context.Context, conn *websocket.Conn, sessionID, text string) {
	reply, err := h.svc.ProcessMessage(ctx, sessionID, text)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrSessionNotFound):
			h.sendError(conn, "session not found")
		case errors.Is(err, conversation.ErrEmptyMessage),
			errors.Is(err, conversation.ErrMessageTooLong),
			errors.Is(err, conversation.ErrInvalidMessage):
			h.sendError(conn, err.Error())
		default:
			logging.From(ctx).Error("message processing failed", "error", err)
			h.sendError(conn, "failed to process message")
		}
		return
	}

	for _, fragment := range utils.SplitRunes(reply.Text, h.chunkSize) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		h.send(conn, outgoingMessage{Type: "chunk", Text: fragment})
	}

	h.send(conn, outgoingMessage{
		Type:   "done",
		Intent: reply.Intent.String(),
		State:  string(reply.State),
	})
}

func (h *Handler) send(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().Unix()
	if err := conn.WriteJSON(msg); err != nil {
		logging.Default().Warn("websocket write failed", "error", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, outgoingMessage{Type: "error", Error: message})
}

// pingLoop keeps the connection alive from its own goroutine. Data
// writes all happen on the handler goroutine, so pings must go through
// WriteControl, the only write gorilla allows concurrently.
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
