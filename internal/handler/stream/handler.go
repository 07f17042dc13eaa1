// Package stream delivers chat replies over Server-Sent Events.
package stream

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatHandler "github.com/taipeifirst/tellerdesk/backend/internal/handler/chat"
	"github.com/taipeifirst/tellerdesk/backend/internal/service/conversation"
	"github.com/taipeifirst/tellerdesk/backend/pkg/utils"
	"github.com/taipeifirst/tellerdesk/backend/pkg/utils/logging"
)

// DefaultChunkSize is the rune count of each streamed text fragment.
const DefaultChunkSize = 20

// Handler turns one committed reply into a chunked SSE stream. The
// reply is fully decided before the first byte goes out, so a dropped
// connection never leaves the session half-transitioned.
type Handler struct {
	svc       *conversation.Service
	chunkSize int
}

// Option adjusts stream handler construction.
type Option func(*Handler)

// WithChunkSize overrides the streamed fragment size in runes.
func WithChunkSize(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.chunkSize = n
		}
	}
}

// New creates a stream handler.
func New(svc *conversation.Service, opts ...Option) *Handler {
	h := &Handler{svc: svc, chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the chat streaming routes onto the API router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/{sessionID}", h.handleChat)
	r.Post("/chat/{sessionID}", h.handleChat)
}

type chunkFrame struct {
	Text string `json:"text"`
}

type doneFrame struct {
	Done   bool   `json:"done"`
	Intent string `json:"intent,omitempty"`
	State  string `json:"state,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !chatHandler.ValidSessionID(sessionID) {
		utils.RespondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	message, ok := extractMessage(r)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate before committing to the event stream so malformed input
	// still gets a plain HTTP error the client can act on.
	if err := conversation.ValidateMessage(message); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	reply, err := h.svc.ProcessMessage(r.Context(), sessionID, message)
	if err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		logging.From(r.Context()).Error("message processing failed", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	for _, fragment := range utils.SplitRunes(reply.Text, h.chunkSize) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		utils.SendSSEChunk(w, flusher, chunkFrame{Text: fragment})
	}

	utils.SendSSEChunk(w, flusher, doneFrame{
		Done:   true,
		Intent: reply.Intent.String(),
		State:  string(reply.State),
	})
}

// extractMessage reads the user message from the query string on GET or
// a JSON body on POST.
func extractMessage(r *http.Request) (string, bool) {
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("message"), true
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return "", false
	}
	return payload.Message, true
}
