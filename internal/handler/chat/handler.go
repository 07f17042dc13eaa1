// Package chat exposes the session lifecycle over REST.
package chat

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/taipeifirst/tellerdesk/backend/internal/service/conversation"
	"github.com/taipeifirst/tellerdesk/backend/pkg/utils"
)

// sessionIDPattern matches the v4 UUIDs the service issues. Anything
// else is rejected before it reaches the registry.
var sessionIDPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// Handler serves session lifecycle endpoints.
type Handler struct {
	svc *conversation.Service
}

// New creates a session handler.
func New(svc *conversation.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the session routes onto the API router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}/history", h.handleGetHistory)
	r.Post("/session/{sessionID}/reset", h.handleReset)
	r.Delete("/session/{sessionID}", h.handleDeleteSession)
	r.Get("/health", h.handleHealth)
	r.Get("/info", h.handleInfo)
}

// ValidSessionID reports whether id has the shape of an issued session ID.
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !ValidSessionID(sessionID) {
		utils.RespondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	turns, err := h.svc.GetHistory(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	state, err := h.svc.State(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session state")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"state":     state,
		"turns":     turns,
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !ValidSessionID(sessionID) {
		utils.RespondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.svc.Reset(r.Context(), sessionID); err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to reset session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !ValidSessionID(sessionID) {
		utils.RespondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.svc.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleInfo(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"name":             "tellerdesk",
		"maxMessageLength": conversation.MaxMessageLength,
	})
}
