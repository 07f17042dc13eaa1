package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/taipeifirst/tellerdesk/backend/internal/audit"
	"github.com/taipeifirst/tellerdesk/backend/internal/model/bank"
	"github.com/taipeifirst/tellerdesk/backend/internal/service/conversation"
)

func setupRouter() (*chi.Mux, *conversation.Service) {
	data := bank.Seed()
	svc := conversation.NewService(bank.NewCustomerStore(data.Customers), &data.Content, audit.Discard{})
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func createSession(t *testing.T, svc *conversation.Service) string {
	t.Helper()
	sess, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return sess.ID
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !ValidSessionID(payload.ID) {
		t.Fatalf("expected a UUID session id, got %q", payload.ID)
	}
}

func TestGetHistory(t *testing.T) {
	r, svc := setupRouter()
	id := createSession(t, svc)

	if _, err := svc.ProcessMessage(context.Background(), id, "Where are your branches?"); err != nil {
		t.Fatalf("failed to process message: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/session/"+id+"/history", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		SessionID string `json:"sessionId"`
		State     string `json:"state"`
		Turns     []struct {
			User      string `json:"user"`
			Assistant string `json:"assistant"`
		} `json:"turns"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if payload.State != "unverified" {
		t.Fatalf("expected unverified state, got %q", payload.State)
	}
	if len(payload.Turns) != 1 || payload.Turns[0].User != "Where are your branches?" {
		t.Fatalf("unexpected turns: %+v", payload.Turns)
	}
}

func TestGetHistoryUnknownSession(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/session/00000000-0000-0000-0000-000000000000/history", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestGetHistoryMalformedSessionID(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/session/not-a-uuid/history", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestResetSession(t *testing.T) {
	r, svc := setupRouter()
	id := createSession(t, svc)

	if _, err := svc.ProcessMessage(context.Background(), id, "What services do you offer?"); err != nil {
		t.Fatalf("failed to process message: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/reset", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	turns, err := svc.GetHistory(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty history after reset, got %d turns", len(turns))
	}
}

func TestDeleteSession(t *testing.T) {
	r, svc := setupRouter()
	id := createSession(t, svc)

	req := httptest.NewRequest(http.MethodDelete, "/session/"+id, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	// A second delete reports 404.
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/session/"+id, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestInfo(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		MaxMessageLength int `json:"maxMessageLength"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if payload.MaxMessageLength != conversation.MaxMessageLength {
		t.Fatalf("unexpected max message length: %d", payload.MaxMessageLength)
	}
}
