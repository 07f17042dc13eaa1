package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taipeifirst/tellerdesk/backend/internal/audit"
	"github.com/taipeifirst/tellerdesk/backend/internal/model/bank"
	"github.com/taipeifirst/tellerdesk/backend/internal/service/conversation"
)

type countingRecorder struct {
	kinds []audit.Kind
}

func (c *countingRecorder) Record(_ context.Context, ev audit.Event) {
	c.kinds = append(c.kinds, ev.Kind)
}

func newTestRouter(cfg Config) (http.Handler, *countingRecorder) {
	data := bank.Seed()
	rec := &countingRecorder{}
	svc := conversation.NewService(bank.NewCustomerStore(data.Customers), &data.Content, rec)
	return NewRouter(svc, rec, cfg), rec
}

func TestRouterHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestRouterSecureHeaders(t *testing.T) {
	r, _ := newTestRouter(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	}
	for name, want := range headers {
		if got := resp.Header().Get(name); got != want {
			t.Fatalf("expected %s=%q, got %q", name, want, got)
		}
	}
}

func TestRouterRateLimit(t *testing.T) {
	r, rec := newTestRouter(Config{RateLimit: 3})

	var lastCode int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		lastCode = resp.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after exceeding limit, got %d", lastCode)
	}

	found := false
	for _, kind := range rec.kinds {
		if kind == audit.KindRateLimitExceeded {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a rate_limit_exceeded audit event")
	}
}

func TestRouterSessionLifecycle(t *testing.T) {
	r, _ := newTestRouter(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
}
