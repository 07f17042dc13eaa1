// Package audit records security-relevant events. Events carry redacted
// references only; raw customer identifiers never enter the audit stream.
package audit

import (
	"context"
	"io"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Kind enumerates audit event categories.
type Kind string

const (
	KindSessionCreated      Kind = "session_created"
	KindSessionDeleted      Kind = "session_deleted"
	KindVerificationSuccess Kind = "verification_success"
	KindVerificationFailure Kind = "verification_failure"
	KindSessionLocked       Kind = "session_locked"
	KindSensitiveDataAccess Kind = "sensitive_data_access"
	KindRateLimitExceeded   Kind = "rate_limit_exceeded"
	KindInvalidInput        Kind = "invalid_input"
)

// Event is one audit record. SessionRef and CustomerRef must already be
// redacted by the caller; the masq regex below is a second line of
// defense, not the primary one.
type Event struct {
	Kind        Kind   `json:"kind"`
	SessionRef  string `json:"sessionRef,omitempty"`
	CustomerRef string `json:"customerRef,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	DataType    string `json:"dataType,omitempty"`
	Attempts    int    `json:"attemptsRemaining,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Recorder is the audit sink consumed by the conversation core.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// national ID shape: 1 letter + 9 digits
var idPattern = regexp.MustCompile(`[A-Z][0-9]{9}`)

// Logger writes audit events as JSON lines with masq redaction applied to
// every attribute.
type Logger struct {
	logger *slog.Logger
}

// NewLogger builds a Recorder writing JSON events to w.
func NewLogger(w io.Writer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		ReplaceAttr: masq.New(
			masq.WithTag("secret"),
			masq.WithRegex(idPattern),
		),
	})
	return &Logger{logger: slog.New(handler)}
}

func (l *Logger) Record(ctx context.Context, ev Event) {
	attrs := []any{
		slog.String("kind", string(ev.Kind)),
	}
	if ev.SessionRef != "" {
		attrs = append(attrs, slog.String("session", ev.SessionRef))
	}
	if ev.CustomerRef != "" {
		attrs = append(attrs, slog.String("customer", ev.CustomerRef))
	}
	if ev.Outcome != "" {
		attrs = append(attrs, slog.String("outcome", ev.Outcome))
	}
	if ev.DataType != "" {
		attrs = append(attrs, slog.String("dataType", ev.DataType))
	}
	// Verification events always carry the counter so exhaustion shows up
	// as an explicit zero instead of a missing field.
	if ev.Attempts > 0 || ev.Kind == KindVerificationFailure || ev.Kind == KindSessionLocked {
		attrs = append(attrs, slog.Int("attemptsRemaining", ev.Attempts))
	}
	if ev.Detail != "" {
		attrs = append(attrs, slog.String("detail", ev.Detail))
	}
	l.logger.InfoContext(ctx, "audit", attrs...)
}

// Discard is a Recorder that drops every event. Useful for tests and
// tooling that has no audit requirement.
type Discard struct{}

func (Discard) Record(context.Context, Event) {}

// SessionRef redacts a session ID for audit purposes, keeping only the
// first and last four characters.
func SessionRef(sessionID string) string {
	if len(sessionID) < 8 {
		return "[redacted]"
	}
	return sessionID[:4] + "..." + sessionID[len(sessionID)-4:]
}

// CustomerRef redacts a customer ID, keeping two characters on each end.
func CustomerRef(customerID string) string {
	if len(customerID) < 4 {
		return "[redacted]"
	}
	return customerID[:2] + "***" + customerID[len(customerID)-2:]
}
