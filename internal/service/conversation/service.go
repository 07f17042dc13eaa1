// Package conversation owns per-session chat state: the sharded session
// registry, message orchestration, verification routing and history.
package conversation

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/taipeifirst/tellerdesk/backend/internal/audit"
	"github.com/taipeifirst/tellerdesk/backend/internal/engine/respond"
	"github.com/taipeifirst/tellerdesk/backend/internal/engine/verify"
	"github.com/taipeifirst/tellerdesk/backend/internal/model/bank"
	"github.com/taipeifirst/tellerdesk/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = goerr.New("session not found")
	ErrEmptyMessage    = goerr.New("message is required")
	ErrMessageTooLong  = goerr.New("message exceeds maximum length")
	ErrInvalidMessage  = goerr.New("message contains invalid characters")
)

// MaxMessageLength bounds a single inbound chat message.
const MaxMessageLength = 5000

const shardCount = 16

// session is the mutable state behind one session ID. Message processing
// is serialized by mu: verification counters and history appends are not
// safe under interleaving.
type session struct {
	mu      sync.Mutex
	meta    chat.Session
	turns   []chat.Turn
	machine *verify.Machine
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// Service is the session registry plus the per-message orchestrator. The
// registry is sharded by session ID so unrelated sessions never contend
// on one lock.
type Service struct {
	shards      [shardCount]*shard
	customers   bank.CustomerStore
	responder   *respond.Responder
	recorder    audit.Recorder
	maxAttempts int
}

// Option adjusts Service construction.
type Option func(*Service)

// WithMaxAttempts overrides the verification attempt limit.
func WithMaxAttempts(n int) Option {
	return func(s *Service) { s.maxAttempts = n }
}

// NewService wires the conversation engine against its collaborators.
func NewService(customers bank.CustomerStore, content *bank.Content, recorder audit.Recorder, opts ...Option) *Service {
	if recorder == nil {
		recorder = audit.Discard{}
	}
	svc := &Service{
		customers:   customers,
		recorder:    recorder,
		maxAttempts: verify.DefaultMaxAttempts,
	}
	svc.responder = respond.New(content, customers, recorder)
	for i := range svc.shards {
		svc.shards[i] = &shard{sessions: make(map[string]*session)}
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) shardFor(sessionID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return s.shards[h.Sum32()%shardCount]
}

// CreateSession provisions a fresh unverified session.
func (s *Service) CreateSession(ctx context.Context) (chat.Session, error) {
	meta := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	sess := &session{
		meta:    meta,
		machine: verify.NewMachine(s.customers, s.maxAttempts),
	}

	sh := s.shardFor(meta.ID)
	sh.mu.Lock()
	sh.sessions[meta.ID] = sess
	sh.mu.Unlock()

	s.recorder.Record(ctx, audit.Event{
		Kind:       audit.KindSessionCreated,
		SessionRef: audit.SessionRef(meta.ID),
		Outcome:    "success",
	})
	return meta, nil
}

func (s *Service) lookup(sessionID string) (*session, error) {
	sh := s.shardFor(sessionID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	sess, ok := sh.sessions[sessionID]
	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "unknown session",
			goerr.V("session", audit.SessionRef(sessionID)))
	}
	return sess, nil
}

// GetHistory returns a copy of the ordered turn sequence.
func (s *Service) GetHistory(_ context.Context, sessionID string) ([]chat.Turn, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	copied := make([]chat.Turn, len(sess.turns))
	copy(copied, sess.turns)
	return copied, nil
}

// State reports the session's current verification state.
func (s *Service) State(_ context.Context, sessionID string) (verify.State, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.machine.State(), nil
}

// Reset clears history and verification state; the session ID stays valid.
func (s *Service) Reset(_ context.Context, sessionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.turns = nil
	sess.machine.Reset()
	return nil
}

// DeleteSession destroys the session entirely.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	_, ok := sh.sessions[sessionID]
	if ok {
		delete(sh.sessions, sessionID)
	}
	sh.mu.Unlock()

	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "unknown session",
			goerr.V("session", audit.SessionRef(sessionID)))
	}
	s.recorder.Record(ctx, audit.Event{
		Kind:       audit.KindSessionDeleted,
		SessionRef: audit.SessionRef(sessionID),
		Outcome:    "success",
	})
	return nil
}

// ValidateMessage enforces the inbound message contract shared by every
// transport: non-empty, bounded, no NUL bytes.
func ValidateMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return goerr.Wrap(ErrEmptyMessage, "empty message")
	}
	if len(text) > MaxMessageLength {
		return goerr.Wrap(ErrMessageTooLong, "message too long",
			goerr.V("length", len(text)), goerr.V("max", MaxMessageLength))
	}
	if strings.ContainsRune(text, '\x00') {
		return goerr.Wrap(ErrInvalidMessage, "NUL byte in message")
	}
	return nil
}
