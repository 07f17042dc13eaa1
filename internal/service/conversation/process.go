package conversation

import (
	"context"
	"time"

	"github.com/taipeifirst/tellerdesk/backend/internal/audit"
	"github.com/taipeifirst/tellerdesk/backend/internal/engine/intent"
	"github.com/taipeifirst/tellerdesk/backend/internal/engine/verify"
	"github.com/taipeifirst/tellerdesk/backend/internal/model/chat"
)

// Reply is the committed result of one processed message. All state
// mutation is finished by the time a Reply exists; transports may chunk
// Text for streaming without touching session state again.
type Reply struct {
	Text   string
	Intent intent.Intent
	State  verify.State
}

const logoutText = "You have been logged out. Your verification status and " +
	"conversation history have been cleared."

// ProcessMessage is the single entry point for one inbound message. It is
// the only code path allowed to transition verification state or reach the
// sensitive response path. Processing for one session is serialized.
func (s *Service) ProcessMessage(ctx context.Context, sessionID, text string) (Reply, error) {
	if err := ValidateMessage(text); err != nil {
		s.recorder.Record(ctx, audit.Event{
			Kind:       audit.KindInvalidInput,
			SessionRef: audit.SessionRef(sessionID),
			Outcome:    "rejected",
		})
		return Reply{}, err
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return Reply{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Logout wipes the whole session: verification state, attempt counter
	// and history. The confirmation is not recorded as a turn.
	if intent.Normalize(text) == "logout" {
		sess.machine.Reset()
		sess.turns = nil
		return Reply{
			Text:   logoutText,
			Intent: intent.Unknown,
			State:  sess.machine.State(),
		}, nil
	}

	reply, err := s.route(ctx, sess, text)
	if err != nil {
		return Reply{}, err
	}

	reply.State = sess.machine.State()
	sess.turns = append(sess.turns, chat.Turn{
		User:      text,
		Assistant: reply.Text,
		Intent:    reply.Intent.String(),
		CreatedAt: time.Now().UTC(),
	})
	return reply, nil
}

// route decides between credential handling and intent dispatch. Caller
// holds the session lock.
func (s *Service) route(ctx context.Context, sess *session, text string) (Reply, error) {
	sessionRef := audit.SessionRef(sess.meta.ID)

	if sess.machine.Awaiting() {
		creds := verify.ParseCredentials(text)
		if creds.FieldCount() == 0 {
			// Not credential-shaped: the user changed topic mid-form.
			// Drop the pending verification and classify afresh.
			sess.machine.Abandon()
		} else {
			return s.handleSubmission(ctx, sess, text, sessionRef)
		}
	}

	res := intent.Classify(text)

	if !res.Sensitive {
		return Reply{Text: s.responder.Public(res.Intent), Intent: res.Intent}, nil
	}

	if sess.machine.Locked() {
		// Lockout short-circuits every sensitive request until an
		// explicit reset; public intents above keep working.
		return Reply{Text: verify.LockoutMessage(), Intent: res.Intent}, nil
	}

	if sess.machine.Verified() {
		answer, err := s.responder.Sensitive(ctx, res.Intent, sess.machine.CustomerID(), sessionRef)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: answer, Intent: res.Intent}, nil
	}

	prompt := sess.machine.RequestVerification(res.Intent)
	return Reply{Text: prompt, Intent: res.Intent}, nil
}

// handleSubmission runs one credential message through the state machine
// and records the audit outcome. Caller holds the session lock.
func (s *Service) handleSubmission(ctx context.Context, sess *session, text, sessionRef string) (Reply, error) {
	pending := sess.machine.Pending()
	outcome := sess.machine.Submit(text)

	switch {
	case outcome.Verified:
		s.recorder.Record(ctx, audit.Event{
			Kind:        audit.KindVerificationSuccess,
			SessionRef:  sessionRef,
			CustomerRef: audit.CustomerRef(sess.machine.CustomerID()),
			Outcome:     "success",
		})
		answer, err := s.responder.Sensitive(ctx, outcome.Intent, sess.machine.CustomerID(), sessionRef)
		if err != nil {
			return Reply{}, err
		}
		return Reply{
			Text:   "Identity verified successfully!\n\n" + answer,
			Intent: outcome.Intent,
		}, nil

	case outcome.Locked:
		s.recorder.Record(ctx, audit.Event{
			Kind:       audit.KindSessionLocked,
			SessionRef: sessionRef,
			Outcome:    "locked",
		})
		return Reply{Text: outcome.Reply, Intent: pending}, nil

	case outcome.Attempted:
		s.recorder.Record(ctx, audit.Event{
			Kind:       audit.KindVerificationFailure,
			SessionRef: sessionRef,
			Outcome:    "failure",
			Attempts:   sess.machine.AttemptsRemaining(),
		})
		return Reply{Text: outcome.Reply, Intent: pending}, nil

	default:
		// Partial input: feedback only, no attempt consumed.
		return Reply{Text: outcome.Reply, Intent: pending}, nil
	}
}
