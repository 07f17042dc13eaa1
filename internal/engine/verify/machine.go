package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taipeifirst/tellerdesk/backend/internal/engine/intent"
	"github.com/taipeifirst/tellerdesk/backend/internal/model/bank"
)

// State is the verification progress of one session.
type State string

const (
	StateUnverified     State = "unverified"
	StateAwaitingFields State = "awaiting_fields"
	StateVerified       State = "verified"
	StateLocked         State = "locked"
)

// DefaultMaxAttempts is the number of complete credential submissions a
// session may fail before locking out.
const DefaultMaxAttempts = 3

const (
	promptText = "For security reasons, I need to verify your identity before providing " +
		"sensitive information.\n\n" +
		"Please provide the following details:\n" +
		"1. Your full name\n" +
		"2. Your date of birth (YYYY/MM/DD)\n" +
		"3. Your ID number"

	lockoutText = "Verification failed. For security reasons, I'm unable to proceed. " +
		"Please contact our support team or visit a branch."
)

// LockoutMessage is the fixed reply for sensitive requests on a locked
// session. It never varies with input.
func LockoutMessage() string { return lockoutText }

// Outcome summarizes one complete credential submission.
type Outcome struct {
	Verified bool
	Locked   bool
	// Attempted is true when the submission consumed an attempt.
	Attempted bool
	// Intent is the sensitive intent that triggered verification,
	// populated on success so the caller can answer it in the same turn.
	Intent intent.Intent
	Reply  string
}

// Machine tracks per-session verification state: pending sensitive
// intent, remaining attempts and the bound customer. It is not safe for
// concurrent use; the owning session serializes access.
type Machine struct {
	customers  bank.CustomerStore
	state      State
	attempts   int
	max        int
	pending    intent.Intent
	customerID string
}

// NewMachine returns a Machine in the Unverified state. maxAttempts <= 0
// selects DefaultMaxAttempts.
func NewMachine(customers bank.CustomerStore, maxAttempts int) *Machine {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Machine{
		customers: customers,
		state:     StateUnverified,
		attempts:  maxAttempts,
		max:       maxAttempts,
	}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) AttemptsRemaining() int { return m.attempts }

func (m *Machine) CustomerID() string { return m.customerID }

func (m *Machine) Pending() intent.Intent { return m.pending }

func (m *Machine) Locked() bool { return m.state == StateLocked }

func (m *Machine) Verified() bool { return m.state == StateVerified }

func (m *Machine) Awaiting() bool { return m.state == StateAwaitingFields }

// RequestVerification records the sensitive intent that needs an answer
// and moves to AwaitingFields. Returns the field-enumeration prompt.
func (m *Machine) RequestVerification(in intent.Intent) string {
	m.pending = in
	if m.state == StateUnverified {
		m.state = StateAwaitingFields
	}
	return promptText
}

// Abandon drops a pending verification form without consuming an attempt.
// Used when the user asks something unrelated mid-form.
func (m *Machine) Abandon() {
	if m.state == StateAwaitingFields {
		m.state = StateUnverified
		m.pending = ""
	}
}

// Reset returns the machine to Unverified and restores the attempt
// counter. This is the only exit from Locked.
func (m *Machine) Reset() {
	m.state = StateUnverified
	m.attempts = m.max
	m.pending = ""
	m.customerID = ""
}

// Submit evaluates one credential message while AwaitingFields. Partial
// input (1 or 2 fields) never consumes an attempt; complete submissions
// that fail format checks or record matching consume exactly one.
func (m *Machine) Submit(raw string) Outcome {
	creds := ParseCredentials(raw)

	if !creds.Complete() {
		missing := 3 - creds.FieldCount()
		return Outcome{Reply: fmt.Sprintf(
			"Please provide all required information. "+
				"You still need to provide %d more field(s).\n"+
				"Format: Name, Date of Birth (YYYY/MM/DD), ID Number\n"+
				"Or use labeled format: Name: [name] DOB: [date] ID: [id]",
			missing,
		)}
	}

	creds.ID = strings.ToUpper(creds.ID)

	if reason, ok := m.checkFormats(creds); !ok {
		return m.fail(reason)
	}

	if _, err := m.customers.Find(creds.Name, creds.DOB, creds.ID); err != nil {
		return m.fail(matchFailureReason(err))
	}

	m.state = StateVerified
	m.customerID = creds.ID
	m.attempts = m.max
	answered := m.pending
	m.pending = ""
	return Outcome{Verified: true, Intent: answered}
}

func (m *Machine) checkFormats(creds Credentials) (string, bool) {
	if len(creds.Name) < 2 {
		return "invalid name format", false
	}
	if !ValidDOB(creds.DOB) {
		return "invalid date of birth format (use YYYY/MM/DD)", false
	}
	// Malformed IDs can never match a record, so rejecting the shape up
	// front changes nothing except the error message.
	if !ValidID(creds.ID) {
		return "invalid ID number format", false
	}
	return "", true
}

// fail consumes one attempt and locks the session when none remain.
func (m *Machine) fail(reason string) Outcome {
	m.attempts--
	if m.attempts <= 0 {
		m.state = StateLocked
		m.pending = ""
		return Outcome{Locked: true, Attempted: true, Reply: lockoutText}
	}
	return Outcome{Attempted: true, Reply: fmt.Sprintf(
		"Verification failed: %s\nAttempts remaining: %d\nPlease try again with correct information.",
		reason, m.attempts,
	)}
}

func matchFailureReason(err error) string {
	switch {
	case errors.Is(err, bank.ErrCustomerNotFound):
		return "customer ID not found"
	case errors.Is(err, bank.ErrNameMismatch):
		return "name does not match"
	case errors.Is(err, bank.ErrDOBMismatch):
		return "date of birth does not match"
	default:
		return "identity could not be verified"
	}
}
