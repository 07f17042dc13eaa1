// Package respond turns a classified intent into reply text. It is a pure
// dispatch layer: public intents render static content, sensitive intents
// read exactly one field from the bound customer record.
package respond

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/taipeifirst/tellerdesk/backend/internal/audit"
	"github.com/taipeifirst/tellerdesk/backend/internal/engine/intent"
	"github.com/taipeifirst/tellerdesk/backend/internal/model/bank"
)

var ErrRecordUnavailable = goerr.New("bound customer record unavailable")

const fallbackText = "I'm sorry, I didn't understand your question. " +
	"I can help you with:\n" +
	"- Service items available\n" +
	"- Branch locations and contact information\n" +
	"- Loan application process\n" +
	"- Account opening process\n" +
	"- Account-related information (with verification)"

// Responder renders replies from the content and customer stores.
type Responder struct {
	content   *bank.Content
	customers bank.CustomerStore
	recorder  audit.Recorder
}

func New(content *bank.Content, customers bank.CustomerStore, recorder audit.Recorder) *Responder {
	return &Responder{content: content, customers: customers, recorder: recorder}
}

var publicTopics = map[intent.Intent]bank.Topic{
	intent.Services:       bank.TopicServices,
	intent.Branches:       bank.TopicBranches,
	intent.LoanProcess:    bank.TopicLoanProcess,
	intent.AccountOpening: bank.TopicAccountOpening,
}

// Public answers a non-sensitive intent from static content. Unrecognized
// intents get the capability fallback.
func (r *Responder) Public(in intent.Intent) string {
	topic, ok := publicTopics[in]
	if !ok {
		return fallbackText
	}
	text, ok := r.content.Get(topic)
	if !ok {
		return fallbackText
	}
	return text
}

// Sensitive answers a verified sensitive intent from the bound record and
// emits exactly one sensitive_data_access audit event. Callers must have
// confirmed the session is verified; this function never prompts.
func (r *Responder) Sensitive(ctx context.Context, in intent.Intent, customerID, sessionRef string) (string, error) {
	rec, ok := r.customers.FindByID(customerID)
	if !ok {
		return "", goerr.Wrap(ErrRecordUnavailable, "record lookup failed",
			goerr.V("customer", audit.CustomerRef(customerID)))
	}

	var text string
	switch in {
	case intent.AccountNumber:
		text = fmt.Sprintf("Your bank account number is: %s", rec.BankAccount)
	case intent.AccountBalance:
		text = fmt.Sprintf("Your current account balance is: %s", rec.AccountBalance)
	case intent.LoanBalance:
		text = fmt.Sprintf("Your current loan balance is: %s", rec.LoanBalance)
	case intent.OpeningBranch:
		text = fmt.Sprintf("Your account was opened at: %s", rec.OpeningBranch)
	default:
		return "", goerr.New("intent is not sensitive", goerr.V("intent", in.String()))
	}

	r.recorder.Record(ctx, audit.Event{
		Kind:        audit.KindSensitiveDataAccess,
		SessionRef:  sessionRef,
		CustomerRef: audit.CustomerRef(customerID),
		Outcome:     "success",
		DataType:    in.String(),
	})
	return text, nil
}
