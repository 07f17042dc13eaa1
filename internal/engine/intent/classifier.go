package intent

import (
	"regexp"
	"strings"
)

// Intent is one label from the closed query-category enumeration.
type Intent string

const (
	Services       Intent = "services"
	Branches       Intent = "branches"
	LoanProcess    Intent = "loan-process"
	AccountOpening Intent = "account-opening"
	AccountNumber  Intent = "account-number"
	AccountBalance Intent = "account-balance"
	LoanBalance    Intent = "loan-balance"
	OpeningBranch  Intent = "opening-branch"
	Unknown        Intent = "unknown"
)

func (i Intent) String() string { return string(i) }

// Result carries the classification outcome. Confidence is a coarse
// monotone function of trigger hits, not a calibrated probability.
type Result struct {
	Intent     Intent
	Sensitive  bool
	Confidence float64
}

type rule struct {
	intent    Intent
	sensitive bool
	triggers  []string
}

// Rules are checked in order; the first intent with any trigger hit wins.
// Specific sensitive phrases come first so that generic words like
// "account" or "branch" cannot shadow them.
var rules = []rule{
	{OpeningBranch, true, []string{
		"opening branch", "which branch", "where opened", "account opened",
		"opened account", "account from", "where was my account opened", "where did i open",
	}},
	{LoanBalance, true, []string{
		"loan balance", "owe", "outstanding", "debt", "loan amount",
	}},
	{AccountBalance, true, []string{
		"account balance", "balance", "how much", "remaining balance",
	}},
	{AccountNumber, true, []string{
		"account number", "account no", "bank account", "my account",
	}},
	{LoanProcess, false, []string{
		"loan application", "apply for loan", "apply for a loan", "borrow",
		"loan process", "how to apply", "get a loan",
	}},
	{AccountOpening, false, []string{
		"open an account", "new account", "account opening", "open", "opening",
		"register", "sign up", "how to open", "account",
	}},
	{Branches, false, []string{
		"branch", "branches", "address", "location", "contact", "phone",
		"hours", "where is", "where are", "nearest branch",
	}},
	{Services, false, []string{
		"service", "services", "what can you do", "help", "offerings", "products",
	}},
}

var compiled [][]*regexp.Regexp

func init() {
	compiled = make([][]*regexp.Regexp, len(rules))
	for i, r := range rules {
		patterns := make([]*regexp.Regexp, len(r.triggers))
		for j, trigger := range r.triggers {
			// Word boundaries keep "open" from matching inside "opened".
			patterns[j] = regexp.MustCompile(`\b` + regexp.QuoteMeta(trigger) + `\b`)
		}
		compiled[i] = patterns
	}
}

// Normalize lowercases, trims and collapses whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Classify maps raw text to an intent. Pure and deterministic: the same
// input always yields the same result.
func Classify(text string) Result {
	normalized := Normalize(text)
	if normalized == "" {
		return Result{Intent: Unknown}
	}

	for i, r := range rules {
		hits := 0
		for _, pattern := range compiled[i] {
			if pattern.MatchString(normalized) {
				hits++
			}
		}
		if hits > 0 {
			return Result{
				Intent:     r.intent,
				Sensitive:  r.sensitive,
				Confidence: float64(hits) / float64(hits+1),
			}
		}
	}
	return Result{Intent: Unknown}
}

// IsSensitive reports whether an intent requires identity verification.
func IsSensitive(i Intent) bool {
	for _, r := range rules {
		if r.intent == i {
			return r.sensitive
		}
	}
	return false
}
