package intent_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/taipeifirst/tellerdesk/backend/internal/engine/intent"
)

func TestClassifyPublic(t *testing.T) {
	cases := []struct {
		input string
		want  intent.Intent
	}{
		{"What services do you offer?", intent.Services},
		{"what can you do", intent.Services},
		{"Where are your branches?", intent.Branches},
		{"branch address please", intent.Branches},
		{"How do I apply for a loan?", intent.LoanProcess},
		{"tell me about the loan application", intent.LoanProcess},
		{"How to open an account?", intent.AccountOpening},
		{"I want to open a new account", intent.AccountOpening},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			res := intent.Classify(tc.input)
			gt.Value(t, res.Intent).Equal(tc.want)
			gt.False(t, res.Sensitive)
		})
	}
}

func TestClassifySensitive(t *testing.T) {
	cases := []struct {
		input string
		want  intent.Intent
	}{
		{"What is my account balance?", intent.AccountBalance},
		{"how much do I have left", intent.AccountBalance},
		{"What is my loan balance?", intent.LoanBalance},
		{"how much do I owe", intent.LoanBalance},
		{"What is my account number?", intent.AccountNumber},
		{"show me my bank account", intent.AccountNumber},
		{"Where was my account opened?", intent.OpeningBranch},
		{"which branch did I open my account at", intent.OpeningBranch},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			res := intent.Classify(tc.input)
			gt.Value(t, res.Intent).Equal(tc.want)
			gt.True(t, res.Sensitive)
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	for _, input := range []string{"", "   ", "the weather is nice today"} {
		res := intent.Classify(input)
		gt.Value(t, res.Intent).Equal(intent.Unknown)
		gt.False(t, res.Sensitive)
		gt.Value(t, res.Confidence).Equal(0)
	}
}

func TestClassifyPriority(t *testing.T) {
	// "balance" alone is generic; "loan balance" must not fall into the
	// account balance bucket even though both mention balance.
	res := intent.Classify("loan balance")
	gt.Value(t, res.Intent).Equal(intent.LoanBalance)

	// "account opened" must win over the generic "account" trigger.
	res = intent.Classify("where was my account opened")
	gt.Value(t, res.Intent).Equal(intent.OpeningBranch)
}

func TestClassifyDeterministic(t *testing.T) {
	first := intent.Classify("What is my account balance?")
	for i := 0; i < 10; i++ {
		gt.Value(t, intent.Classify("What is my account balance?")).Equal(first)
	}
}

func TestClassifyWordBoundary(t *testing.T) {
	// "opened" must not satisfy the bare "open" trigger.
	res := intent.Classify("opened")
	gt.Value(t, res.Intent).NotEqual(intent.AccountOpening)
}

func TestConfidenceMonotone(t *testing.T) {
	one := intent.Classify("balance")
	two := intent.Classify("what is my account balance, how much is remaining")
	gt.True(t, two.Confidence > one.Confidence)
	gt.True(t, one.Confidence > 0)
	gt.True(t, two.Confidence < 1)
}

func TestIsSensitive(t *testing.T) {
	gt.True(t, intent.IsSensitive(intent.AccountBalance))
	gt.True(t, intent.IsSensitive(intent.OpeningBranch))
	gt.False(t, intent.IsSensitive(intent.Services))
	gt.False(t, intent.IsSensitive(intent.Unknown))
}

func TestNormalize(t *testing.T) {
	gt.Value(t, intent.Normalize("  What   IS my\tBalance  ")).Equal("what is my balance")
	gt.Value(t, intent.Normalize("")).Equal("")
}
