package verify_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/taipeifirst/tellerdesk/backend/internal/engine/verify"
)

func TestParseCredentialsLabeled(t *testing.T) {
	creds := verify.ParseCredentials("Name: Tony Stark DOB: 1996/09/10 ID: A234763849")
	gt.Value(t, creds.Name).Equal("Tony Stark")
	gt.Value(t, creds.DOB).Equal("1996/09/10")
	gt.Value(t, creds.ID).Equal("A234763849")
	gt.True(t, creds.Complete())
}

func TestParseCredentialsLabeledCaseInsensitive(t *testing.T) {
	creds := verify.ParseCredentials("name: tony stark dob: 1996/09/10 id: a234763849")
	gt.Value(t, creds.Name).Equal("tony stark")
	gt.Value(t, creds.ID).Equal("a234763849")
	gt.True(t, creds.Complete())
}

func TestParseCredentialsCommaSeparated(t *testing.T) {
	creds := verify.ParseCredentials("Tony Stark, 1996/09/10, A234763849")
	gt.Value(t, creds.Name).Equal("Tony Stark")
	gt.Value(t, creds.DOB).Equal("1996/09/10")
	gt.Value(t, creds.ID).Equal("A234763849")
}

func TestParseCredentialsNewlineSeparated(t *testing.T) {
	creds := verify.ParseCredentials("Tony Stark\n1996/09/10\nA234763849")
	gt.True(t, creds.Complete())
	gt.Value(t, creds.Name).Equal("Tony Stark")
}

func TestParseCredentialsPartial(t *testing.T) {
	creds := verify.ParseCredentials("Name: Tony Stark")
	gt.Value(t, creds.FieldCount()).Equal(1)
	gt.False(t, creds.Complete())

	creds = verify.ParseCredentials("Tony Stark, 1996/09/10")
	gt.Value(t, creds.FieldCount()).Equal(2)
	gt.Value(t, creds.DOB).Equal("1996/09/10")
}

func TestParseCredentialsSingleShapedToken(t *testing.T) {
	creds := verify.ParseCredentials("1996/09/10")
	gt.Value(t, creds.DOB).Equal("1996/09/10")
	gt.Value(t, creds.FieldCount()).Equal(1)

	creds = verify.ParseCredentials("A234763849")
	gt.Value(t, creds.ID).Equal("A234763849")
	gt.Value(t, creds.FieldCount()).Equal(1)
}

func TestParseCredentialsFreeFormSentence(t *testing.T) {
	// Ordinary chat must not register as a credential attempt.
	for _, input := range []string{
		"where are your branches",
		"what is my account balance",
		"nevermind",
	} {
		creds := verify.ParseCredentials(input)
		gt.Value(t, creds.FieldCount()).Equal(0)
	}
}

func TestValidDOB(t *testing.T) {
	gt.True(t, verify.ValidDOB("1996/09/10"))
	gt.False(t, verify.ValidDOB("1996-09-10"))
	gt.False(t, verify.ValidDOB("96/09/10"))
	gt.False(t, verify.ValidDOB(""))
}

func TestValidID(t *testing.T) {
	gt.True(t, verify.ValidID("A234763849"))
	gt.False(t, verify.ValidID("a234763849"))
	gt.False(t, verify.ValidID("A23476384"))
	gt.False(t, verify.ValidID("AB34763849"))
}
