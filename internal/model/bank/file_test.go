package bank_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/taipeifirst/tellerdesk/backend/internal/model/bank"
)

func writeDataFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.yml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o600)).Required()
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeDataFile(t, `
customers:
  - name: Pepper Potts
    dob: 1998/02/15
    id: B123456789
    bankAccount: "1111222233334444"
    accountBalance: TWD 88,000
    loanBalance: TWD 0
    openingBranch: Taipei Second Branch
content:
  services:
    - Account Management
  branches:
    - name: Taipei Second Branch
      address: No. 88, Songshan Rd, Taipei
      phone: 02-2719-7000
      hours: Mon-Fri 9:00-17:00
  loanSteps:
    - "1. Submit application"
  accountOpening:
    - "1. Visit a branch"
`)

	data, err := bank.LoadFile(path)
	gt.NoError(t, err).Required()
	gt.Array(t, data.Customers).Length(1)
	gt.Value(t, data.Customers[0].Name).Equal("Pepper Potts")
	gt.Value(t, data.Customers[0].BankAccount).Equal("1111222233334444")

	text, ok := data.Content.Get(bank.TopicServices)
	gt.True(t, ok)
	gt.Value(t, text).Equal("Our available services are:\n- Account Management")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := bank.LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	gt.Error(t, err)
}

func TestLoadFileRejectsBadID(t *testing.T) {
	path := writeDataFile(t, `
customers:
  - name: Pepper Potts
    dob: 1998/02/15
    id: not-an-id
`)
	_, err := bank.LoadFile(path)
	gt.Error(t, err)
}

func TestLoadFileRejectsDuplicateID(t *testing.T) {
	path := writeDataFile(t, `
customers:
  - name: Pepper Potts
    dob: 1998/02/15
    id: B123456789
  - name: Happy Hogan
    dob: 1990/05/21
    id: B123456789
`)
	_, err := bank.LoadFile(path)
	gt.Error(t, err)
}

func TestValidateEmpty(t *testing.T) {
	data := &bank.Data{}
	gt.Error(t, data.Validate())
}
