package bank

import (
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrCustomerNotFound = goerr.New("customer ID not found")
	ErrNameMismatch     = goerr.New("name does not match")
	ErrDOBMismatch      = goerr.New("date of birth does not match")
)

// CustomerRecord holds the fields a verified customer may ask about.
// Balance fields are stored pre-formatted, currency included.
type CustomerRecord struct {
	Name           string `yaml:"name" json:"name"`
	DOB            string `yaml:"dob" json:"dob"`
	ID             string `yaml:"id" json:"id" masq:"secret"`
	BankAccount    string `yaml:"bankAccount" json:"bankAccount" masq:"secret"`
	AccountBalance string `yaml:"accountBalance" json:"accountBalance"`
	LoanBalance    string `yaml:"loanBalance" json:"loanBalance"`
	OpeningBranch  string `yaml:"openingBranch" json:"openingBranch"`
}

// CustomerStore exposes read-only customer lookup. Lookups never mutate
// the store.
type CustomerStore interface {
	// Find matches all three identity fields against exactly one record.
	// Name comparison is case-insensitive, DOB and ID are exact. The
	// returned error names the first field that failed to match.
	Find(name, dob, id string) (CustomerRecord, error)
	// FindByID retrieves a record previously bound by Find.
	FindByID(id string) (CustomerRecord, bool)
}

// MemoryCustomerStore implements CustomerStore with an in-memory map keyed
// by ID number.
type MemoryCustomerStore struct {
	mu      sync.RWMutex
	records map[string]CustomerRecord
}

// NewCustomerStore returns a MemoryCustomerStore preloaded with the
// supplied records.
func NewCustomerStore(records []CustomerRecord) *MemoryCustomerStore {
	byID := make(map[string]CustomerRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	return &MemoryCustomerStore{records: byID}
}

func (s *MemoryCustomerStore) Find(name, dob, id string) (CustomerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return CustomerRecord{}, goerr.Wrap(ErrCustomerNotFound, "no record for supplied ID")
	}
	if !strings.EqualFold(rec.Name, name) {
		return CustomerRecord{}, goerr.Wrap(ErrNameMismatch, "name mismatch")
	}
	if rec.DOB != dob {
		return CustomerRecord{}, goerr.Wrap(ErrDOBMismatch, "date of birth mismatch")
	}
	return rec, nil
}

func (s *MemoryCustomerStore) FindByID(id string) (CustomerRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}
