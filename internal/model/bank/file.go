package bank

import (
	"os"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

var idFormat = regexp.MustCompile(`^[A-Z][0-9]{9}$`)

// LoadFile reads a Data document from a YAML file, replacing the seed
// dataset. Every customer record must carry a well-formed ID number.
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read data file", goerr.V("path", path))
	}

	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, goerr.Wrap(err, "failed to parse data file", goerr.V("path", path))
	}

	if err := data.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid data file", goerr.V("path", path))
	}
	return &data, nil
}

// Validate checks record shape and ID uniqueness.
func (d *Data) Validate() error {
	if len(d.Customers) == 0 {
		return goerr.New("at least one customer record is required")
	}

	seen := make(map[string]bool, len(d.Customers))
	for i, rec := range d.Customers {
		if rec.Name == "" {
			return goerr.New("customer name is required", goerr.V("index", i))
		}
		if !idFormat.MatchString(rec.ID) {
			return goerr.New("customer ID must be 1 letter + 9 digits", goerr.V("index", i))
		}
		if seen[rec.ID] {
			return goerr.New("duplicate customer ID", goerr.V("index", i))
		}
		seen[rec.ID] = true
	}
	return nil
}
