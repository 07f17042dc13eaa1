package verify

import (
	"regexp"
	"strings"
)

// Credentials is a parsed candidate identity-field set. It only lives for
// the duration of a single verification turn.
type Credentials struct {
	Name string
	DOB  string
	ID   string
}

// FieldCount returns how many of the three fields were supplied.
func (c Credentials) FieldCount() int {
	n := 0
	if c.Name != "" {
		n++
	}
	if c.DOB != "" {
		n++
	}
	if c.ID != "" {
		n++
	}
	return n
}

// Complete reports whether all three fields are present.
func (c Credentials) Complete() bool { return c.FieldCount() == 3 }

var (
	labelName = regexp.MustCompile(`(?i)\bname:\s*([^,\n]*?)\s*(?:\bdob:|\bid:|,|\n|$)`)
	labelDOB  = regexp.MustCompile(`(?i)\bdob:\s*([^,\n]*?)\s*(?:\bname:|\bid:|,|\n|$)`)
	labelID   = regexp.MustCompile(`(?i)\bid:\s*([^,\n]*?)\s*(?:\bname:|\bdob:|,|\n|$)`)

	dobShape = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)
	idShape  = regexp.MustCompile(`^[A-Z]\d{9}$`)
)

// ValidDOB reports whether s conforms to YYYY/MM/DD.
func ValidDOB(s string) bool { return dobShape.MatchString(s) }

// ValidID reports whether s is 1 ASCII letter followed by exactly 9
// digits. Callers upper-case the candidate first.
func ValidID(s string) bool { return idShape.MatchString(s) }

// ParseCredentials extracts identity fields from free-form input. Three
// shapes are accepted: labeled ("Name: .. DOB: .. ID: .."), comma
// separated, and one value per line. Input that yields zero fields is not
// credential-shaped at all.
func ParseCredentials(input string) Credentials {
	var creds Credentials

	if m := labelName.FindStringSubmatch(input); m != nil {
		creds.Name = strings.TrimSpace(m[1])
	}
	if m := labelDOB.FindStringSubmatch(input); m != nil {
		creds.DOB = strings.TrimSpace(m[1])
	}
	if m := labelID.FindStringSubmatch(input); m != nil {
		creds.ID = strings.TrimSpace(m[1])
	}
	if creds.Complete() {
		return creds
	}

	// Positional fallback: Name, YYYY/MM/DD, IDNumber with commas or
	// newlines as separators. A single free-form sentence stays
	// unparsed unless it is itself DOB- or ID-shaped.
	parts := splitFields(input)
	if len(parts) >= 2 {
		slots := []*string{&creds.Name, &creds.DOB, &creds.ID}
		for i, slot := range slots {
			if *slot == "" && i < len(parts) {
				*slot = parts[i]
			}
		}
		return creds
	}

	if creds.FieldCount() == 0 && len(parts) == 1 {
		single := strings.ToUpper(parts[0])
		switch {
		case ValidDOB(parts[0]):
			creds.DOB = parts[0]
		case ValidID(single):
			creds.ID = parts[0]
		}
	}
	return creds
}

func splitFields(input string) []string {
	raw := strings.Split(strings.ReplaceAll(input, "\n", ","), ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
