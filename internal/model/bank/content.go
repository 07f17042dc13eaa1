package bank

import (
	"fmt"
	"strings"
)

// Topic identifies one block of public, non-sensitive bank content.
type Topic string

const (
	TopicServices       Topic = "services"
	TopicBranches       Topic = "branches"
	TopicLoanProcess    Topic = "loan-process"
	TopicAccountOpening Topic = "account-opening"
)

// Branch describes one physical branch for the public directory.
type Branch struct {
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
	Phone   string `yaml:"phone" json:"phone"`
	Hours   string `yaml:"hours" json:"hours"`
}

// Content aggregates the static templated answers for public intents.
type Content struct {
	Services       []string `yaml:"services" json:"services"`
	Branches       []Branch `yaml:"branches" json:"branches"`
	LoanSteps      []string `yaml:"loanSteps" json:"loanSteps"`
	AccountOpening []string `yaml:"accountOpening" json:"accountOpening"`
}

// Get renders the templated text for a topic. The second return is false
// for an unrecognized topic.
func (c *Content) Get(topic Topic) (string, bool) {
	switch topic {
	case TopicServices:
		return c.servicesText(), true
	case TopicBranches:
		return c.branchesText(), true
	case TopicLoanProcess:
		return c.loanProcessText(), true
	case TopicAccountOpening:
		return c.accountOpeningText(), true
	default:
		return "", false
	}
}

func (c *Content) servicesText() string {
	var b strings.Builder
	b.WriteString("Our available services are:\n")
	for _, item := range c.Services {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Content) branchesText() string {
	parts := make([]string, 0, len(c.Branches))
	for _, br := range c.Branches {
		parts = append(parts, fmt.Sprintf(
			"%s\n   Address: %s\n   Phone: %s\n   Hours: %s",
			br.Name, br.Address, br.Phone, br.Hours,
		))
	}
	return "Our branches:\n\n" + strings.Join(parts, "\n\n")
}

func (c *Content) loanProcessText() string {
	return "Loan Application Process:\n" + strings.Join(c.LoanSteps, "\n") +
		"\n\nFor more details, please visit our website or contact your nearest branch."
}

func (c *Content) accountOpeningText() string {
	return "Account Opening Process:\n" + strings.Join(c.AccountOpening, "\n") +
		"\n\nFor assistance, please visit your nearest branch."
}
