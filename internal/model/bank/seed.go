package bank

// Data bundles everything the chatbot serves: the customer records used
// for verification and the public content blocks.
type Data struct {
	Customers []CustomerRecord `yaml:"customers" json:"customers"`
	Content   Content          `yaml:"content" json:"content"`
}

// Seed provides the default demo dataset.
func Seed() *Data {
	return &Data{
		Customers: []CustomerRecord{
			{
				Name:           "Tony Stark",
				DOB:            "1996/09/10",
				ID:             "A234763849",
				BankAccount:    "6102394256679291",
				AccountBalance: "TWD 2,500,394",
				LoanBalance:    "TWD 19,243,225",
				OpeningBranch:  "Taipei First Main Branch",
			},
		},
		Content: Content{
			Services: []string{
				"24/7 Customer Support",
				"Account Management",
				"Loan Services",
				"Investment Advisory",
				"Credit Card Services",
				"Mobile Banking",
			},
			Branches: []Branch{
				{
					Name:    "Taipei First Main Branch",
					Address: "No. 1, Dunnan Rd, Taipei",
					Phone:   "02-2109-5500",
					Hours:   "Mon-Fri 9:00-17:00",
				},
				{
					Name:    "Taipei Second Branch",
					Address: "No. 88, Songshan Rd, Taipei",
					Phone:   "02-2719-7000",
					Hours:   "Mon-Fri 9:00-17:00",
				},
			},
			LoanSteps: []string{
				"1. Submit application with required documents",
				"2. Credit assessment and verification",
				"3. Final approval decision",
				"4. Loan disbursement",
			},
			AccountOpening: []string{
				"1. Visit nearest branch with valid ID",
				"2. Fill out account opening form",
				"3. Provide initial deposit (min TWD 1,000)",
				"4. Activate online banking (optional)",
				"5. Receive debit card in 7-10 business days",
			},
		},
	}
}
