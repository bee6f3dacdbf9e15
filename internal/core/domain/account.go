package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// CodePrefix returns the single-letter prefix used when generating account
// codes for this type. EXPENSE uses X because EQUITY already claims E.
func (t AccountType) CodePrefix() string {
	switch t {
	case Asset:
		return "A"
	case Liability:
		return "L"
	case Equity:
		return "E"
	case Revenue:
		return "R"
	case Expense:
		return "X"
	}
	return ""
}

// Account represents a financial account within the core domain.
// CurrentBalance is a materialized aggregate: opening balance plus the signed
// sum of every posted ledger line touching the account. It is maintained
// incrementally by the ledger engine, never recomputed on the read path.
type Account struct {
	AccountID           string          `json:"accountID"`   // Primary Key (UUID)
	CompanyID           string          `json:"companyID"`   // FK -> companies.company_id (NON-NULL)
	AccountCode         string          `json:"accountCode"` // Generated, unique per company (e.g. A001)
	Name                string          `json:"name"`
	AccountType         AccountType     `json:"accountType"`
	IsContra            bool            `json:"isContra"` // Normal balance sign opposite to the type default
	IsActive            bool            `json:"isActive"` // Soft delete flag
	OpeningBalance      decimal.Decimal `json:"openingBalance"`
	CurrentBalance      decimal.Decimal `json:"currentBalance"`
	Description         string          `json:"description"`
	InvestorName        string          `json:"investorName,omitempty"`        // Equity accounts representing a stake
	OwnershipPercentage decimal.Decimal `json:"ownershipPercentage,omitempty"` // 0 when not an investor stake
	ParentAccountID     string          `json:"parentAccountID"`               // Nullable self-reference, no cycles
	AuditFields
}

// IsInvestorStake reports whether the account is an equity account
// representing an investor's ownership share.
func (a Account) IsInvestorStake() bool {
	return a.AccountType == Equity && a.OwnershipPercentage.IsPositive()
}
