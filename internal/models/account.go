package models

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

// Account represents a financial account row.
// ParentAccountID uses string for the nullable self-referencing foreign key.
type Account struct {
	AccountID           string          `db:"account_id"`
	CompanyID           string          `db:"company_id"`
	AccountCode         string          `db:"account_code"` // Generated, e.g. A001
	Name                string          `db:"name"`
	AccountType         AccountType     `db:"account_type"`
	IsContra            bool            `db:"is_contra"`
	IsActive            bool            `db:"is_active"`
	OpeningBalance      decimal.Decimal `db:"opening_balance"`
	CurrentBalance      decimal.Decimal `db:"current_balance"` // Materialized, maintained by posting
	Description         string          `db:"description"`
	InvestorName        string          `db:"investor_name"`        // Nullable
	OwnershipPercentage decimal.Decimal `db:"ownership_percentage"` // 0 unless an investor stake
	ParentAccountID     string          `db:"parent_account_id"`    // Nullable
	AuditFields
}
