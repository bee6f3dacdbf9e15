package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of a transaction.
type TransactionStatus string

const (
	Draft  TransactionStatus = "DRAFT"
	Posted TransactionStatus = "POSTED"
	Void   TransactionStatus = "VOID"
)

// EntryKind identifies which operation produced a transaction. It selects
// the prefix for the business-readable transaction number.
type EntryKind string

const (
	KindGeneral      EntryKind = "GENERAL"
	KindLiability    EntryKind = "LIABILITY"
	KindMicro        EntryKind = "MICRO"
	KindInvestment   EntryKind = "INVESTMENT"
	KindInvestorExit EntryKind = "INVESTOR_EXIT"
	KindDistribution EntryKind = "DISTRIBUTION"
	KindProtection   EntryKind = "PROTECTION"
)

// NumberPrefix returns the transaction-number prefix for the kind.
func (k EntryKind) NumberPrefix() string {
	switch k {
	case KindLiability:
		return "LIA"
	case KindMicro:
		return "MIC"
	case KindInvestment:
		return "INV"
	case KindInvestorExit:
		return "EXT"
	case KindDistribution:
		return "DIV"
	case KindProtection:
		return "PRT"
	}
	return "TXN"
}

// Transaction is the header of a balanced double-entry posting.
type Transaction struct {
	TransactionID     string            `json:"transactionID"` // Primary Key (UUID)
	CompanyID         string            `json:"companyID"`
	PeriodID          string            `json:"periodID"`          // FK -> accounting_periods
	TransactionNumber string            `json:"transactionNumber"` // e.g. LIA-20260901-4F2A9C, unique per company
	TransactionDate   time.Time         `json:"transactionDate"`
	Description       string            `json:"description"`
	TotalAmount       decimal.Decimal   `json:"totalAmount"` // Sum of the debit side
	ExternalSource    string            `json:"externalSource,omitempty"`
	Status            TransactionStatus `json:"status"`
	Lines             []TransactionLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// TransactionLine is one leg of a posting, affecting a single account.
// Exactly one of DebitAmount / CreditAmount is positive.
type TransactionLine struct {
	LineID        string          `json:"lineID"`
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Description   string          `json:"description"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	AuditFields
}

// IsDebit reports whether the line is the debit side of a posting.
func (l TransactionLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns the magnitude of the line, whichever side it is on.
func (l TransactionLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// Validate checks the single-side invariant: exactly one of debit/credit
// must be positive and neither may be negative.
func (l TransactionLine) Validate() error {
	if l.AccountID == "" {
		return fmt.Errorf("line is missing an account reference")
	}
	if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
		return fmt.Errorf("line amounts must not be negative for account %s", l.AccountID)
	}
	debit := l.DebitAmount.IsPositive()
	credit := l.CreditAmount.IsPositive()
	if debit == credit {
		return fmt.Errorf("line for account %s must have exactly one of debit or credit set", l.AccountID)
	}
	return nil
}
