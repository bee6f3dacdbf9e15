package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the state of a transaction header.
type TransactionStatus string

const (
	Draft  TransactionStatus = "DRAFT"
	Posted TransactionStatus = "POSTED"
	Void   TransactionStatus = "VOID"
)

// Transaction represents a balanced double-entry posting header.
type Transaction struct {
	TransactionID     string            `db:"transaction_id"`
	CompanyID         string            `db:"company_id"`
	PeriodID          string            `db:"period_id"`
	TransactionNumber string            `db:"transaction_number"` // Unique per company
	TransactionDate   time.Time         `db:"transaction_date"`
	Description       string            `db:"description"`
	TotalAmount       decimal.Decimal   `db:"total_amount"`
	ExternalSource    string            `db:"external_source"` // Nullable
	Status            TransactionStatus `db:"status"`
	AuditFields
}

// TransactionLine is one leg of a posting. Exactly one of debit_amount /
// credit_amount is positive; the check constraint enforces it in storage.
type TransactionLine struct {
	LineID        string          `db:"line_id"`
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Description   string          `db:"description"`
	DebitAmount   decimal.Decimal `db:"debit_amount"`
	CreditAmount  decimal.Decimal `db:"credit_amount"`
	AuditFields
}
