package dto

import (
	"time"

	"bizledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// LegRequest is one leg of a posting as submitted by a caller.
// Exactly one of debit/credit must be positive; the service validates this.
type LegRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// PostEntryRequest submits a balanced double-entry posting.
type PostEntryRequest struct {
	Date           time.Time    `json:"date" binding:"required" time_format:"2006-01-02"`
	Description    string       `json:"description" binding:"required"`
	ExternalSource string       `json:"externalSource"`
	Legs           []LegRequest `json:"legs" binding:"required,min=1,dive"`
}

// UpdateTransactionRequest carries header-only edits. Leg changes are not
// accepted here; corrections go through void + re-post.
type UpdateTransactionRequest struct {
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
}

// TransactionLineResponse mirrors domain.TransactionLine.
type TransactionLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// TransactionResponse mirrors domain.Transaction.
type TransactionResponse struct {
	TransactionID     string                    `json:"transactionID"`
	CompanyID         string                    `json:"companyID"`
	PeriodID          string                    `json:"periodID"`
	TransactionNumber string                    `json:"transactionNumber"`
	TransactionDate   time.Time                 `json:"transactionDate"`
	Description       string                    `json:"description"`
	TotalAmount       decimal.Decimal           `json:"totalAmount"`
	ExternalSource    string                    `json:"externalSource,omitempty"`
	Status            domain.TransactionStatus  `json:"status"`
	Lines             []TransactionLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	LastUpdatedAt     time.Time                 `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction (with lines, if
// loaded) to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	lines := make([]TransactionLineResponse, len(txn.Lines))
	for i, l := range txn.Lines {
		lines[i] = TransactionLineResponse{
			LineID:       l.LineID,
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		}
	}
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		CompanyID:         txn.CompanyID,
		PeriodID:          txn.PeriodID,
		TransactionNumber: txn.TransactionNumber,
		TransactionDate:   txn.TransactionDate,
		Description:       txn.Description,
		TotalAmount:       txn.TotalAmount,
		ExternalSource:    txn.ExternalSource,
		Status:            txn.Status,
		Lines:             lines,
		CreatedAt:         txn.CreatedAt,
		LastUpdatedAt:     txn.LastUpdatedAt,
	}
}

// ToListTransactionResponse converts a slice of transactions.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// PostingResponse is returned by every balance-mutating endpoint: the
// persisted transaction plus a fresh read of each touched account, so the
// UI can render balances without a follow-up call.
type PostingResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Accounts    []AccountResponse   `json:"accounts"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
