package services

import (
	"context"
	"time"

	"bizledger/internal/core/domain"
	"bizledger/internal/dto"

	"github.com/shopspring/decimal"
)

// EntryLeg is one (account, debit-or-credit amount) entry within a posting.
type EntryLeg struct {
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// EntryInput is the canonical input to the ledger engine. Every mutation of
// account balances flows through one of these, fully balanced.
type EntryInput struct {
	Date           time.Time
	Description    string
	Kind           domain.EntryKind
	ExternalSource string
	Legs           []EntryLeg
}

// LedgerSvcFacade is the ledger engine: balanced posting, strict-discipline
// voiding, and header-only updates of posted transactions.
type LedgerSvcFacade interface {
	PostEntry(ctx context.Context, companyID string, input EntryInput, userID string) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)
	VoidTransaction(ctx context.Context, companyID string, transactionID string, userID string) (*domain.Transaction, error)
}
