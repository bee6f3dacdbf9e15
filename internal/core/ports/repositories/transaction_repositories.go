package repositories

import (
	"context"
	"time"

	"bizledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// TransactionRepository defines persistence for transaction headers and lines.
// SaveTransaction and VoidTransaction are atomic units of work: header, lines
// and balance deltas commit together or not at all.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction, lines []domain.TransactionLine, balanceChanges map[string]decimal.Decimal) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	FindLinesByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLine, error)
	ListTransactions(ctx context.Context, companyID string, limit int, offset int) ([]domain.Transaction, error)
	// UpdateTransactionHeader persists date, description, period and status
	// changes. Lines are immutable once posted.
	UpdateTransactionHeader(ctx context.Context, txn domain.Transaction) error
	// VoidTransaction flips a POSTED header to VOID and applies the inverse
	// balance deltas in one database transaction.
	VoidTransaction(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}
