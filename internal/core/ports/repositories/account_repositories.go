package repositories

import (
	"context"
	"time"

	"bizledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, companyID string, accountCode string) (*domain.Account, error)
	FindAccountByName(ctx context.Context, companyID string, name string, accountType domain.AccountType) (*domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)
	ListAccountsByType(ctx context.Context, companyID string, accountType domain.AccountType) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	// AdjustBalance applies a signed delta to current_balance as a single
	// atomic increment (balance = balance + delta), never read-modify-write.
	AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
	// NextCodeNumber returns max numeric suffix + 1 for the given code prefix,
	// counting soft-deleted accounts so codes are never reused.
	NextCodeNumber(ctx context.Context, companyID string, prefix string) (int, error)
	CountPostedLines(ctx context.Context, accountID string) (int64, error)
	CountChildAccounts(ctx context.Context, accountID string) (int64, error)
}

// AccountTxRepository adds the transaction-scoped operations the posting
// path needs: locking account rows and applying balance deltas inside the
// caller's database transaction.
type AccountTxRepository interface {
	AccountRepository
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}
