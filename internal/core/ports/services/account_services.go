package services

import (
	"context"

	"bizledger/internal/core/domain"
	"bizledger/internal/dto"

	"github.com/shopspring/decimal"
)

// AccountSvcFacade is the account registry: account lifecycle, code
// generation and the balance mutation primitive.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	// AdjustBalance atomically increments current_balance by the signed delta.
	AdjustBalance(ctx context.Context, companyID string, accountID string, delta decimal.Decimal, userID string) error
	// SoftDeleteAccount marks the account inactive; blocked while ledger
	// lines or child accounts reference it.
	SoftDeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error
}
