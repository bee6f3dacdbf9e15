package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bizledger/internal/apperrors"
	"bizledger/internal/core/domain"
	portsrepo "bizledger/internal/core/ports/repositories"
	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/dto"
	"bizledger/internal/middleware"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountTypeLocked  = errors.New("account type cannot change while ledger lines exist")
	ErrAccountCodeTaken   = errors.New("account code already in use")
	ErrAccountCodeInvalid = errors.New("account code must be the type prefix followed by digits")
	ErrAccountHasLines    = errors.New("account has posted ledger lines")
	ErrAccountHasChilds   = errors.New("account has child accounts")
)

const hundred = 100

// accountService is the account registry: it owns account lifecycle, code
// generation and the balance mutation primitive.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// generateCode builds the next sequential account code for the company and
// type: type prefix plus a zero-padded three digit suffix, e.g. A001.
// The repository counts soft-deleted accounts too, so codes are never reused.
func (s *accountService) generateCode(ctx context.Context, companyID string, accountType domain.AccountType) (string, error) {
	prefix := accountType.CodePrefix()
	if prefix == "" {
		return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
	n, err := s.accountRepo.NextCodeNumber(ctx, companyID, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to allocate account code: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, n), nil
}

// validateCodeShape enforces the <prefix><digits> form the code generator
// produces; NextCodeNumber casts everything after the prefix to an integer,
// so a free-form code would break generation for the whole prefix.
func validateCodeShape(code string, accountType domain.AccountType) error {
	prefix := accountType.CodePrefix()
	if len(code) < 2 || code[:1] != prefix {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAccountCodeInvalid)
	}
	for _, r := range code[1:] {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAccountCodeInvalid)
		}
	}
	return nil
}

func validateInvestorFields(accountType domain.AccountType, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(hundred)) {
		return fmt.Errorf("%w: ownership percentage must be between 0 and 100", apperrors.ErrValidation)
	}
	if pct.IsPositive() && accountType != domain.Equity {
		return fmt.Errorf("%w: ownership percentage is only valid on equity accounts", apperrors.ErrValidation)
	}
	return nil
}

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}
	if err := validateInvestorFields(req.AccountType, req.OwnershipPercentage); err != nil {
		return nil, err
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		if parent.CompanyID != companyID {
			return nil, fmt.Errorf("%w: parent account belongs to a different company", apperrors.ErrValidation)
		}
	}

	code, err := s.generateCode(ctx, companyID, req.AccountType)
	if err != nil {
		return nil, err
	}

	// Expense balances are stored negative and move toward zero as the
	// expense is paid down; callers supply the opening amount positive.
	opening := req.OpeningBalance
	if req.AccountType == domain.Expense && opening.IsPositive() {
		opening = opening.Neg()
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:           uuid.NewString(),
		CompanyID:           companyID,
		AccountCode:         code,
		Name:                req.Name,
		AccountType:         req.AccountType,
		IsContra:            req.IsContra,
		IsActive:            true,
		OpeningBalance:      opening,
		CurrentBalance:      opening,
		Description:         req.Description,
		InvestorName:        req.InvestorName,
		OwnershipPercentage: req.OwnershipPercentage,
		ParentAccountID:     parentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_code", account.AccountCode))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	// Obscure existence from other companies.
	if account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if account.CompanyID != companyID {
			return nil, apperrors.ErrNotFound
		}
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for company %s: %w", companyID, err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.AccountType != nil && *req.AccountType != account.AccountType {
		if !req.AccountType.IsValid() {
			return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		lineCount, err := s.accountRepo.CountPostedLines(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to count ledger lines for account %s: %w", accountID, err)
		}
		if lineCount > 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidState, ErrAccountTypeLocked)
		}
		account.AccountType = *req.AccountType
		updated = true
	}
	if req.AccountCode != nil && *req.AccountCode != account.AccountCode {
		if err := validateCodeShape(*req.AccountCode, account.AccountType); err != nil {
			return nil, err
		}
		existing, err := s.accountRepo.FindAccountByCode(ctx, companyID, *req.AccountCode)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check account code uniqueness: %w", err)
		}
		if existing != nil && existing.AccountID != accountID {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAccountCodeTaken)
		}
		account.AccountCode = *req.AccountCode
		updated = true
	}
	if req.InvestorName != nil {
		account.InvestorName = *req.InvestorName
		updated = true
	}
	if req.OwnershipPercentage != nil {
		if err := validateInvestorFields(account.AccountType, *req.OwnershipPercentage); err != nil {
			return nil, err
		}
		account.OwnershipPercentage = *req.OwnershipPercentage
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// AdjustBalance is the registry's balance mutation primitive: an atomic
// signed increment of current_balance. The ledger engine's posting path uses
// the transaction-scoped bulk variant instead.
func (s *accountService) AdjustBalance(ctx context.Context, companyID string, accountID string, delta decimal.Decimal, userID string) error {
	if _, err := s.GetAccountByID(ctx, companyID, accountID); err != nil {
		return err
	}
	if delta.IsZero() {
		return nil
	}
	return s.accountRepo.AdjustBalance(ctx, accountID, delta, userID, time.Now().UTC())
}

func (s *accountService) SoftDeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrConflict, accountID)
	}

	lineCount, err := s.accountRepo.CountPostedLines(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count ledger lines for account %s: %w", accountID, err)
	}
	if lineCount > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAccountHasLines)
	}

	childCount, err := s.accountRepo.CountChildAccounts(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count child accounts for account %s: %w", accountID, err)
	}
	if childCount > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAccountHasChilds)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}

	logger.Info("Account soft-deleted", slog.String("account_id", accountID))
	return nil
}
