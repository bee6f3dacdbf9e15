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
	"bizledger/internal/utils"
	"bizledger/internal/utils/accounting"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEntryNoLegs        = errors.New("entry must have at least one leg")
	ErrEntryNoDescription = errors.New("entry description is required")
	ErrEntryNoDate        = errors.New("entry date is required")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrNotPosted          = errors.New("transaction is not in posted status")
)

// numberAttempts bounds retries when a generated transaction number collides.
const numberAttempts = 3

// ledgerService is the ledger engine. Every balance mutation in the system
// flows through PostEntry or VoidTransaction, each a single atomic unit of
// work: transaction header, lines and account balance deltas commit together
// or not at all.
type ledgerService struct {
	accountSvc portssvc.AccountSvcFacade
	periodSvc  portssvc.PeriodSvcFacade
	txnRepo    portsrepo.TransactionRepository
}

// NewLedgerService creates a new ledger engine.
func NewLedgerService(txnRepo portsrepo.TransactionRepository, accountSvc portssvc.AccountSvcFacade, periodSvc portssvc.PeriodSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountSvc: accountSvc,
		periodSvc:  periodSvc,
		txnRepo:    txnRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// buildLines converts entry legs to domain lines, assigning IDs and audit fields.
func buildLines(input portssvc.EntryInput, transactionID string, userID string, now time.Time) []domain.TransactionLine {
	lines := make([]domain.TransactionLine, len(input.Legs))
	for i, leg := range input.Legs {
		lines[i] = domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: transactionID,
			AccountID:     leg.AccountID,
			Description:   leg.Description,
			DebitAmount:   leg.Debit,
			CreditAmount:  leg.Credit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// balanceChanges computes the signed per-account balance delta of a set of
// lines, using the canonical sign convention for each account's type.
func balanceChanges(lines []domain.TransactionLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	for _, line := range lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		delta, err := accounting.SignedDelta(line, account.AccountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

// allocateNumber builds a business-readable transaction number:
// kind prefix, transaction date, random disambiguator.
func allocateNumber(kind domain.EntryKind, date time.Time) (string, error) {
	suffix, err := utils.TransactionNumberSuffix()
	if err != nil {
		return "", fmt.Errorf("failed to generate transaction number suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", kind.NumberPrefix(), date.Format("20060102"), suffix), nil
}

func (s *ledgerService) PostEntry(ctx context.Context, companyID string, input portssvc.EntryInput, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(input.Legs) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEntryNoLegs)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEntryNoDescription)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEntryNoDate)
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	lines := buildLines(input, transactionID, userID, now)

	// Per-line shape errors are the caller's fault; a debit/credit sum
	// mismatch is a strategy bug and surfaces as UnbalancedEntry.
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
	}
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		logger.Error("Unbalanced entry rejected", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err)
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for posting: %w", err)
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s: %s", apperrors.ErrValidation, id, ErrAccountInactive)
		}
	}

	changes, err := balanceChanges(lines, accounts)
	if err != nil {
		return nil, err
	}

	period, err := s.periodSvc.ResolvePeriod(ctx, companyID, input.Date, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounting period: %w", err)
	}

	totalDebits := decimal.Zero
	for _, line := range lines {
		totalDebits = totalDebits.Add(line.DebitAmount)
	}

	txn := domain.Transaction{
		TransactionID:   transactionID,
		CompanyID:       companyID,
		PeriodID:        period.PeriodID,
		TransactionDate: input.Date,
		Description:     input.Description,
		TotalAmount:     totalDebits,
		ExternalSource:  input.ExternalSource,
		Status:          domain.Posted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// The random suffix keeps numbers unique per company; on the rare
	// collision the save is retried with a fresh suffix.
	for attempt := 0; attempt < numberAttempts; attempt++ {
		txn.TransactionNumber, err = allocateNumber(input.Kind, input.Date)
		if err != nil {
			return nil, err
		}
		err = s.txnRepo.SaveTransaction(ctx, txn, lines, changes)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			return nil, fmt.Errorf("failed to save transaction: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to allocate a unique transaction number: %w", err)
	}

	logger.Info("Entry posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber),
		slog.String("total", txn.TotalAmount.String()),
	)

	txn.Lines = lines
	return &txn, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.txnRepo.FindLinesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for transaction %s: %w", transactionID, err)
	}
	txn.Lines = lines
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListTransactions(ctx, companyID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for company %s: %w", companyID, err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

// UpdateTransaction edits header fields only. Amounts, accounts and leg
// directions are immutable once posted; the correction path is
// VoidTransaction followed by a fresh PostEntry.
func (s *ledgerService) UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	if txn.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidState, ErrNotPosted)
	}

	updated := false
	if req.Date != nil && !req.Date.Equal(txn.TransactionDate) {
		period, err := s.periodSvc.ResolvePeriod(ctx, companyID, *req.Date, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve accounting period for new date: %w", err)
		}
		txn.TransactionDate = *req.Date
		txn.PeriodID = period.PeriodID
		updated = true
	}
	if req.Description != nil && *req.Description != txn.Description {
		txn.Description = *req.Description
		updated = true
	}

	if !updated {
		// No-op update: balances and lines untouched.
		return txn, nil
	}

	now := time.Now().UTC()
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransactionHeader(ctx, *txn); err != nil {
		logger.Error("Failed to update transaction header", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	logger.Info("Transaction header updated", slog.String("transaction_id", transactionID))
	return txn, nil
}

// VoidTransaction reverses a posted transaction: every touched account
// receives the exact inverse of the delta the posting applied, and the
// header flips to VOID. Lines are retained for audit. The reversal and the
// status flip happen in one atomic unit; a failure mid-way rolls everything
// back.
func (s *ledgerService) VoidTransaction(ctx context.Context, companyID string, transactionID string, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	if txn.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidState, ErrNotPosted)
	}

	lines, err := s.txnRepo.FindLinesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for reversal: %w", err)
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}

	changes, err := balanceChanges(lines, accounts)
	if err != nil {
		return nil, err
	}
	inverse := make(map[string]decimal.Decimal, len(changes))
	for accountID, delta := range changes {
		inverse[accountID] = delta.Neg()
	}

	now := time.Now().UTC()
	if err := s.txnRepo.VoidTransaction(ctx, transactionID, inverse, userID, now); err != nil {
		logger.Error("Failed to void transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	logger.Info("Transaction voided", slog.String("transaction_id", transactionID), slog.String("transaction_number", txn.TransactionNumber))

	txn.Status = domain.Void
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID
	txn.Lines = lines
	return txn, nil
}
