package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bizledger/internal/apperrors"
	"bizledger/internal/core/domain"
	portsrepo "bizledger/internal/core/ports/repositories"
	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/dto"
	"bizledger/internal/middleware"
	"bizledger/internal/utils/accounting"

	"github.com/shopspring/decimal"
)

var (
	ErrNoControlAccount     = errors.New("company has no designated control account")
	ErrNoRetainedEarnings   = errors.New("company has no designated retained earnings account")
	ErrAmountNotPositive    = errors.New("amount must be positive")
	ErrTransferNotAllowed   = errors.New("transfer between these account types is not allowed")
	ErrEquityAlreadyEmpty   = errors.New("equity account balance is already zero")
	ErrNoInvestorAccounts   = errors.New("no investor equity accounts found")
	ErrSameAccountTransfer  = errors.New("transfer requires two distinct accounts")
	ErrWrongAccountType     = errors.New("account has the wrong type for this operation")
	ErrBuyoutExceedsBalance = errors.New("buyout amount exceeds the equity balance")
)

// liabilityAliases normalizes free-text liability types to a canonical
// category before they land in account descriptions.
var liabilityAliases = map[string]string{
	"tractor":     "equipment",
	"truck":       "equipment",
	"vehicle":     "equipment",
	"machinery":   "equipment",
	"mortgage":    "loan",
	"bank loan":   "loan",
	"credit card": "credit",
	"vendor":      "supplier",
}

// NormalizeLiabilityType maps a free-text liability type to its canonical
// category. Unknown types pass through lowercased.
func NormalizeLiabilityType(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := liabilityAliases[key]; ok {
		return canonical
	}
	return key
}

// microTransferPairs is the table of allowed (fromType -> toType) transfers.
// The from-leg is always the credit and the to-leg always the debit, so each
// pair reads as "value flows from -> to" under the canonical sign convention.
var microTransferPairs = map[domain.AccountType][]domain.AccountType{
	domain.Asset:     {domain.Asset, domain.Expense, domain.Liability},
	domain.Liability: {domain.Asset},
	domain.Revenue:   {domain.Asset},
	domain.Equity:    {domain.Asset},
}

func microTransferAllowed(from, to domain.AccountType) bool {
	for _, allowed := range microTransferPairs[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// strategyService implements the higher-level transaction types. Every
// strategy reduces to a balanced set of legs handed to the ledger engine;
// none of them touch balances directly.
type strategyService struct {
	ledgerSvc   portssvc.LedgerSvcFacade
	accountSvc  portssvc.AccountSvcFacade
	companySvc  portssvc.CompanySvcFacade
	accountRepo portsrepo.AccountRepository
}

// NewStrategyService creates the transaction-type strategy service.
func NewStrategyService(ledgerSvc portssvc.LedgerSvcFacade, accountSvc portssvc.AccountSvcFacade, companySvc portssvc.CompanySvcFacade, accountRepo portsrepo.AccountRepository) portssvc.StrategySvcFacade {
	return &strategyService{
		ledgerSvc:   ledgerSvc,
		accountSvc:  accountSvc,
		companySvc:  companySvc,
		accountRepo: accountRepo,
	}
}

var _ portssvc.StrategySvcFacade = (*strategyService)(nil)

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrAmountNotPositive)
	}
	return nil
}

// SimpleEntry posts a single-account debit or credit; the balancing leg goes
// to the company's designated control account.
func (s *strategyService) SimpleEntry(ctx context.Context, companyID string, req dto.SimpleEntryRequest, userID string) (*domain.Transaction, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	company, err := s.companySvc.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.ControlAccountID == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoControlAccount)
	}
	if req.AccountID == company.ControlAccountID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrSameAccountTransfer)
	}

	target := portssvc.EntryLeg{AccountID: req.AccountID, Description: req.Description}
	contra := portssvc.EntryLeg{AccountID: company.ControlAccountID, Description: req.Description}
	if req.Direction == "DEBIT" {
		target.Debit = req.Amount
		contra.Credit = req.Amount
	} else {
		target.Credit = req.Amount
		contra.Debit = req.Amount
	}

	return s.ledgerSvc.PostEntry(ctx, companyID, portssvc.EntryInput{
		Date:        req.Date,
		Description: req.Description,
		Kind:        domain.KindGeneral,
		Legs:        []portssvc.EntryLeg{target, contra},
	}, userID)
}

// findOrCreateAccount reuses an active account with the given name and type,
// creating it when absent.
func (s *strategyService) findOrCreateAccount(ctx context.Context, companyID string, name string, accountType domain.AccountType, description string, userID string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByName(ctx, companyID, name, accountType)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account %q: %w", name, err)
	}
	return s.accountSvc.CreateAccount(ctx, companyID, dto.CreateAccountRequest{
		Name:        name,
		AccountType: accountType,
		Description: description,
	}, userID)
}

// CreateLiability records a new obligation: a LIABILITY account tracks the
// amount owed and a paired ASSET account receives the proceeds.
func (s *strategyService) CreateLiability(ctx context.Context, companyID string, req dto.CreateLiabilityRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	category := NormalizeLiabilityType(req.LiabilityType)

	liability, err := s.findOrCreateAccount(ctx, companyID, req.LiabilityName, domain.Liability,
		fmt.Sprintf("Liability (%s)", category), userID)
	if err != nil {
		return nil, err
	}
	asset, err := s.findOrCreateAccount(ctx, companyID, req.LiabilityName, domain.Asset,
		fmt.Sprintf("Asset acquired via liability (%s)", category), userID)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Liability created: %s (%s)", req.LiabilityName, category)
	}

	txn, err := s.ledgerSvc.PostEntry(ctx, companyID, portssvc.EntryInput{
		Date:        req.Date,
		Description: description,
		Kind:        domain.KindLiability,
		Legs: []portssvc.EntryLeg{
			{AccountID: asset.AccountID, Debit: req.Amount},
			{AccountID: liability.AccountID, Credit: req.Amount},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Liability recorded",
		slog.String("liability_account_id", liability.AccountID),
		slog.String("asset_account_id", asset.AccountID),
		slog.String("category", category),
	)
	return txn, nil
}

// MicroTransfer moves a small amount between two existing accounts. The pair
// of account types must appear in the allowed transfer table.
func (s *strategyService) MicroTransfer(ctx context.Context, companyID string, req dto.MicroTransferRequest, userID string) (*domain.Transaction, error) {
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrSameAccountTransfer)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, []string{req.FromAccountID, req.ToAccountID})
	if err != nil {
		return nil, err
	}
	from, ok := accounts[req.FromAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.FromAccountID)
	}
	to, ok := accounts[req.ToAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.ToAccountID)
	}

	if !microTransferAllowed(from.AccountType, to.AccountType) {
		return nil, fmt.Errorf("%w: %s: %s -> %s", apperrors.ErrValidation, ErrTransferNotAllowed, from.AccountType, to.AccountType)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Transfer %s -> %s", from.Name, to.Name)
	}

	return s.ledgerSvc.PostEntry(ctx, companyID, portssvc.EntryInput{
		Date:        req.Date,
		Description: description,
		Kind:        domain.KindMicro,
		Legs: []portssvc.EntryLeg{
			{AccountID: to.AccountID, Debit: req.Amount},
			{AccountID: from.AccountID, Credit: req.Amount},
		},
	}, userID)
}

// ExternalInvestment records an investor buy-in: a new EQUITY account tagged
// with the ownership percentage, funded into an existing asset account.
func (s *strategyService) ExternalInvestment(ctx context.Context, companyID string, req dto.ExternalInvestmentRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	asset, err := s.accountSvc.GetAccountByID(ctx, companyID, req.AssetAccountID)
	if err != nil {
		return nil, err
	}
	if asset.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: %s: %s is %s", apperrors.ErrValidation, ErrWrongAccountType, asset.AccountID, asset.AccountType)
	}

	equity, err := s.accountSvc.CreateAccount(ctx, companyID, dto.CreateAccountRequest{
		Name:                req.InvestorName,
		AccountType:         domain.Equity,
		Description:         "Investor equity stake",
		InvestorName:        req.InvestorName,
		OwnershipPercentage: req.OwnershipPercentage,
	}, userID)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("External investment by %s", req.InvestorName)
	}

	txn, err := s.ledgerSvc.PostEntry(ctx, companyID, portssvc.EntryInput{
		Date:           req.Date,
		Description:    description,
		Kind:           domain.KindInvestment,
		ExternalSource: req.InvestorName,
		Legs: []portssvc.EntryLeg{
			{AccountID: asset.AccountID, Debit: req.Amount},
			{AccountID: equity.AccountID, Credit: req.Amount},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("External investment recorded",
		slog.String("equity_account_id", equity.AccountID),
		slog.String("investor", req.InvestorName),
		slog.String("ownership_pct", req.OwnershipPercentage.String()),
	)
	return txn, nil
}

// InvestorExit buys an investor out. The equity account is debited by its
// full balance, the company asset is reduced by the buyout amount, and the
// difference between stake and buyout lands on retained earnings. The equity
// account is deactivated afterwards.
func (s *strategyService) InvestorExit(ctx context.Context, companyID string, req dto.InvestorExitRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requirePositive(req.BuyoutAmount); err != nil {
		return nil, err
	}

	equity, err := s.accountSvc.GetAccountByID(ctx, companyID, req.EquityAccountID)
	if err != nil {
		return nil, err
	}
	if equity.AccountType != domain.Equity {
		return nil, fmt.Errorf("%w: %s: %s is %s", apperrors.ErrValidation, ErrWrongAccountType, equity.AccountID, equity.AccountType)
	}
	if !equity.CurrentBalance.IsPositive() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrEquityAlreadyEmpty)
	}
	if req.BuyoutAmount.GreaterThan(equity.CurrentBalance) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrBuyoutExceedsBalance)
	}

	asset, err := s.accountSvc.GetAccountByID(ctx, companyID, req.AssetAccountID)
	if err != nil {
		return nil, err
	}
	if asset.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: %s: %s is %s", apperrors.ErrValidation, ErrWrongAccountType, asset.AccountID, asset.AccountType)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Investor exit: %s", equity.Name)
	}

	legs := []portssvc.EntryLeg{
		{AccountID: equity.AccountID, Debit: equity.CurrentBalance},
		{AccountID: asset.AccountID, Credit: req.BuyoutAmount},
	}

	// A buyout below the stake leaves the difference with the company as
	// retained earnings.
	residual := equity.CurrentBalance.Sub(req.BuyoutAmount)
	if !residual.IsZero() {
		company, err := s.companySvc.GetCompanyByID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if company.RetainedEarningsAccountID == "" {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoRetainedEarnings)
		}
		legs = append(legs, portssvc.EntryLeg{AccountID: company.RetainedEarningsAccountID, Credit: residual})
	}

	txn, err := s.ledgerSvc.PostEntry(ctx, companyID, portssvc.EntryInput{
		Date:        req.Date,
		Description: description,
		Kind:        domain.KindInvestorExit,
		Legs:        legs,
	}, userID)
	if err != nil {
		return nil, err
	}

	// The equity account holds posted lines now, so the registry's guarded
	// soft delete would refuse; deactivation here is part of the exit itself.
	if err := s.accountRepo.DeactivateAccount(ctx, equity.AccountID, userID, txn.LastUpdatedAt); err != nil {
		logger.Error("Failed to deactivate equity account after exit", slog.String("error", err.Error()), slog.String("account_id", equity.AccountID))
		return nil, fmt.Errorf("exit posted but deactivation failed for account %s: %w", equity.AccountID, err)
	}

	logger.Info("Investor exit completed",
		slog.String("equity_account_id", equity.AccountID),
		slog.String("buyout", req.BuyoutAmount.String()),
		slog.String("residual", residual.String()),
	)
	return txn, nil
}

// investorAccounts returns the active EQUITY accounts carrying an ownership
// percentage, in a stable order.
func (s *strategyService) investorAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	equities, err := s.accountRepo.ListAccountsByType(ctx, companyID, domain.Equity)
	if err != nil {
		return nil, fmt.Errorf("failed to list equity accounts: %w", err)
	}
	investors := make([]domain.Account, 0, len(equities))
	for _, account := range equities {
		if account.IsActive && account.IsInvestorStake() {
			investors = append(investors, account)
		}
	}
	if len(investors) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoInvestorAccounts)
	}
	return investors, nil
}

// DistributeProfit credits every investor equity account with its ownership
// share of the total, balanced by a debit on retained earnings. The shares
// sum exactly to the input total.
func (s *strategyService) DistributeProfit(ctx context.Context, companyID string, req dto.ProfitDistributionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requirePositive(req.TotalProfit); err != nil {
		return nil, err
	}

	company, err := s.companySvc.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.RetainedEarningsAccountID == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNoRetainedEarnings)
	}

	investors, err := s.investorAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	weights := make([]decimal.Decimal, len(investors))
	for i, investor := range investors {
		weights[i] = investor.OwnershipPercentage
	}
	shares, err := accounting.ProportionalShares(req.TotalProfit, weights)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Profit distribution of %s", req.TotalProfit.String())
	}

	legs := make([]portssvc.EntryLeg, 0, len(investors)+1)
	legs = append(legs, portssvc.EntryLeg{AccountID: company.RetainedEarningsAccountID, Debit: req.TotalProfit})
	for i, investor := range investors {
		// A share that rounds to zero would produce an empty leg.
		if shares[i].IsZero() {
			continue
		}
		legs = append(legs, portssvc.EntryLeg{
			AccountID:   investor.AccountID,
			Credit:      shares[i],
			Description: fmt.Sprintf("Share for %s", investor.Name),
		})
	}

	txn, err := s.ledgerSvc.PostEntry(ctx, companyID, portssvc.EntryInput{
		Date:        req.Date,
		Description: description,
		Kind:        domain.KindDistribution,
		Legs:        legs,
	}, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Profit distributed",
		slog.String("total", req.TotalProfit.String()),
		slog.Int("investors", len(investors)),
	)
	return txn, nil
}

// ProtectAssets moves value out of a company asset and charges every
// investor equity account in proportion to its share of total investor
// equity.
func (s *strategyService) ProtectAssets(ctx context.Context, companyID string, req dto.AssetProtectionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	asset, err := s.accountSvc.GetAccountByID(ctx, companyID, req.AssetAccountID)
	if err != nil {
		return nil, err
	}
	if asset.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: %s: %s is %s", apperrors.ErrValidation, ErrWrongAccountType, asset.AccountID, asset.AccountType)
	}

	investors, err := s.investorAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	weights := make([]decimal.Decimal, len(investors))
	for i, investor := range investors {
		weights[i] = investor.CurrentBalance
	}
	shares, err := accounting.ProportionalShares(req.Amount, weights)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Asset protection of %s from %s", req.Amount.String(), asset.Name)
	}

	legs := make([]portssvc.EntryLeg, 0, len(investors)+1)
	legs = append(legs, portssvc.EntryLeg{AccountID: asset.AccountID, Credit: req.Amount})
	for i, investor := range investors {
		// Zero-balance stakes carry a zero weight; skip the empty leg.
		if shares[i].IsZero() {
			continue
		}
		legs = append(legs, portssvc.EntryLeg{
			AccountID:   investor.AccountID,
			Debit:       shares[i],
			Description: fmt.Sprintf("Protection charge for %s", investor.Name),
		})
	}

	txn, err := s.ledgerSvc.PostEntry(ctx, companyID, portssvc.EntryInput{
		Date:        req.Date,
		Description: description,
		Kind:        domain.KindProtection,
		Legs:        legs,
	}, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Assets protected",
		slog.String("asset_account_id", asset.AccountID),
		slog.String("amount", req.Amount.String()),
	)
	return txn, nil
}
