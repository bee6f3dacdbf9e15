package services

import (
	"context"
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
)

// companyService manages company scopes and their designated policy accounts.
type companyService struct {
	companyRepo portsrepo.CompanyRepository
	accountRepo portsrepo.AccountRepository
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepository, accountRepo portsrepo.AccountRepository) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo, accountRepo: accountRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, userID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		logger.Error("Failed to save company", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID), slog.String("name", company.Name))
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// verifyDesignation checks that a policy account exists, belongs to the
// company, is active, and carries the expected type.
func (s *companyService) verifyDesignation(ctx context.Context, companyID string, accountID string, wantType domain.AccountType) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.CompanyID != companyID {
		return apperrors.ErrNotFound
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
	}
	if account.AccountType != wantType {
		return fmt.Errorf("%w: account %s must be of type %s", apperrors.ErrValidation, accountID, wantType)
	}
	return nil
}

func (s *companyService) DesignateAccounts(ctx context.Context, companyID string, req dto.DesignateAccountsRequest, userID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.ControlAccountID != nil && *req.ControlAccountID != company.ControlAccountID {
		// The control account absorbs the contra side of single-leg entries;
		// any active account of the company may serve.
		account, err := s.accountRepo.FindAccountByID(ctx, *req.ControlAccountID)
		if err != nil {
			return nil, err
		}
		if account.CompanyID != companyID {
			return nil, apperrors.ErrNotFound
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.AccountID)
		}
		company.ControlAccountID = *req.ControlAccountID
		updated = true
	}
	if req.RetainedEarningsAccountID != nil && *req.RetainedEarningsAccountID != company.RetainedEarningsAccountID {
		if err := s.verifyDesignation(ctx, companyID, *req.RetainedEarningsAccountID, domain.Equity); err != nil {
			return nil, err
		}
		company.RetainedEarningsAccountID = *req.RetainedEarningsAccountID
		updated = true
	}

	if !updated {
		return company, nil
	}

	now := time.Now().UTC()
	company.LastUpdatedAt = now
	company.LastUpdatedBy = userID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		logger.Error("Failed to update company designations", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	logger.Info("Company policy accounts designated",
		slog.String("company_id", companyID),
		slog.String("control_account_id", company.ControlAccountID),
		slog.String("retained_earnings_account_id", company.RetainedEarningsAccountID),
	)
	return company, nil
}
