package services

import (
	"context"

	"bizledger/internal/core/domain"
	"bizledger/internal/dto"
)

// CompanySvcFacade manages companies and their designated policy accounts.
type CompanySvcFacade interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, userID string) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	// DesignateAccounts sets the control and retained-earnings accounts used
	// as implied contra sides by the transaction-type strategies.
	DesignateAccounts(ctx context.Context, companyID string, req dto.DesignateAccountsRequest, userID string) (*domain.Company, error)
}
