package repositories

import (
	"context"

	"bizledger/internal/core/domain"
)

// CompanyRepository defines persistence for companies.
type CompanyRepository interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) error
}
