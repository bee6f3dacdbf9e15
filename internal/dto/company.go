package dto

import (
	"time"

	"bizledger/internal/core/domain"
)

// CreateCompanyRequest creates a new company scope.
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// DesignateAccountsRequest sets the company's policy accounts. Either field
// may be supplied independently.
type DesignateAccountsRequest struct {
	ControlAccountID          *string `json:"controlAccountID"`
	RetainedEarningsAccountID *string `json:"retainedEarningsAccountID"`
}

// CompanyResponse mirrors domain.Company.
type CompanyResponse struct {
	CompanyID                 string    `json:"companyID"`
	Name                      string    `json:"name"`
	ControlAccountID          string    `json:"controlAccountID,omitempty"`
	RetainedEarningsAccountID string    `json:"retainedEarningsAccountID,omitempty"`
	CreatedAt                 time.Time `json:"createdAt"`
	LastUpdatedAt             time.Time `json:"lastUpdatedAt"`
}

// ToCompanyResponse converts a domain.Company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:                 c.CompanyID,
		Name:                      c.Name,
		ControlAccountID:          c.ControlAccountID,
		RetainedEarningsAccountID: c.RetainedEarningsAccountID,
		CreatedAt:                 c.CreatedAt,
		LastUpdatedAt:             c.LastUpdatedAt,
	}
}
