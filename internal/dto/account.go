package dto

import (
	"time"

	"bizledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// The account code is generated, never supplied.
type CreateAccountRequest struct {
	Name                string             `json:"name" binding:"required"`
	AccountType         domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	OpeningBalance      decimal.Decimal    `json:"openingBalance"`
	Description         string             `json:"description"`
	IsContra            bool               `json:"isContra"`
	InvestorName        string             `json:"investorName"`
	OwnershipPercentage decimal.Decimal    `json:"ownershipPercentage"`
	ParentAccountID     *string            `json:"parentAccountID"` // Optional, use pointer for nullability
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name                *string             `json:"name"`
	AccountCode         *string             `json:"accountCode"` // Re-checked for uniqueness
	AccountType         *domain.AccountType `json:"accountType"` // Rejected once ledger lines exist
	Description         *string             `json:"description"`
	InvestorName        *string             `json:"investorName"`
	OwnershipPercentage *decimal.Decimal    `json:"ownershipPercentage"`
	IsActive            *bool               `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID           string             `json:"accountID"`
	CompanyID           string             `json:"companyID"`
	AccountCode         string             `json:"accountCode"`
	Name                string             `json:"name"`
	AccountType         domain.AccountType `json:"accountType"`
	IsContra            bool               `json:"isContra"`
	IsActive            bool               `json:"isActive"`
	OpeningBalance      decimal.Decimal    `json:"openingBalance"`
	CurrentBalance      decimal.Decimal    `json:"currentBalance"`
	Description         string             `json:"description"`
	InvestorName        string             `json:"investorName,omitempty"`
	OwnershipPercentage decimal.Decimal    `json:"ownershipPercentage"`
	ParentAccountID     string             `json:"parentAccountID"` // Empty string if null in DB
	CreatedAt           time.Time          `json:"createdAt"`
	LastUpdatedAt       time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:           acc.AccountID,
		CompanyID:           acc.CompanyID,
		AccountCode:         acc.AccountCode,
		Name:                acc.Name,
		AccountType:         acc.AccountType,
		IsContra:            acc.IsContra,
		IsActive:            acc.IsActive,
		OpeningBalance:      acc.OpeningBalance,
		CurrentBalance:      acc.CurrentBalance,
		Description:         acc.Description,
		InvestorName:        acc.InvestorName,
		OwnershipPercentage: acc.OwnershipPercentage,
		ParentAccountID:     acc.ParentAccountID,
		CreatedAt:           acc.CreatedAt,
		LastUpdatedAt:       acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
