package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimpleEntryRequest posts a single-account debit or credit. The contra leg
// lands on the company's designated control account.
type SimpleEntryRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Direction   string          `json:"direction" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string          `json:"description"`
}

// CreateLiabilityRequest records a new liability: a LIABILITY account is
// created or reused, a paired ASSET account receives the proceeds, and a
// balanced two-leg entry is posted.
type CreateLiabilityRequest struct {
	LiabilityName string          `json:"liabilityName" binding:"required"`
	LiabilityType string          `json:"liabilityType" binding:"required"` // Free text, normalized via alias table
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description   string          `json:"description"`
}

// MicroTransferRequest transfers between two existing accounts. Only pairs
// in the allowed (fromType -> toType) table are accepted.
type MicroTransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description   string          `json:"description"`
}

// ExternalInvestmentRequest records an investor buy-in: an asset increase
// against a newly created investor equity account.
type ExternalInvestmentRequest struct {
	InvestorName        string          `json:"investorName" binding:"required"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	OwnershipPercentage decimal.Decimal `json:"ownershipPercentage" binding:"required"`
	AssetAccountID      string          `json:"assetAccountID" binding:"required"`
	Date                time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description         string          `json:"description"`
}

// InvestorExitRequest buys an investor out: their equity account is debited
// to zero, a company asset is reduced by the buyout amount, and the residual
// lands on the retained earnings account.
type InvestorExitRequest struct {
	EquityAccountID string          `json:"equityAccountID" binding:"required"`
	BuyoutAmount    decimal.Decimal `json:"buyoutAmount" binding:"required"`
	AssetAccountID  string          `json:"assetAccountID" binding:"required"`
	Date            time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description     string          `json:"description"`
}

// ProfitDistributionRequest fans a profit amount out across every investor
// equity account in proportion to ownership percentage.
type ProfitDistributionRequest struct {
	TotalProfit decimal.Decimal `json:"totalProfit" binding:"required"`
	Date        time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string          `json:"description"`
}

// AssetProtectionRequest reduces a company asset and debits every investor
// equity account in proportion to its share of total investor equity.
type AssetProtectionRequest struct {
	AssetAccountID string          `json:"assetAccountID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Date           time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description    string          `json:"description"`
}
