package services

import (
	"context"

	"bizledger/internal/core/domain"
	"bizledger/internal/dto"
)

// StrategySvcFacade groups the higher-level transaction types. Each strategy
// computes balanced legs and posts them through the ledger engine.
type StrategySvcFacade interface {
	SimpleEntry(ctx context.Context, companyID string, req dto.SimpleEntryRequest, userID string) (*domain.Transaction, error)
	CreateLiability(ctx context.Context, companyID string, req dto.CreateLiabilityRequest, userID string) (*domain.Transaction, error)
	MicroTransfer(ctx context.Context, companyID string, req dto.MicroTransferRequest, userID string) (*domain.Transaction, error)
	ExternalInvestment(ctx context.Context, companyID string, req dto.ExternalInvestmentRequest, userID string) (*domain.Transaction, error)
	InvestorExit(ctx context.Context, companyID string, req dto.InvestorExitRequest, userID string) (*domain.Transaction, error)
	DistributeProfit(ctx context.Context, companyID string, req dto.ProfitDistributionRequest, userID string) (*domain.Transaction, error)
	ProtectAssets(ctx context.Context, companyID string, req dto.AssetProtectionRequest, userID string) (*domain.Transaction, error)
}
