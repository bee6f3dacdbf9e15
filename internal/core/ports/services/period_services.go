package services

import (
	"context"
	"time"

	"bizledger/internal/core/domain"
)

// PeriodSvcFacade resolves the accounting period covering a transaction
// date, lazily creating a one-day period when none exists.
type PeriodSvcFacade interface {
	ResolvePeriod(ctx context.Context, companyID string, date time.Time, userID string) (*domain.AccountingPeriod, error)
}
