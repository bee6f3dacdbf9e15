package repositories

import (
	"context"
	"time"

	"bizledger/internal/core/domain"
)

// PeriodRepository defines persistence for accounting periods.
type PeriodRepository interface {
	// SavePeriod inserts a period. A unique constraint on
	// (company_id, start_date, end_date) guards the create-if-missing race;
	// violations surface as apperrors.ErrDuplicate.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	// FindPeriodContaining returns the period where start_date <= date <= end_date.
	FindPeriodContaining(ctx context.Context, companyID string, date time.Time) (*domain.AccountingPeriod, error)
}
