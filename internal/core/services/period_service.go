package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bizledger/internal/apperrors"
	"bizledger/internal/core/domain"
	portsrepo "bizledger/internal/core/ports/repositories"
	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/middleware"

	"github.com/google/uuid"
)

// periodService resolves the accounting period for a transaction date.
type periodService struct {
	periodRepo portsrepo.PeriodRepository
}

// NewPeriodService creates a new period resolver.
func NewPeriodService(periodRepo portsrepo.PeriodRepository) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// ResolvePeriod finds the period containing the date, or creates a one-day
// period when none exists. The check-then-insert race is guarded by a unique
// constraint in storage: on a duplicate insert the lookup is retried, since
// a concurrent caller won the creation.
func (s *periodService) ResolvePeriod(ctx context.Context, companyID string, date time.Time, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	day := date.UTC().Truncate(24 * time.Hour)

	period, err := s.periodRepo.FindPeriodContaining(ctx, companyID, day)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up accounting period: %w", err)
	}

	now := time.Now().UTC()
	newPeriod := domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		CompanyID: companyID,
		StartDate: day,
		EndDate:   day,
		IsClosed:  false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err = s.periodRepo.SavePeriod(ctx, newPeriod)
	if err == nil {
		logger.Info("Accounting period created", slog.String("period_id", newPeriod.PeriodID), slog.Time("date", day))
		return &newPeriod, nil
	}
	if errors.Is(err, apperrors.ErrDuplicate) {
		// A concurrent posting created the same period; use theirs.
		period, findErr := s.periodRepo.FindPeriodContaining(ctx, companyID, day)
		if findErr != nil {
			return nil, fmt.Errorf("period exists but lookup failed after conflict: %w", findErr)
		}
		return period, nil
	}
	return nil, fmt.Errorf("failed to create accounting period: %w", err)
}
