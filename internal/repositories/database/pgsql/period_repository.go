package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizledger/internal/apperrors"
	"bizledger/internal/core/domain"
	portsrepo "bizledger/internal/core/ports/repositories"
	"bizledger/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_id, company_id, start_date, end_date, is_closed, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting periods.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepository = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (domain.AccountingPeriod, error) {
	var m models.AccountingPeriod

	err := row.Scan(
		&m.PeriodID,
		&m.CompanyID,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.AccountingPeriod{}, err
	}

	return domain.AccountingPeriod{
		PeriodID:  m.PeriodID,
		CompanyID: m.CompanyID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		IsClosed:  m.IsClosed,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}, nil
}

// SavePeriod inserts a period. The unique constraint on
// (company_id, start_date, end_date) guards the lazy-create race; violations
// surface as ErrDuplicate so the resolver can re-read the winner's row.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.CompanyID,
		period.StartDate,
		period.EndDate,
		period.IsClosed,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: period for this date range already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save period %s: %w", period.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`

	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}
	return &period, nil
}

// FindPeriodContaining returns the period whose date range contains the given
// date. The narrowest matching period wins when ranges overlap.
func (r *PgxPeriodRepository) FindPeriodContaining(ctx context.Context, companyID string, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE company_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY end_date - start_date, start_date
		LIMIT 1;
	`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, companyID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period containing %s: %w", date.Format("2006-01-02"), err)
	}
	return &period, nil
}
