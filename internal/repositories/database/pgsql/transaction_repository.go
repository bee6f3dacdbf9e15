package pgsql

import (
	"context"
	"database/sql"
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
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, company_id, period_id, transaction_number, transaction_date, description, total_amount, external_source, status, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, transaction_id, account_id, description, debit_amount, credit_amount, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTxRepository
}

// newPgxTransactionRepository creates a new repository for transaction
// headers and lines. The account repository is injected so that posting can
// lock and adjust account rows inside the same database transaction.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTxRepository) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		CompanyID:         d.CompanyID,
		PeriodID:          d.PeriodID,
		TransactionNumber: d.TransactionNumber,
		TransactionDate:   d.TransactionDate,
		Description:       d.Description,
		TotalAmount:       d.TotalAmount,
		ExternalSource:    d.ExternalSource,
		Status:            models.TransactionStatus(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		CompanyID:         m.CompanyID,
		PeriodID:          m.PeriodID,
		TransactionNumber: m.TransactionNumber,
		TransactionDate:   m.TransactionDate,
		Description:       m.Description,
		TotalAmount:       m.TotalAmount,
		ExternalSource:    m.ExternalSource,
		Status:            domain.TransactionStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var m models.Transaction
	var externalSource sql.NullString

	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.PeriodID,
		&m.TransactionNumber,
		&m.TransactionDate,
		&m.Description,
		&m.TotalAmount,
		&externalSource,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Transaction{}, err
	}

	m.ExternalSource = externalSource.String
	return toDomainTransaction(m), nil
}

func scanLine(row pgx.Row) (domain.TransactionLine, error) {
	var m models.TransactionLine

	err := row.Scan(
		&m.LineID,
		&m.TransactionID,
		&m.AccountID,
		&m.Description,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.TransactionLine{}, err
	}

	return domain.TransactionLine{
		LineID:        m.LineID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Description:   m.Description,
		DebitAmount:   m.DebitAmount,
		CreditAmount:  m.CreditAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}, nil
}

// SaveTransaction inserts the header and lines and applies the account
// balance deltas, all within one database transaction. Touched account rows
// are locked FOR UPDATE before the deltas are applied.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, lines []domain.TransactionLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op once committed

	m := toModelTransaction(txn)

	headerQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.TransactionID,
		m.CompanyID,
		m.PeriodID,
		m.TransactionNumber,
		m.TransactionDate,
		m.Description,
		m.TotalAmount,
		nullable(m.ExternalSource),
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction number %s already exists", apperrors.ErrDuplicate, m.TransactionNumber)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for posting: %w", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return fmt.Errorf("failed to apply balance changes: %w", err)
	}

	lineQuery := `
		INSERT INTO transaction_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.TransactionID,
			line.AccountID,
			line.Description,
			line.DebitAmount,
			line.CreditAmount,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert line %s: %w", lines[i].LineID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close line insert batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction header by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return &txn, nil
}

// FindLinesByTransactionID retrieves the lines of a transaction in insertion
// order.
func (r *PgxTransactionRepository) FindLinesByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionLine, error) {
	query := `SELECT ` + lineColumns + ` FROM transaction_lines WHERE transaction_id = $1 ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	lines := []domain.TransactionLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for transaction %s: %w", transactionID, err)
		}
		lines = append(lines, line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line rows for transaction %s: %w", transactionID, rows.Err())
	}
	return lines, nil
}

// ListTransactions retrieves a paginated list of transactions for a company,
// newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, companyID string, limit int, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for company %s: %w", companyID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for company %s: %w", companyID, err)
		}
		txns = append(txns, txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows for company %s: %w", companyID, rows.Err())
	}
	return txns, nil
}

// UpdateTransactionHeader persists date, period, description and status
// changes. Lines are never touched here.
func (r *PgxTransactionRepository) UpdateTransactionHeader(ctx context.Context, txn domain.Transaction) error {
	m := toModelTransaction(txn)

	query := `
		UPDATE transactions
		SET period_id = $2, transaction_date = $3, description = $4, status = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.PeriodID,
		m.TransactionDate,
		m.Description,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// VoidTransaction flips a POSTED header to VOID and applies the inverse
// balance deltas in one database transaction. The status predicate makes
// concurrent voids race-safe: only one caller sees RowsAffected == 1.
func (r *PgxTransactionRepository) VoidTransaction(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	statusQuery := `
		UPDATE transactions
		SET status = 'VOID', last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := tx.Exec(ctx, statusQuery, transactionID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to void transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is not in posted status", apperrors.ErrInvalidState, transactionID)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for reversal: %w", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return fmt.Errorf("failed to apply reversal balance changes: %w", err)
	}

	return r.Commit(ctx, tx)
}
