package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
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

const accountColumns = `account_id, company_id, account_code, name, account_type, is_contra, is_active, opening_balance, current_balance, description, investor_name, ownership_percentage, parent_account_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountTxRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountTxRepository = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage.
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:           d.AccountID,
		CompanyID:           d.CompanyID,
		AccountCode:         d.AccountCode,
		Name:                d.Name,
		AccountType:         models.AccountType(d.AccountType),
		IsContra:            d.IsContra,
		IsActive:            d.IsActive,
		OpeningBalance:      d.OpeningBalance,
		CurrentBalance:      d.CurrentBalance,
		Description:         d.Description,
		InvestorName:        d.InvestorName,
		OwnershipPercentage: d.OwnershipPercentage,
		ParentAccountID:     d.ParentAccountID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account.
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:           m.AccountID,
		CompanyID:           m.CompanyID,
		AccountCode:         m.AccountCode,
		Name:                m.Name,
		AccountType:         domain.AccountType(m.AccountType),
		IsContra:            m.IsContra,
		IsActive:            m.IsActive,
		OpeningBalance:      m.OpeningBalance,
		CurrentBalance:      m.CurrentBalance,
		Description:         m.Description,
		InvestorName:        m.InvestorName,
		OwnershipPercentage: m.OwnershipPercentage,
		ParentAccountID:     m.ParentAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// nullable converts an empty string to a NULL parameter.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// scanAccount scans one account row into a domain.Account.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	var investorName, parentID sql.NullString

	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.AccountCode,
		&m.Name,
		&m.AccountType,
		&m.IsContra,
		&m.IsActive,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&m.Description,
		&investorName,
		&m.OwnershipPercentage,
		&parentID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}

	m.InvestorName = investorName.String
	m.ParentAccountID = parentID.String
	return toDomainAccount(m), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.CompanyID,
		m.AccountCode,
		m.Name,
		m.AccountType,
		m.IsContra,
		m.IsActive,
		m.OpeningBalance,
		m.CurrentBalance,
		m.Description,
		nullable(m.InvestorName),
		m.OwnershipPercentage,
		nullable(m.ParentAccountID),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, m.AccountCode)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &account, nil
}

// FindAccountByCode retrieves an account by its generated code within a company.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, companyID string, accountCode string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND account_code = $2;`

	account, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, accountCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", accountCode, err)
	}
	return &account, nil
}

// FindAccountByName retrieves an active account by name and type within a
// company. Used by strategies that reuse accounts instead of duplicating them.
func (r *PgxAccountRepository) FindAccountByName(ctx context.Context, companyID string, name string, accountType domain.AccountType) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND name = $2 AND account_type = $3 AND is_active = TRUE
		ORDER BY created_at
		LIMIT 1;
	`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, companyID, name, string(accountType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by name %q: %w", name, err)
	}
	return &account, nil
}

func collectAccounts(rows pgx.Rows) (map[string]domain.Account, error) {
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accountsMap[account.AccountID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accountsMap, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. IDs without a
// matching row are simply absent from the map; the caller decides whether
// that is an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	return collectAccounts(rows)
}

// ListAccounts retrieves a paginated list of active accounts for a company.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY account_code
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for company %s: %w", companyID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for company %s: %w", companyID, err)
		}
		accounts = append(accounts, account)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for company %s: %w", companyID, rows.Err())
	}
	return accounts, nil
}

// ListAccountsByType retrieves all accounts of one type for a company,
// including inactive ones. Ordered by account code for deterministic fan-outs.
func (r *PgxAccountRepository) ListAccountsByType(ctx context.Context, companyID string, accountType domain.AccountType) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND account_type = $2
		ORDER BY account_code;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, string(accountType))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s accounts for company %s: %w", accountType, companyID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s account row: %w", accountType, err)
		}
		accounts = append(accounts, account)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating %s account rows: %w", accountType, rows.Err())
	}
	return accounts, nil
}

// UpdateAccount updates an existing account's editable fields.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		UPDATE accounts
		SET account_code = $2, name = $3, account_type = $4, description = $5,
		    investor_name = $6, ownership_percentage = $7, is_active = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.AccountCode,
		m.Name,
		m.AccountType,
		m.Description,
		nullable(m.InvestorName),
		m.OwnershipPercentage,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, m.AccountCode)
		}
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustBalance applies a signed delta as a single atomic increment.
func (r *PgxAccountRepository) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET current_balance = COALESCE(current_balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, delta, now, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the account does not exist or it was already inactive.
		if _, findErr := r.FindAccountByID(ctx, accountID); findErr != nil {
			if errors.Is(findErr, apperrors.ErrNotFound) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to check account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrConflict, accountID)
	}
	return nil
}

// NextCodeNumber returns the next numeric suffix for the given code prefix,
// counting soft-deleted accounts so codes are never reused.
func (r *PgxAccountRepository) NextCodeNumber(ctx context.Context, companyID string, prefix string) (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(account_code FROM 2) AS INTEGER)), 0) + 1
		FROM accounts
		WHERE company_id = $1 AND LEFT(account_code, 1) = $2;
	`
	var next int
	if err := r.Pool.QueryRow(ctx, query, companyID, prefix).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute next account code for prefix %s: %w", prefix, err)
	}
	return next, nil
}

// CountPostedLines counts the ledger lines that reference the account on
// POSTED transactions. Voided lines do not block deletion or type changes.
func (r *PgxAccountRepository) CountPostedLines(ctx context.Context, accountID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transaction_lines tl
		JOIN transactions t ON t.transaction_id = tl.transaction_id
		WHERE tl.account_id = $1 AND t.status = 'POSTED';
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ledger lines for account %s: %w", accountID, err)
	}
	return count, nil
}

// CountChildAccounts counts accounts whose parent is the given account.
func (r *PgxAccountRepository) CountChildAccounts(ctx context.Context, accountID string) (int64, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE parent_account_id = $1;`

	var count int64
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count child accounts for account %s: %w", accountID, err)
	}
	return count, nil
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the
// rows for update. Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) FOR UPDATE;`

	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	accountsMap, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	if len(accountsMap) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// UpdateAccountBalancesInTx applies balance deltas for multiple accounts
// within the caller's transaction, batched into one round trip.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET current_balance = COALESCE(current_balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if !delta.IsZero() {
			batch.Queue(query, accountID, delta, now, userID)
			accountIDs = append(accountIDs, accountID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
