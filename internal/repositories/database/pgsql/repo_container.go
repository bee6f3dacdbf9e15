package pgsql

import (
	portsrepo "bizledger/internal/core/ports/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories. The transaction
// repository shares the account repository so that posting and voiding can
// lock and adjust account rows inside their own database transactions.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	txnRepo := newPgxTransactionRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		CompanyRepo: companyRepo,
		AccountRepo: accountRepo,
		PeriodRepo:  periodRepo,
		TxnRepo:     txnRepo,
	}
}
