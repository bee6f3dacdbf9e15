package repositories

// RepositoryProvider holds the repository interfaces the services need.
// This keeps the service container constructor signature flat.
type RepositoryProvider struct {
	CompanyRepo CompanyRepository
	AccountRepo AccountRepository
	PeriodRepo  PeriodRepository
	TxnRepo     TransactionRepository
}
