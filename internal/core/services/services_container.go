package services

import (
	portsrepo "bizledger/internal/core/ports/repositories"
	portssvc "bizledger/internal/core/ports/services"
)

// NewServiceContainer wires the service graph. The ledger engine sits at the
// center; the strategies only ever mutate balances through it.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Company = NewCompanyService(repos.CompanyRepo, repos.AccountRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Period = NewPeriodService(repos.PeriodRepo)
	container.Ledger = NewLedgerService(repos.TxnRepo, container.Account, container.Period)
	container.Strategy = NewStrategyService(container.Ledger, container.Account, container.Company, repos.AccountRepo)

	return container
}
