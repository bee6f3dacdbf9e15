package services

// ServiceContainer aggregates the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Company  CompanySvcFacade
	Account  AccountSvcFacade
	Period   PeriodSvcFacade
	Ledger   LedgerSvcFacade
	Strategy StrategySvcFacade
}
