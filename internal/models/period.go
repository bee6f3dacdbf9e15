package models

import "time"

// AccountingPeriod groups transactions by date range within a company.
type AccountingPeriod struct {
	PeriodID  string    `db:"period_id"`
	CompanyID string    `db:"company_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsClosed  bool      `db:"is_closed"`
	AuditFields
}
