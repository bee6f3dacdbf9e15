package domain

import "time"

// AccountingPeriod is a date-range bucket transactions are assigned to.
// Periods are created lazily: when no period covers a transaction date, a
// one-day period is created for it.
type AccountingPeriod struct {
	PeriodID  string    `json:"periodID"`
	CompanyID string    `json:"companyID"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsClosed  bool      `json:"isClosed"`
	AuditFields
}

// Contains reports whether the given date falls inside the period,
// inclusive of both bounds. Comparison is by calendar day.
func (p AccountingPeriod) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate.Truncate(24*time.Hour)) && !d.After(p.EndDate.Truncate(24*time.Hour))
}
