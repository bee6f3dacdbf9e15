package models

// Company scopes accounts, periods and transactions. The designated account
// columns are nullable until the owner picks them.
type Company struct {
	CompanyID                 string `db:"company_id"`
	Name                      string `db:"name"`
	ControlAccountID          string `db:"control_account_id"`           // Nullable
	RetainedEarningsAccountID string `db:"retained_earnings_account_id"` // Nullable
	AuditFields
}
