package domain

// Company scopes every other entity. The two designated account references
// implement the implied-contra policy: single-leg legacy entries post their
// contra side to the control account, and equity fan-out operations draw
// against the retained earnings account.
type Company struct {
	CompanyID                 string `json:"companyID"`
	Name                      string `json:"name"`
	ControlAccountID          string `json:"controlAccountID"`          // Nullable until designated
	RetainedEarningsAccountID string `json:"retainedEarningsAccountID"` // Nullable until designated
	AuditFields
}
