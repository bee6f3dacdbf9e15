package accounting

import (
	"fmt"

	"bizledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// BalanceEpsilon is the tolerance used when comparing the debit and credit
// totals of an entry: 0.01 currency units.
var BalanceEpsilon = decimal.New(1, -2)

// SignedDelta returns the balance effect of a transaction line on an account
// of the given type.
//
// The canonical sign convention:
//
//	DEBIT  to ASSET/EXPENSE            -> balance increases
//	CREDIT to ASSET/EXPENSE            -> balance decreases
//	DEBIT  to LIABILITY/EQUITY/REVENUE -> balance decreases
//	CREDIT to LIABILITY/EQUITY/REVENUE -> balance increases
//
// Liability balances are stored positive ("amount owed") and debits pay them
// down; expense balances are stored negative and debits move them toward zero.
func SignedDelta(line domain.TransactionLine, accountType domain.AccountType) (decimal.Decimal, error) {
	amount := line.Amount()
	isDebit := line.IsDebit()

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			amount = amount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			amount = amount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account ID %s", accountType, line.AccountID)
	}
	return amount, nil
}

// ValidateEntryBalance checks the double-entry invariant over a set of lines:
// every line carries exactly one positive side, and total debits equal total
// credits within BalanceEpsilon.
func ValidateEntryBalance(lines []domain.TransactionLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("entry must have at least one line")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
		debits = debits.Add(line.DebitAmount)
		credits = credits.Add(line.CreditAmount)
	}

	if debits.Sub(credits).Abs().GreaterThan(BalanceEpsilon) {
		return fmt.Errorf("debits sum to %s but credits sum to %s", debits.String(), credits.String())
	}
	return nil
}

// ProportionalShares splits total across weights, rounding each share to two
// decimal places and assigning any rounding remainder to the largest weight
// so the shares always sum exactly to total. A zero weight yields a zero
// share and never absorbs the remainder. Used by profit distribution
// (weights = ownership percentages) and asset protection (weights = equity
// balances).
func ProportionalShares(total decimal.Decimal, weights []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("no shares to distribute across")
	}

	weightSum := decimal.Zero
	largest := 0
	for i, w := range weights {
		if w.IsNegative() {
			return nil, fmt.Errorf("share weight must not be negative")
		}
		weightSum = weightSum.Add(w)
		if w.GreaterThan(weights[largest]) {
			largest = i
		}
	}
	if !weightSum.IsPositive() {
		return nil, fmt.Errorf("share weights sum to zero")
	}

	shares := make([]decimal.Decimal, len(weights))
	allocated := decimal.Zero
	for i, w := range weights {
		shares[i] = total.Mul(w).Div(weightSum).Round(2)
		allocated = allocated.Add(shares[i])
	}
	shares[largest] = shares[largest].Add(total.Sub(allocated))
	return shares, nil
}
