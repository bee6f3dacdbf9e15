package domain_test

import (
	"testing"
	"time"

	"bizledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountTypeCodePrefix(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        string
	}{
		{domain.Asset, "A"},
		{domain.Liability, "L"},
		{domain.Equity, "E"},
		{domain.Revenue, "R"},
		{domain.Expense, "X"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.accountType.CodePrefix())
	}
	assert.Empty(t, domain.AccountType("BOGUS").CodePrefix())
}

func TestEntryKindNumberPrefix(t *testing.T) {
	tests := []struct {
		kind domain.EntryKind
		want string
	}{
		{domain.KindGeneral, "TXN"},
		{domain.KindLiability, "LIA"},
		{domain.KindMicro, "MIC"},
		{domain.KindInvestment, "INV"},
		{domain.KindInvestorExit, "EXT"},
		{domain.KindDistribution, "DIV"},
		{domain.KindProtection, "PRT"},
		{domain.EntryKind("UNKNOWN"), "TXN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.NumberPrefix())
	}
}

func TestTransactionLineValidate(t *testing.T) {
	t.Run("debit only is valid", func(t *testing.T) {
		line := domain.TransactionLine{AccountID: "a", DebitAmount: decimal.NewFromInt(10)}
		assert.NoError(t, line.Validate())
	})

	t.Run("credit only is valid", func(t *testing.T) {
		line := domain.TransactionLine{AccountID: "a", CreditAmount: decimal.NewFromInt(10)}
		assert.NoError(t, line.Validate())
	})

	t.Run("both sides set is invalid", func(t *testing.T) {
		line := domain.TransactionLine{AccountID: "a", DebitAmount: decimal.NewFromInt(10), CreditAmount: decimal.NewFromInt(10)}
		assert.Error(t, line.Validate())
	})

	t.Run("neither side set is invalid", func(t *testing.T) {
		line := domain.TransactionLine{AccountID: "a"}
		assert.Error(t, line.Validate())
	})

	t.Run("negative amount is invalid", func(t *testing.T) {
		line := domain.TransactionLine{AccountID: "a", DebitAmount: decimal.NewFromInt(-5)}
		assert.Error(t, line.Validate())
	})

	t.Run("missing account is invalid", func(t *testing.T) {
		line := domain.TransactionLine{DebitAmount: decimal.NewFromInt(5)}
		assert.Error(t, line.Validate())
	})
}

func TestPeriodContains(t *testing.T) {
	period := domain.AccountingPeriod{
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, period.Contains(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, period.Contains(time.Date(2026, 6, 30, 23, 0, 0, 0, time.UTC)))
	assert.True(t, period.Contains(time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIsInvestorStake(t *testing.T) {
	stake := domain.Account{AccountType: domain.Equity, OwnershipPercentage: decimal.NewFromInt(25)}
	assert.True(t, stake.IsInvestorStake())

	plainEquity := domain.Account{AccountType: domain.Equity}
	assert.False(t, plainEquity.IsInvestorStake())

	asset := domain.Account{AccountType: domain.Asset, OwnershipPercentage: decimal.NewFromInt(25)}
	assert.False(t, asset.IsInvestorStake())
}
