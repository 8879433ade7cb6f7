package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voucherworks/voucher_ledger_app/internal/utils/money"
)

func TestIsEqualIsExact(t *testing.T) {
	testCases := []struct {
		name  string
		a     string
		b     string
		equal bool
	}{
		{"identical", "1000.00", "1000.00", true},
		{"different scale same value", "1000.0", "1000.00", true},
		{"integer vs scaled", "1000", "1000.00", true},
		{"off by smallest unit", "1000.00", "1000.01", false},
		{"tiny drift is not tolerated", "0.1", "0.10000000000000001", false},
		{"sign matters", "-5", "5", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := money.MustParse(tc.a)
			b := money.MustParse(tc.b)
			assert.Equal(t, tc.equal, money.IsEqual(a, b))
		})
	}
}

func TestAddSubtractDoNotDrift(t *testing.T) {
	// 0.1 + 0.2 is the classic binary float failure. Repeat it across a long
	// chain, as a reversal chain would.
	sum := money.Zero
	increment := money.MustParse("0.1")
	for i := 0; i < 1000; i++ {
		sum = money.Add(sum, increment)
	}
	assert.True(t, money.IsEqual(sum, money.MustParse("100")))

	for i := 0; i < 1000; i++ {
		sum = money.Subtract(sum, increment)
	}
	assert.True(t, money.IsZero(sum))
}

func TestSum(t *testing.T) {
	total := money.Sum(
		money.MustParse("400.00"),
		money.MustParse("600.00"),
	)
	assert.True(t, money.IsEqual(total, money.MustParse("1000.00")))
	assert.True(t, money.IsZero(money.Sum()))
}

func TestParse(t *testing.T) {
	d, err := money.Parse("123.45")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("123.45")))

	_, err = money.Parse("12a.45")
	assert.Error(t, err)
}

func TestIsPositive(t *testing.T) {
	assert.True(t, money.IsPositive(money.MustParse("0.01")))
	assert.False(t, money.IsPositive(money.Zero))
	assert.False(t, money.IsPositive(money.MustParse("-0.01")))
}
