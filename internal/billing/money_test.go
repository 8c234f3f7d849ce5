package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineSubtotal(t *testing.T) {
	require.True(t, dec("1000").Equal(LineSubtotal(2, dec("500"))))
	require.True(t, dec("0").Equal(LineSubtotal(0, dec("500"))))
	require.True(t, dec("299.97").Equal(LineSubtotal(3, dec("99.99"))))
}

func TestTaxAmountRoundsHalfUpOnce(t *testing.T) {
	// 2 x 500 @ 18% -> 180.00
	require.Equal(t, "180", TaxAmount(dec("1000"), dec("18")).String())

	// Half-up at the third decimal: 33.33 * 7.5% = 2.49975 -> 2.50
	require.Equal(t, "2.5", TaxAmount(dec("33.33"), dec("7.5")).String())

	// 0.125 rounds up, not to even
	require.Equal(t, "0.13", TaxAmount(dec("2.5"), dec("5")).String())
}

func TestLineTotal(t *testing.T) {
	require.Equal(t, "1180", LineTotal(2, dec("500"), dec("18")).String())
}

func TestFormatINR(t *testing.T) {
	require.Equal(t, "Rs. 0.00", FormatINR(dec("0")))
	require.Equal(t, "Rs. 210.00", FormatINR(dec("210")))
	require.Equal(t, "Rs. 2,210.00", FormatINR(dec("2210")))
	require.Equal(t, "Rs. 1,18,000.00", FormatINR(dec("118000")))
	require.Equal(t, "Rs. 12,34,567.89", FormatINR(dec("1234567.89")))
	require.Equal(t, "Rs. -150.50", FormatINR(dec("-150.5")))
}
