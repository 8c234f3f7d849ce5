package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds a monetary amount to 2 decimal places, half up. Applied once
// per derived value; never re-round an already-rounded intermediate.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineSubtotal computes quantity * unitPrice. Callers guarantee non-negative
// inputs; the ledger rejects bad quantities before reaching here.
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// TaxAmount computes the tax on a base amount at the given percentage rate,
// rounded to 2 decimals. This is the single rounding pass for a tax value.
func TaxAmount(base, ratePercent decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(ratePercent).Div(hundred))
}

// LineTotal is the line subtotal plus its rounded tax amount.
func LineTotal(quantity int, unitPrice, ratePercent decimal.Decimal) decimal.Decimal {
	sub := LineSubtotal(quantity, unitPrice)
	return sub.Add(TaxAmount(sub, ratePercent))
}

// FormatINR renders an amount as "Rs. 1,18,000.00" with Indian digit
// grouping. Both invoice renderers format money through this one rule.
func FormatINR(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	// Indian grouping: last group of 3, then groups of 2.
	var b strings.Builder
	n := len(intPart)
	if n > 3 {
		head := intPart[:n-3]
		for i, r := range head {
			if (len(head)-i)%2 == 0 && i != 0 {
				b.WriteByte(',')
			}
			b.WriteRune(r)
		}
		b.WriteByte(',')
		b.WriteString(intPart[n-3:])
	} else {
		b.WriteString(intPart)
	}

	out := "Rs. " + b.String() + fracPart
	if neg {
		out = "Rs. -" + b.String() + fracPart
	}
	return out
}
