// Package money holds currency helpers on top of shopspring/decimal.
package money

import (
	"github.com/shopspring/decimal"
)

// Places is the minor-unit precision of every stored amount.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Round rounds half away from zero to Places (1.275 -> 1.28). Amounts are
// never negative, so this is the usual half-up rule.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Percent returns amount * rate / 100 without rounding.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

func Sum(ds ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

// Parse accepts "12.50" style strings.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// RateInRange reports whether a commission percentage is within [0,100].
func RateInRange(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
}
