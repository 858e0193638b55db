package folio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a display value: it never feeds back into money arithmetic.
type Percent float64

var hundred = decimal.NewFromInt(100)

// percent returns num/den as a percentage, or 0 when den is zero.
func percent(num, den decimal.Decimal) Percent {
	if den.IsZero() {
		return 0
	}
	return Percent(num.Div(den).Mul(hundred).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
