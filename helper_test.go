package folio

import (
	"testing"
	"time"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// dec is a helper for test to create a decimal from const
func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// jan returns a day of January 2025.
func jan(day int) date.Date { return date.New(2025, time.January, day) }

// must panics if err is not nil.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// funded returns a USD portfolio with cash as initial cash.
func funded(t *testing.T, cash float64) Portfolio {
	t.Helper()
	return must(New("USD").SetInitialCash(USD(cash)))
}

// last returns the last holding of p.
func last(t *testing.T, p Portfolio) Holding {
	t.Helper()
	if p.Len() == 0 {
		t.Fatalf("portfolio has no holdings")
	}
	return p.Holdings()[p.Len()-1]
}
