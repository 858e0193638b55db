package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

func USD(v float64) folio.Money { return folio.M(v, "USD") }

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// sample holds 2 AAPL quoted at 120 and 1 unpriced MSFT.
func sample() folio.Portfolio {
	day := date.New(2025, time.January, 10)
	p := must(folio.New("USD").SetInitialCash(USD(1000)))
	p = must(p.BuyStock("AAPL", folio.Q(2), USD(100), day))
	p = must(p.BuyStock("MSFT", folio.Q(1), USD(50), day))
	return must(p.ApplyQuotes(folio.Quotes{"AAPL": decimal.NewFromInt(120)}))
}

func TestHoldingsMarkdown(t *testing.T) {
	p := sample()
	got := HoldingsMarkdown(p)

	for _, want := range []string{
		"| AAPL | 2 | $100.00 | $200.00 | $120.00 | $240.00 | +$40.00 (+20.00%) | 2025-01-10 |",
		"| MSFT | 1 | $50.00 | $50.00 | - | - | - | 2025-01-10 |",
		"`" + p.Holdings()[0].ID + "`",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HoldingsMarkdown() =\n%s\nwant it to contain %q", got, want)
		}
	}
}

func TestSummaryMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		p       folio.Portfolio
		want    []string
		notWant []string
	}{
		{
			name:    "new",
			p:       folio.New("USD"),
			want:    []string{"# Portfolio Summary (v0)", "pcs init"},
			notWant: []string{"## Holdings"},
		},
		{
			name: "holdings",
			p:    sample(),
			want: []string{
				"# Portfolio Summary (v4)",
				"| Initial Investment | $1,000.00 |",
				"| Total Portfolio Value | $990.00 |",
				"| Remaining Cash | $750.00 |",
				"| Unrealized Gain/Loss | +$40.00 |",
				"| Realized Gain/Loss | - |",
				"## Holdings",
			},
			notWant: []string{"pcs init"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummaryMarkdown(tt.p)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("SummaryMarkdown() =\n%s\nwant it to contain %q", got, want)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(got, notWant) {
					t.Errorf("SummaryMarkdown() =\n%s\nwant it not to contain %q", got, notWant)
				}
			}
		})
	}
}

func TestHTML(t *testing.T) {
	got, err := HTML("Q1 <report>", SummaryMarkdown(sample()))
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	for _, want := range []string{"<title>Q1 &lt;report&gt;</title>", "<h1>Portfolio Summary (v4)</h1>", "<table>", "AAPL"} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML() =\n%s\nwant it to contain %q", got, want)
		}
	}
}
