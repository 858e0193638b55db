package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/folio"
)

// SummaryMarkdown renders the portfolio figures followed by the holdings table.
func SummaryMarkdown(p folio.Portfolio) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio Summary (v%d)\n\n", p.Version())
	if !p.Active() {
		fmt.Fprint(&b, "No initial cash yet, set it up with `pcs init -a <amount>`.\n\n")
	}

	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Initial Investment | %s |\n", p.InitialCash())
	fmt.Fprintf(&b, "| Total Portfolio Value | %s |\n", p.TotalValue())
	fmt.Fprintf(&b, "| Total Performance | %s |\n", p.TotalPortfolioPerformance().SignedString())
	fmt.Fprintf(&b, "| Remaining Cash | %s |\n", p.RemainingCash())
	fmt.Fprintf(&b, "| Total Invested | %s |\n", p.TotalInvested())
	fmt.Fprintf(&b, "| Market Value | %s |\n", p.TotalPortfolioValue())
	fmt.Fprintf(&b, "| Unrealized Gain/Loss | %s |\n", p.TotalUnrealizedGainLoss().SignedString())
	fmt.Fprintf(&b, "| Realized Gain/Loss | %s |\n", p.TotalRealizedGainLoss().SignedString())
	fmt.Fprintln(&b)

	ConditionalBlock(&b, func(w *strings.Builder) bool {
		fmt.Fprint(w, "## Holdings\n\n")
		fmt.Fprint(w, HoldingsMarkdown(p))
		return p.Len() > 0
	})
	return b.String()
}
