package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/folio"
)

// HoldingsMarkdown renders one row per holding, in purchase order.
//
// The ID column is what edit, sell and delete commands expect.
func HoldingsMarkdown(p folio.Portfolio) string {
	return HoldingsTable(p.Holdings())
}

// HoldingsTable renders one row per holding in hs.
func HoldingsTable(hs []folio.Holding) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| Ticker | Shares | Price Paid | Cost Basis | Current Price | Market Value | Gain/Loss | Purchased | ID |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|:---:|:---|")

	for _, h := range hs {
		price, value, gain := "-", "-", "-"
		if h.IsPriced() {
			price = h.Price.String()
			value = h.MarketValue().String()
			gain = fmt.Sprintf("%s (%s)", h.UnrealizedGainLoss().SignedString(), h.UnrealizedPercent().SignedString())
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | `%s` |\n",
			h.Ticker,
			h.Shares,
			h.PricePerShare,
			h.CostBasis,
			price,
			value,
			gain,
			h.PurchaseDate,
			h.ID,
		)
	}
	return b.String()
}
