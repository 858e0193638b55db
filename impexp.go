package folio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// this file contains the backup and reporting export formats.
// Both are views of a snapshot, none of them holds state of its own.

// WriteBackup writes the full snapshot as indented JSON.
func WriteBackup(w io.Writer, p Portfolio) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode backup: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReadBackup reads a backup written by WriteBackup, or by the browser
// application, and checks it is a valid snapshot.
func ReadBackup(r io.Reader) (Portfolio, error) {
	return DecodeSnapshot(r)
}

// csvHeader is the header row of the CSV export.
var csvHeader = []string{
	"Ticker",
	"Shares",
	"Cost Per Share",
	"Total Cost",
	"Current Price",
	"Market Value",
	"Unrealized Gain/Loss %",
	"Purchase Date",
}

// WriteCSV writes one row per holding followed by a blank line and the
// portfolio summary rows.
func WriteCSV(w io.Writer, p Portfolio) error {
	cw := csv.NewWriter(w)
	// rows have different lengths: summary rows are label/value pairs.
	cw.Write(csvHeader)
	for _, h := range p.holdings {
		cw.Write([]string{
			h.Ticker,
			h.Shares.Fixed(2),
			h.PricePerShare.Fixed(2),
			h.CostBasis.Fixed(2),
			h.Price.Fixed(2),
			h.MarketValue().Fixed(2),
			fmt.Sprintf("%.2f%%", float64(h.UnrealizedPercent())),
			h.PurchaseDate.String(),
		})
	}
	cw.Write([]string{""})
	cw.Write([]string{"Portfolio Summary"})
	cw.Write([]string{""})
	cw.Write([]string{"Initial Cash", p.initialCash.Fixed(2)})
	cw.Write([]string{"Remaining Cash", p.remainingCash.Fixed(2)})
	cw.Write([]string{"Total Invested", p.TotalInvested().Fixed(2)})
	cw.Flush()
	return cw.Error()
}
