package folio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// The snapshot is persisted as a single JSON object. Field names follow the
// portfolio_data format of the browser version so that its backups
// can be restored:
//
//	{"currency":"USD","version":3,"initialCash":1000,"remainingCash":800,
//	 "stocks":[{"id":"…","ticker":"AAPL","shares":2,"pricePerShare":100,
//	            "costBasis":200,"purchaseDate":"2025-01-10","currentPrice":0,
//	            "marketValue":0,"unrealizedGainLoss":0}],
//	 "totalPortfolioValue":0,"totalUnrealizedGainLoss":0,
//	 "totalRealizedGainLoss":0,"totalPortfolioPerformance":0}
//
// Market value, unrealized gain/loss and their totals are written for the
// reader's convenience but are always recomputed when decoding.

func encodeHolding(h Holding) ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", h.ID)
	w.Append("ticker", h.Ticker)
	w.Number("shares", h.Shares.value)
	w.Number("pricePerShare", h.PricePerShare.value)
	w.Number("costBasis", h.CostBasis.value)
	w.Append("purchaseDate", h.PurchaseDate)
	w.Number("currentPrice", h.Price.value)
	w.Number("marketValue", h.MarketValue().value)
	w.Number("unrealizedGainLoss", h.UnrealizedGainLoss().value)
	return w.MarshalJSON()
}

// MarshalJSON implements json.Marshaler.
func (p Portfolio) MarshalJSON() ([]byte, error) {
	stocks := make([]json.RawMessage, 0, len(p.holdings))
	for _, h := range p.holdings {
		raw, err := encodeHolding(h)
		if err != nil {
			return nil, fmt.Errorf("cannot encode holding %q: %w", h.ID, err)
		}
		stocks = append(stocks, raw)
	}

	var w jsonObjectWriter
	w.Append("currency", p.cur)
	w.Append("version", p.version)
	w.Number("initialCash", p.initialCash.value)
	w.Number("remainingCash", p.remainingCash.value)
	w.Append("stocks", stocks)
	w.Number("totalPortfolioValue", p.totalValue.value)
	w.Number("totalUnrealizedGainLoss", p.totalUnrealized.value)
	w.Number("totalRealizedGainLoss", p.totalRealized.value)
	w.Append("totalPortfolioPerformance", float64(p.totalPerformance))
	return w.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Portfolio) UnmarshalJSON(data []byte) error {
	// to parse a json, we use a dedicated local struct with tag annotation.
	type jholding struct {
		ID            string          `json:"id"`
		Ticker        string          `json:"ticker"`
		Shares        decimal.Decimal `json:"shares"`
		PricePerShare decimal.Decimal `json:"pricePerShare"`
		CostBasis     decimal.Decimal `json:"costBasis"`
		PurchaseDate  date.Date       `json:"purchaseDate"`
		CurrentPrice  decimal.Decimal `json:"currentPrice"`
	}
	type jportfolio struct {
		Currency                  string          `json:"currency"`
		Version                   uint64          `json:"version"`
		InitialCash               decimal.Decimal `json:"initialCash"`
		RemainingCash             decimal.Decimal `json:"remainingCash"`
		Stocks                    []jholding      `json:"stocks"`
		TotalRealizedGainLoss     decimal.Decimal `json:"totalRealizedGainLoss"`
		TotalPortfolioPerformance float64         `json:"totalPortfolioPerformance"`
	}

	var jp jportfolio
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}

	q := New(jp.Currency)
	q.version = jp.Version
	q.initialCash = M(jp.InitialCash, q.cur)
	q.remainingCash = M(jp.RemainingCash, q.cur)
	q.totalRealized = M(jp.TotalRealizedGainLoss, q.cur)
	q.totalPerformance = Percent(jp.TotalPortfolioPerformance)
	q.holdings = make([]Holding, 0, len(jp.Stocks))
	for _, js := range jp.Stocks {
		h := Holding{
			ID:            js.ID,
			Ticker:        normalizeTicker(js.Ticker),
			Shares:        Q(js.Shares),
			PricePerShare: M(js.PricePerShare, q.cur),
			CostBasis:     M(js.CostBasis, q.cur),
			PurchaseDate:  js.PurchaseDate,
		}
		if js.CurrentPrice.IsPositive() {
			h.Price = M(js.CurrentPrice, q.cur)
		}
		q.holdings = append(q.holdings, h)
	}
	*p = q.revalue()
	return nil
}

// EncodeSnapshot writes p as a single line of JSON.
func EncodeSnapshot(w io.Writer, p Portfolio) error {
	return json.NewEncoder(w).Encode(p)
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot or WriteBackup,
// and checks its invariants.
func DecodeSnapshot(r io.Reader) (Portfolio, error) {
	var p Portfolio
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Portfolio{}, fmt.Errorf("cannot decode snapshot: %w", err)
	}
	if err := p.Check(); err != nil {
		return Portfolio{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	return p, nil
}

// check that a Portfolio pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Portfolio)(nil)
var _ json.Unmarshaler = (*Portfolio)(nil)
