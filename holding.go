package folio

import (
	"github.com/etnz/folio/date"
)

// Holding is one purchased, and not fully sold, lot of a ticker.
type Holding struct {
	ID            string
	Ticker        string
	Shares        Quantity
	PricePerShare Money
	CostBasis     Money // Shares * PricePerShare, rescaled on partial sales.
	PurchaseDate  date.Date

	// Price is the last known market price. The zero value means the
	// holding has never been priced.
	Price Money
}

// IsPriced reports whether a quote was ever merged into this holding.
func (h Holding) IsPriced() bool { return h.Price.IsPositive() }

// MarketValue is Shares * Price, or zero if the holding is unpriced.
func (h Holding) MarketValue() Money {
	if !h.IsPriced() {
		return h.CostBasis.Sub(h.CostBasis)
	}
	return h.Price.Mul(h.Shares)
}

// UnrealizedGainLoss is MarketValue - CostBasis, or zero if the holding is unpriced.
func (h Holding) UnrealizedGainLoss() Money {
	if !h.IsPriced() {
		return h.CostBasis.Sub(h.CostBasis)
	}
	return h.MarketValue().Sub(h.CostBasis)
}

// UnrealizedPercent is the price move relative to the purchase price.
func (h Holding) UnrealizedPercent() Percent {
	if !h.IsPriced() {
		return 0
	}
	return percent(h.Price.Sub(h.PricePerShare).value, h.PricePerShare.value)
}

// CostPerShare returns CostBasis / Shares.
func (h Holding) CostPerShare() Money {
	if h.Shares.IsZero() {
		return h.CostBasis
	}
	return h.CostBasis.Div(h.Shares)
}

// equal compares two holdings numerically.
func (h Holding) equal(o Holding) bool {
	return h.ID == o.ID &&
		h.Ticker == o.Ticker &&
		h.Shares.Equal(o.Shares) &&
		h.PricePerShare.Equal(o.PricePerShare) &&
		h.CostBasis.Equal(o.CostBasis) &&
		h.PurchaseDate == o.PurchaseDate &&
		h.Price.Equal(o.Price)
}
