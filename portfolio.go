package folio

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of portfolios created without one.
const DefaultCurrency = "USD"

// Portfolio is an immutable snapshot of the whole portfolio state.
//
// Its zero value is not usable, create one with New. Operations never modify
// a Portfolio, they return a new one.
type Portfolio struct {
	cur              string
	initialCash      Money
	remainingCash    Money
	holdings         []Holding
	totalValue       Money   // sum of market values, cash excluded
	totalUnrealized  Money   // sum of unrealized gain/loss
	totalRealized    Money   // accumulated realized gain/loss
	totalPerformance Percent // vs initial cash, recomputed on initial cash edit
	version          uint64
}

// New returns an empty, inactive portfolio in currency.
func New(currency string) Portfolio {
	if currency == "" {
		currency = DefaultCurrency
	}
	zero := M(decimal.Zero, currency)
	return Portfolio{
		cur:             currency,
		initialCash:     zero,
		remainingCash:   zero,
		totalValue:      zero,
		totalUnrealized: zero,
		totalRealized:   zero,
	}
}

func (p Portfolio) Currency() string                   { return p.cur }
func (p Portfolio) InitialCash() Money                 { return p.initialCash }
func (p Portfolio) RemainingCash() Money               { return p.remainingCash }
func (p Portfolio) TotalPortfolioValue() Money         { return p.totalValue }
func (p Portfolio) TotalUnrealizedGainLoss() Money     { return p.totalUnrealized }
func (p Portfolio) TotalRealizedGainLoss() Money       { return p.totalRealized }
func (p Portfolio) TotalPortfolioPerformance() Percent { return p.totalPerformance }

// Version is incremented by every accepted command.
func (p Portfolio) Version() uint64 { return p.version }

// Active reports whether the initial cash has been set.
func (p Portfolio) Active() bool { return !p.initialCash.IsZero() }

// TotalValue is the market value of all holdings plus the remaining cash.
func (p Portfolio) TotalValue() Money { return p.totalValue.Add(p.remainingCash) }

// TotalInvested is the cash that left the cash account.
func (p Portfolio) TotalInvested() Money { return p.initialCash.Sub(p.remainingCash) }

// Len returns the number of holdings.
func (p Portfolio) Len() int { return len(p.holdings) }

// Holdings returns a copy of the holdings in purchase order.
func (p Portfolio) Holdings() []Holding { return slices.Clone(p.holdings) }

// Holding returns the holding with this id.
func (p Portfolio) Holding(id string) (Holding, bool) {
	i := p.indexOf(id)
	if i < 0 {
		return Holding{}, false
	}
	return p.holdings[i], true
}

// Tickers returns the sorted set of tickers held.
func (p Portfolio) Tickers() []string {
	tickers := make([]string, 0, len(p.holdings))
	for _, h := range p.holdings {
		tickers = append(tickers, h.Ticker)
	}
	slices.Sort(tickers)
	return slices.Compact(tickers)
}

// Equal reports whether p and q hold the same values.
func (p Portfolio) Equal(q Portfolio) bool {
	return p.cur == q.cur &&
		p.version == q.version &&
		p.initialCash.Equal(q.initialCash) &&
		p.remainingCash.Equal(q.remainingCash) &&
		p.totalValue.Equal(q.totalValue) &&
		p.totalUnrealized.Equal(q.totalUnrealized) &&
		p.totalRealized.Equal(q.totalRealized) &&
		p.totalPerformance == q.totalPerformance &&
		slices.EqualFunc(p.holdings, q.holdings, Holding.equal)
}

func (p Portfolio) indexOf(id string) int {
	return slices.IndexFunc(p.holdings, func(h Holding) bool { return h.ID == id })
}

// zero returns a zero amount in the portfolio currency.
func (p Portfolio) zero() Money { return M(decimal.Zero, p.cur) }

// revalue recomputes the aggregate totals from the holdings' last known prices.
func (p Portfolio) revalue() Portfolio {
	value, unrealized := p.zero(), p.zero()
	for _, h := range p.holdings {
		value = value.Add(h.MarketValue())
		unrealized = unrealized.Add(h.UnrealizedGainLoss())
	}
	p.totalValue = value
	p.totalUnrealized = unrealized
	return p
}
