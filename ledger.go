package folio

import (
	"fmt"

	"github.com/etnz/folio/date"
)

// Policy holds the rules applied on top of each command's own validation.
//
// The zero Policy is lenient: a purchase or an edit that costs more than the
// remaining cash is accepted and the remaining cash is clamped to zero.
type Policy struct {
	// StrictCash rejects purchases and edits that cost more than the remaining cash.
	StrictCash bool
}

// Apply validates cmd against p and returns the resulting snapshot.
//
// On error, p is returned unchanged and the error is a *ValidationError or a
// *NotFoundError.
func (pol Policy) Apply(p Portfolio, cmd Command) (Portfolio, error) {
	if err := cmd.Validate(p); err != nil {
		return p, err
	}
	if pol.StrictCash {
		if err := checkCash(p, cmd); err != nil {
			return p, err
		}
	}
	next := cmd.apply(p).revalue()
	next.version = p.version + 1
	return next, nil
}

// Apply applies cmd with the default lenient policy.
func Apply(p Portfolio, cmd Command) (Portfolio, error) { return Policy{}.Apply(p, cmd) }

// checkCash rejects commands consuming more than the remaining cash.
func checkCash(p Portfolio, cmd Command) error {
	var need Money
	switch v := cmd.(type) {
	case Buy:
		need = v.Cost()
	case Edit:
		old, _ := p.Holding(v.ID)
		need = v.Cost().Sub(old.CostBasis)
	default:
		return nil
	}
	if need.in(p.cur).GreaterThan(p.remainingCash) {
		return invalid(cmd.What(), "cost", "%v exceeds the remaining cash %v", need.in(p.cur), p.remainingCash)
	}
	return nil
}

// SetInitialCash sets up the portfolio cash, or edits the initial cash of an active portfolio.
func (p Portfolio) SetInitialCash(amount Money) (Portfolio, error) {
	return Apply(p, NewSetCash(amount))
}

// BuyStock opens a new holding. The new holding is the last one of the result.
func (p Portfolio) BuyStock(ticker string, shares Quantity, price Money, day date.Date) (Portfolio, error) {
	return Apply(p, NewBuy(day, ticker, shares, price))
}

// EditStock replaces the holding with the same ID as h.
func (p Portfolio) EditStock(h Holding) (Portfolio, error) {
	return Apply(p, NewEdit(h))
}

// SellStock sells shares of the holding id.
func (p Portfolio) SellStock(id string, shares Quantity, price Money, day date.Date) (Portfolio, error) {
	return Apply(p, NewSell(day, id, shares, price))
}

// DeleteStock removes the holding id and refunds its cost basis.
func (p Portfolio) DeleteStock(id string) (Portfolio, error) {
	return Apply(p, NewDelete(id))
}

// ApplyQuotes merges the quotes into the holdings' prices.
func (p Portfolio) ApplyQuotes(q Quotes) (Portfolio, error) {
	return Apply(p, NewUpdatePrices(q))
}

// String returns a one line description of the snapshot, for logs.
func (p Portfolio) String() string {
	return fmt.Sprintf("v%d: %d holdings, value %v, cash %v", p.version, len(p.holdings), p.totalValue, p.remainingCash)
}
