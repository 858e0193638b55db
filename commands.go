package folio

import (
	"slices"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Command is a state transition of the portfolio.
//
// Commands are plain values: they can be built by hand, validated against a
// snapshot and applied with Apply.
type Command interface {
	// What returns the command name.
	What() string
	// Validate checks the command against the snapshot it will be applied to.
	Validate(p Portfolio) error

	apply(p Portfolio) Portfolio
}

// Quotes maps an upper-case ticker to its last traded price.
type Quotes map[string]decimal.Decimal

// normalizeTicker returns the canonical form of a ticker.
func normalizeTicker(ticker string) string { return strings.ToUpper(strings.TrimSpace(ticker)) }

func checkCurrency(op, field string, m Money, p Portfolio) error {
	if m.cur != "" && m.cur != p.cur {
		return invalid(op, field, "is in %s, the portfolio is in %s", m.cur, p.cur)
	}
	return nil
}

// checkLot validates the ticker, shares and price of a lot.
func checkLot(op, ticker string, shares Quantity, price Money, p Portfolio) error {
	if normalizeTicker(ticker) == "" {
		return invalid(op, "ticker", "must not be empty")
	}
	if !shares.IsPositive() {
		return invalid(op, "shares", "must be positive, got %v", shares)
	}
	if !price.IsPositive() {
		return invalid(op, "price", "must be positive, got %v", price.value)
	}
	return checkCurrency(op, "price", price, p)
}

// --- SetCash ---

// SetCash sets the initial cash of the portfolio.
//
// On an inactive portfolio it also sets the remaining cash. On an active
// portfolio it only changes the initial cash and recomputes the performance.
type SetCash struct {
	Amount Money
}

func NewSetCash(amount Money) SetCash { return SetCash{Amount: amount} }

func (SetCash) What() string { return "set-cash" }

func (c SetCash) Validate(p Portfolio) error {
	if c.Amount.IsNegative() {
		return invalid(c.What(), "amount", "must not be negative, got %v", c.Amount.value)
	}
	if p.Active() && c.Amount.IsZero() {
		return invalid(c.What(), "amount", "must be positive once the portfolio is active")
	}
	return checkCurrency(c.What(), "amount", c.Amount, p)
}

func (c SetCash) apply(p Portfolio) Portfolio {
	amount := c.Amount.in(p.cur)
	if !p.Active() {
		p.initialCash = amount
		p.remainingCash = amount
		p.totalPerformance = 0
		return p
	}
	p.initialCash = amount
	p.totalPerformance = percent(p.TotalValue().Sub(amount).value, amount.value)
	return p
}

// --- Buy ---

// Buy purchases shares of a ticker, opening a new holding.
type Buy struct {
	ID     string // optional, a random one is assigned when empty
	Date   date.Date
	Ticker string
	Shares Quantity
	Price  Money // per share
}

func NewBuy(day date.Date, ticker string, shares Quantity, price Money) Buy {
	return Buy{Date: day, Ticker: ticker, Shares: shares, Price: price}
}

func (Buy) What() string { return "buy" }

// Cost returns Shares * Price.
func (c Buy) Cost() Money { return c.Price.Mul(c.Shares) }

func (c Buy) Validate(p Portfolio) error {
	if err := checkLot(c.What(), c.Ticker, c.Shares, c.Price, p); err != nil {
		return err
	}
	if c.ID != "" && p.indexOf(c.ID) >= 0 {
		return invalid(c.What(), "id", "%q already exists", c.ID)
	}
	return nil
}

func (c Buy) apply(p Portfolio) Portfolio {
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	h := Holding{
		ID:            id,
		Ticker:        normalizeTicker(c.Ticker),
		Shares:        c.Shares,
		PricePerShare: c.Price.in(p.cur),
		CostBasis:     c.Cost().in(p.cur),
		PurchaseDate:  c.Date,
	}
	p.holdings = append(p.Holdings(), h)
	p.remainingCash = p.remainingCash.Sub(h.CostBasis).floor()
	return p
}

// --- Edit ---

// Edit replaces the ticker, shares, price and date of an existing holding.
type Edit struct {
	ID     string
	Date   date.Date
	Ticker string
	Shares Quantity
	Price  Money // per share
}

// NewEdit returns the command that replaces the holding h.ID with h.
// The cost basis of h is ignored, it is recomputed from shares and price.
func NewEdit(h Holding) Edit {
	return Edit{ID: h.ID, Date: h.PurchaseDate, Ticker: h.Ticker, Shares: h.Shares, Price: h.PricePerShare}
}

func (Edit) What() string { return "edit" }

// Cost returns Shares * Price.
func (c Edit) Cost() Money { return c.Price.Mul(c.Shares) }

func (c Edit) Validate(p Portfolio) error {
	if p.indexOf(c.ID) < 0 {
		return &NotFoundError{Op: c.What(), ID: c.ID}
	}
	return checkLot(c.What(), c.Ticker, c.Shares, c.Price, p)
}

func (c Edit) apply(p Portfolio) Portfolio {
	i := p.indexOf(c.ID)
	old := p.holdings[i]
	h := Holding{
		ID:            old.ID,
		Ticker:        normalizeTicker(c.Ticker),
		Shares:        c.Shares,
		PricePerShare: c.Price.in(p.cur),
		CostBasis:     c.Cost().in(p.cur),
		PurchaseDate:  c.Date,
	}
	if h.Ticker == old.Ticker {
		h.Price = old.Price
	}
	p.holdings = p.Holdings()
	p.holdings[i] = h
	p.remainingCash = p.remainingCash.Add(old.CostBasis).Sub(h.CostBasis).floor()
	return p
}

// --- Sell ---

// Sell sells some or all the shares of a holding.
type Sell struct {
	ID     string
	Date   date.Date
	Shares Quantity
	Price  Money // per share
}

func NewSell(day date.Date, id string, shares Quantity, price Money) Sell {
	return Sell{ID: id, Date: day, Shares: shares, Price: price}
}

func (Sell) What() string { return "sell" }

// Proceeds returns Shares * Price.
func (c Sell) Proceeds() Money { return c.Price.Mul(c.Shares) }

func (c Sell) Validate(p Portfolio) error {
	if !c.Shares.IsPositive() {
		return invalid(c.What(), "shares", "must be positive, got %v", c.Shares)
	}
	if !c.Price.IsPositive() {
		return invalid(c.What(), "price", "must be positive, got %v", c.Price.value)
	}
	if err := checkCurrency(c.What(), "price", c.Price, p); err != nil {
		return err
	}
	h, ok := p.Holding(c.ID)
	if !ok {
		return &NotFoundError{Op: c.What(), ID: c.ID}
	}
	if c.Shares.GreaterThan(h.Shares) {
		return invalid(c.What(), "shares", "%v exceeds the %v shares held", c.Shares, h.Shares)
	}
	return nil
}

func (c Sell) apply(p Portfolio) Portfolio {
	i := p.indexOf(c.ID)
	h := p.holdings[i]
	proceeds := c.Proceeds().in(p.cur)
	// cost of the shares sold, at the holding's per share cost basis.
	soldCost := h.CostBasis.Mul(c.Shares).Div(h.Shares)

	p.holdings = p.Holdings()
	remaining := h.Shares.Sub(c.Shares)
	if remaining.IsPositive() {
		h.CostBasis = h.CostBasis.Mul(remaining).Div(h.Shares)
		h.Shares = remaining
		p.holdings[i] = h
	} else {
		p.holdings = slices.Delete(p.holdings, i, i+1)
	}
	p.remainingCash = p.remainingCash.Add(proceeds)
	p.totalRealized = p.totalRealized.Add(proceeds.Sub(soldCost))
	return p
}

// --- Delete ---

// Delete removes a holding and refunds its cost basis, as if it was never bought.
type Delete struct {
	ID string
}

func NewDelete(id string) Delete { return Delete{ID: id} }

func (Delete) What() string { return "delete" }

func (c Delete) Validate(p Portfolio) error {
	if p.indexOf(c.ID) < 0 {
		return &NotFoundError{Op: c.What(), ID: c.ID}
	}
	return nil
}

func (c Delete) apply(p Portfolio) Portfolio {
	i := p.indexOf(c.ID)
	h := p.holdings[i]
	p.holdings = slices.Delete(p.Holdings(), i, i+1)
	p.remainingCash = p.remainingCash.Add(h.CostBasis)
	return p
}

// --- UpdatePrices ---

// UpdatePrices merges quotes into the holdings' current prices.
//
// A ticker missing from the quotes, or quoted with a non positive price,
// keeps its last known price.
type UpdatePrices struct {
	Quotes Quotes
}

func NewUpdatePrices(q Quotes) UpdatePrices { return UpdatePrices{Quotes: q} }

func (UpdatePrices) What() string { return "update-prices" }

func (UpdatePrices) Validate(Portfolio) error { return nil }

func (c UpdatePrices) apply(p Portfolio) Portfolio {
	quotes := make(Quotes, len(c.Quotes))
	for ticker, price := range c.Quotes {
		if price.IsPositive() {
			quotes[normalizeTicker(ticker)] = price
		}
	}
	p.holdings = p.Holdings()
	for i, h := range p.holdings {
		if price, ok := quotes[h.Ticker]; ok {
			p.holdings[i].Price = M(price, p.cur)
		}
	}
	return p
}

// check that commands implement the interface.
var (
	_ Command = SetCash{}
	_ Command = Buy{}
	_ Command = Edit{}
	_ Command = Sell{}
	_ Command = Delete{}
	_ Command = UpdatePrices{}
)
