package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/google/subcommands"
)

// apply opens the portfolio, runs the command built by build and reports the outcome.
func apply(ctx context.Context, build func(p folio.Portfolio) (folio.Command, error), done func(before, after folio.Portfolio)) subcommands.ExitStatus {
	s, err := openSession(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	before := s.tracker.Snapshot()
	cmd, err := build(before)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	after, err := s.tracker.Do(ctx, cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot %s: %v\n", cmd.What(), err)
		return subcommands.ExitFailure
	}
	done(before, after)
	return subcommands.ExitSuccess
}

// parseDay parses a day, empty means today.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}

// --- Init Command ---

type initCmd struct {
	amount string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "set up or edit the initial cash of the portfolio" }
func (*initCmd) Usage() string {
	return `pcs init -a <amount>

  Sets the initial cash invested in the portfolio. On an active portfolio only
  the initial cash changes, the performance is measured against it.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Initial cash amount, in the portfolio currency")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return apply(ctx, func(p folio.Portfolio) (folio.Command, error) {
		amount, err := folio.ParseMoney("amount", c.amount, p.Currency())
		if err != nil {
			return nil, err
		}
		return folio.NewSetCash(amount), nil
	}, func(_, after folio.Portfolio) {
		fmt.Fprintf(stdout, "Initial cash set to %s, remaining cash is %s\n", after.InitialCash(), after.RemainingCash())
	})
}

// --- Buy Command ---

type buyCmd struct {
	date     string
	security string
	quantity string
	price    string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares of a stock" }
func (*buyCmd) Usage() string {
	return `pcs buy -s <ticker> -q <shares> -p <price> [-d <date>]

  Records a purchase as a new holding. The cost is debited from the remaining cash.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Purchase date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.security, "s", "", "Stock ticker")
	f.StringVar(&c.quantity, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" || c.quantity == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return apply(ctx, func(p folio.Portfolio) (folio.Command, error) {
		if !p.Active() {
			return nil, fmt.Errorf("the portfolio has no initial cash yet, run 'pcs init -a <amount>' first")
		}
		day, err := parseDay(c.date)
		if err != nil {
			return nil, err
		}
		shares, err := folio.ParseQuantity("shares", c.quantity)
		if err != nil {
			return nil, err
		}
		price, err := folio.ParseMoney("price", c.price, p.Currency())
		if err != nil {
			return nil, err
		}
		return folio.NewBuy(day, c.security, shares, price), nil
	}, func(before, after folio.Portfolio) {
		h := after.Holdings()[after.Len()-1]
		fmt.Fprintf(stdout, "Bought %s %s at %s, holding id %s\n", h.Shares, h.Ticker, h.PricePerShare, h.ID)
		fmt.Fprintf(stdout, "Remaining cash is %s\n", after.RemainingCash())
	})
}

// --- Edit Command ---

type editCmd struct {
	id       string
	date     string
	security string
	quantity string
	price    string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "correct a holding" }
func (*editCmd) Usage() string {
	return `pcs edit -id <id> [-s <ticker>] [-q <shares>] [-p <price>] [-d <date>]

  Replaces the given fields of a holding. The remaining cash is adjusted by
  the difference of cost.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Holding id, see 'pcs summary'")
	f.StringVar(&c.date, "d", "", "New purchase date (YYYY-MM-DD)")
	f.StringVar(&c.security, "s", "", "New stock ticker")
	f.StringVar(&c.quantity, "q", "", "New number of shares")
	f.StringVar(&c.price, "p", "", "New price per share")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return apply(ctx, func(p folio.Portfolio) (folio.Command, error) {
		h, ok := p.Holding(c.id)
		if !ok {
			return nil, &folio.NotFoundError{Op: "edit", ID: c.id}
		}
		var err error
		if c.date != "" {
			if h.PurchaseDate, err = date.Parse(c.date); err != nil {
				return nil, err
			}
		}
		if c.security != "" {
			h.Ticker = c.security
		}
		if c.quantity != "" {
			if h.Shares, err = folio.ParseQuantity("shares", c.quantity); err != nil {
				return nil, err
			}
		}
		if c.price != "" {
			if h.PricePerShare, err = folio.ParseMoney("price", c.price, p.Currency()); err != nil {
				return nil, err
			}
		}
		return folio.NewEdit(h), nil
	}, func(_, after folio.Portfolio) {
		h, _ := after.Holding(c.id)
		fmt.Fprintf(stdout, "Holding %s is now %s %s at %s\n", h.ID, h.Shares, h.Ticker, h.PricePerShare)
		fmt.Fprintf(stdout, "Remaining cash is %s\n", after.RemainingCash())
	})
}

// --- Sell Command ---

type sellCmd struct {
	id       string
	date     string
	quantity string
	price    string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of a holding" }
func (*sellCmd) Usage() string {
	return `pcs sell -id <id> -p <price> [-q <shares>] [-d <date>]

  Sells shares of a holding. The proceeds are credited to the remaining cash.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Holding id, see 'pcs summary'")
	f.StringVar(&c.date, "d", "", "Sale date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.quantity, "q", "", "Number of shares, if missing all shares are sold")
	f.StringVar(&c.price, "p", "", "Sale price per share")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return apply(ctx, func(p folio.Portfolio) (folio.Command, error) {
		day, err := parseDay(c.date)
		if err != nil {
			return nil, err
		}
		h, ok := p.Holding(c.id)
		if !ok {
			return nil, &folio.NotFoundError{Op: "sell", ID: c.id}
		}
		shares := h.Shares
		if c.quantity != "" {
			if shares, err = folio.ParseQuantity("shares", c.quantity); err != nil {
				return nil, err
			}
		}
		price, err := folio.ParseMoney("price", c.price, p.Currency())
		if err != nil {
			return nil, err
		}
		return folio.NewSell(day, c.id, shares, price), nil
	}, func(before, after folio.Portfolio) {
		realized := after.TotalRealizedGainLoss().Sub(before.TotalRealizedGainLoss())
		fmt.Fprintf(stdout, "Sold, realized %s\n", realized.SignedString())
		fmt.Fprintf(stdout, "Remaining cash is %s\n", after.RemainingCash())
	})
}

// --- Delete Command ---

type deleteCmd struct {
	id string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a holding recorded by mistake" }
func (*deleteCmd) Usage() string {
	return `pcs delete -id <id>

  Removes a holding and refunds its cost basis to the remaining cash.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Holding id, see 'pcs summary'")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return apply(ctx, func(folio.Portfolio) (folio.Command, error) {
		return folio.NewDelete(c.id), nil
	}, func(_, after folio.Portfolio) {
		fmt.Fprintf(stdout, "Deleted %s, remaining cash is %s\n", c.id, after.RemainingCash())
	})
}
