package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/agent"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// --- Refresh Command ---

type refreshCmd struct {
	watch  time.Duration
	quotes string
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "update the market price of all holdings" }
func (*refreshCmd) Usage() string {
	return `pcs refresh [-watch <interval>] [-quotes <file>]

  Fetches the last price of every held ticker and updates the portfolio.
  Tickers that cannot be quoted keep their last known price.

  Prices come from Alpha Vantage (ALPHA_VANTAGE_API_KEY), or from a JSON file
  mapping tickers to prices with -quotes.

  With -watch, prices are refreshed every interval until interrupted.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.watch, "watch", 0, "Refresh again every interval, like 5m")
	f.StringVar(&c.quotes, "quotes", "", "JSON file of prices to use instead of Alpha Vantage")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.watch < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, err := openSession(ctx, c.quotes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	p, err := refresh(ctx, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(p))
	if c.watch == 0 {
		return subcommands.ExitSuccess
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	err = s.tracker.Watch(ctx, c.watch, func(p folio.Portfolio) {
		printMarkdown(renderer.SummaryMarkdown(p))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func refresh(ctx context.Context, s *session) (folio.Portfolio, error) {
	p := s.tracker.Snapshot()
	if p.Len() == 0 {
		return p, nil
	}
	if s.source == nil {
		return p, errNoQuoteSource
	}
	return s.tracker.Refresh(ctx)
}

// --- Summary Command ---

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	refresh bool
	quotes  string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio figures and holdings" }
func (*summaryCmd) Usage() string {
	return `pcs summary [-refresh] [-quotes <file>]

  Displays the cash, the gains and the holdings of the portfolio, with the
  holding ids expected by edit, sell and delete.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Refresh market prices first")
	f.StringVar(&c.quotes, "quotes", "", "JSON file of prices to refresh from, implies -refresh")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, c.quotes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	p := s.tracker.Snapshot()
	if c.refresh || c.quotes != "" {
		if p, err = refresh(ctx, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating prices: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	printMarkdown(renderer.SummaryMarkdown(p))
	return subcommands.ExitSuccess
}

// --- Advise Command ---

type adviseCmd struct{}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "chat with an AI advisor about the portfolio" }
func (*adviseCmd) Usage() string {
	return `pcs advise [question...]

  Starts a chat with an AI advisor that can read the portfolio and search for
  recent news. The question in arguments, if any, is asked first.

  Requires a Gemini API key in GEMINI_API_KEY or GOOGLE_API_KEY.
`
}

func (*adviseCmd) SetFlags(*flag.FlagSet) {}

func (c *adviseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Gemini client: %v\n", err)
		return subcommands.ExitFailure
	}

	a := agent.NewAdvisor(stdout, os.Stdin, s.tracker, s.cfg.Advisor.Model)
	a.Render = renderMarkdown
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
