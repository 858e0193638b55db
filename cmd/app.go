// Package cmd implements the pcs command line application to manage a
// portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/quote"
	"github.com/etnz/folio/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "holdings")
	c.Register(&buyCmd{}, "holdings")
	c.Register(&editCmd{}, "holdings")
	c.Register(&sellCmd{}, "holdings")
	c.Register(&deleteCmd{}, "holdings")

	c.Register(&refreshCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&adviseCmd{}, "reports")

	c.Register(&exportCmd{}, "backup")
	c.Register(&restoreCmd{}, "backup")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the configuration file. Defaults to pcs.yaml (or .json, .toml) in the current folder if any.")
	storeKind  = flag.String("store", "", "Where the portfolio is kept: file, sqlite or memory. Overrides the configuration.")
	storePath  = flag.String("path", "", "Path to the portfolio file or database. Overrides the configuration.")
	currency   = flag.String("currency", "", "Currency of a new portfolio. Overrides the configuration.")
	strictCash = flag.Bool("strict", false, "Reject purchases that cost more than the remaining cash.")
	verbose    = flag.Bool("v", false, "Print logs to stderr.")
	plain      = flag.Bool("plain", false, "Print reports as raw markdown.")
)

// stdout is where commands print their output.
var stdout io.Writer = os.Stdout

// loadConfig reads the configuration and applies the global flags on top of it.
func loadConfig() (*config.Config, error) {
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *storeKind != "" {
		cfg.Store = *storeKind
	}
	if *storePath != "" {
		cfg.Path = *storePath
	}
	if *currency != "" {
		cfg.Currency = *currency
	}
	if *strictCash {
		cfg.StrictCash = true
	}
	return cfg, nil
}

// session holds what a command needs to work on the portfolio.
type session struct {
	cfg     *config.Config
	tracker *folio.Tracker
	source  folio.QuoteSource // nil without any way to get quotes
	close   func() error
}

// openSession loads the portfolio. If quotesFile is not empty, quotes are
// read from it instead of Alpha Vantage.
func openSession(ctx context.Context, quotesFile string) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	source, err := newQuoteSource(cfg, quotesFile)
	if err != nil {
		return nil, err
	}
	st, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	t := folio.NewTracker(st, source, folio.TrackerOptions{
		Currency:        cfg.Currency,
		Policy:          folio.Policy{StrictCash: cfg.StrictCash},
		RefreshOnChange: cfg.RefreshOnChange,
	})
	if err := t.Load(ctx); err != nil {
		closer()
		return nil, fmt.Errorf("cannot load portfolio from %q: %w", cfg.StorePath(), err)
	}
	return &session{cfg: cfg, tracker: t, source: source, close: closer}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		log.Printf("cannot close store: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (folio.SnapshotStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := store.OpenSQLite(ctx, cfg.StorePath())
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.StoreMemory:
		return &store.Memory{}, noop, nil
	case config.StoreFile:
		return store.NewFile(cfg.StorePath()), noop, nil
	default:
		return nil, nil, fmt.Errorf("invalid store %q", cfg.Store)
	}
}

// errNoQuoteSource is returned when quotes are required but there is no way to get them.
var errNoQuoteSource = errors.New("no quote source, set ALPHA_VANTAGE_API_KEY or use -quotes <file>")

// newQuoteSource returns the static quotes in file, or the configured
// provider if it has a key, or nil.
func newQuoteSource(cfg *config.Config, file string) (folio.QuoteSource, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return quote.ReadStatic(f)
	}

	var fetcher quote.Fetcher
	switch cfg.Quotes.Provider {
	case config.ProviderEODHD:
		if cfg.Quotes.EODHDToken == "" {
			log.Println("no EODHD token, quotes will not be refreshed")
			return nil, nil
		}
		e := quote.NewEODHD(cfg.Quotes.EODHDToken)
		if cfg.Quotes.BaseURL != "" {
			e.BaseURL = cfg.Quotes.BaseURL
		}
		fetcher = e
	default:
		if cfg.Quotes.APIKey == "" {
			log.Println("no Alpha Vantage key, quotes will not be refreshed")
			return nil, nil
		}
		av := quote.NewAlphaVantage(cfg.Quotes.APIKey)
		if cfg.Quotes.BaseURL != "" {
			av.BaseURL = cfg.Quotes.BaseURL
		}
		fetcher = av
	}
	cached := quote.NewCached(fetcher, cfg.Quotes.CacheTTL)
	return quote.NewBatcher(cached, cfg.Quotes.BatchSize, cfg.Quotes.BatchDelay), nil
}

// printMarkdown renders md for the terminal, unless -plain is set.
func printMarkdown(md string) {
	fmt.Fprintln(stdout, renderMarkdown(md))
}

func renderMarkdown(md string) string {
	if *plain {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		return md
	}
	return out
}
