package quote

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/etnz/folio"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultBatchSize is the number of concurrent requests of a batch.
	DefaultBatchSize = 5
	// DefaultBatchDelay is the minimum delay between two batches.
	DefaultBatchDelay = 2 * time.Second
)

// Batcher fetches many symbols through a Fetcher, a batch at a time.
//
// Symbols of a batch are fetched concurrently, batches are spaced by a rate
// limiter shared by all calls. Once the provider answers that it is rate
// limited, the remaining symbols are not requested.
type Batcher struct {
	fetcher Fetcher
	size    int
	limiter *rate.Limiter
}

// NewBatcher returns a Batcher fetching size symbols every delay.
func NewBatcher(f Fetcher, size int, delay time.Duration) *Batcher {
	if size <= 0 {
		size = DefaultBatchSize
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Batcher{fetcher: f, size: size, limiter: rate.NewLimiter(limit, 1)}
}

// Quotes implements folio.QuoteSource.
//
// The result holds every price that could be fetched. The error joins one
// *ExternalSourceError per missing symbol.
func (b *Batcher) Quotes(ctx context.Context, tickers []string) (folio.Quotes, error) {
	symbols := uniqueSymbols(tickers)
	quotes := make(folio.Quotes, len(symbols))
	var errs []error

	for start := 0; start < len(symbols); start += b.size {
		batch := symbols[start:min(start+b.size, len(symbols))]
		if err := b.limiter.Wait(ctx); err != nil {
			for _, s := range symbols[start:] {
				errs = append(errs, &ExternalSourceError{Symbol: s, Err: err})
			}
			break
		}

		prices, batchErrs := b.fetch(ctx, batch)
		limited := false
		for i, s := range batch {
			if batchErrs[i] != nil {
				errs = append(errs, batchErrs[i])
				limited = limited || errors.Is(batchErrs[i], ErrRateLimited)
				continue
			}
			quotes[s] = prices[i]
		}
		if limited {
			log.Printf("quote provider rate limit reached, skipping %d symbols", len(symbols)-start-len(batch))
			for _, s := range symbols[start+len(batch):] {
				errs = append(errs, &ExternalSourceError{Symbol: s, Err: ErrRateLimited})
			}
			break
		}
	}
	return quotes, errors.Join(errs...)
}

// fetch requests all symbols concurrently. Results are indexed like symbols.
func (b *Batcher) fetch(ctx context.Context, symbols []string) ([]decimal.Decimal, []error) {
	prices := make([]decimal.Decimal, len(symbols))
	errs := make([]error, len(symbols))
	var g errgroup.Group
	for i, s := range symbols {
		g.Go(func() error {
			p, err := b.fetcher.Quote(ctx, s)
			if err != nil {
				var ese *ExternalSourceError
				if !errors.As(err, &ese) {
					err = &ExternalSourceError{Symbol: s, Err: err}
				}
				errs[i] = err
				return nil
			}
			prices[i] = p
			return nil
		})
	}
	g.Wait()
	return prices, errs
}

// uniqueSymbols returns the non empty, upper-cased tickers, once each, in order.
func uniqueSymbols(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	symbols := make([]string, 0, len(tickers))
	for _, t := range tickers {
		s := strings.ToUpper(strings.TrimSpace(t))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	return symbols
}

// check that Batcher is a valid quote source.
var _ folio.QuoteSource = (*Batcher)(nil)
