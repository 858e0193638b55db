package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio"
	"github.com/shopspring/decimal"
)

// Static is a fixed table of prices, for offline use.
type Static folio.Quotes

// ReadStatic reads a JSON object mapping tickers to prices, like
//
//	{"AAPL": 187.44, "MSFT": "402.10"}
func ReadStatic(r io.Reader) (Static, error) {
	var m map[string]decimal.Decimal
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("cannot read quotes: %w", err)
	}
	s := make(Static, len(m))
	for ticker, price := range m {
		s[strings.ToUpper(strings.TrimSpace(ticker))] = price
	}
	return s, nil
}

// Quote implements Fetcher.
func (s Static) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, ok := s[strings.ToUpper(symbol)]
	if !ok {
		return decimal.Zero, &ExternalSourceError{Symbol: symbol, Err: ErrUnknownSymbol}
	}
	if !price.IsPositive() {
		return decimal.Zero, &ExternalSourceError{Symbol: symbol, Err: ErrNoQuote}
	}
	return price, nil
}

// Quotes implements folio.QuoteSource.
func (s Static) Quotes(ctx context.Context, tickers []string) (folio.Quotes, error) {
	quotes := make(folio.Quotes, len(tickers))
	var errs []error
	for _, t := range uniqueSymbols(tickers) {
		price, err := s.Quote(ctx, t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		quotes[t] = price
	}
	return quotes, errors.Join(errs...)
}

// check that Static is a valid quote source.
var _ folio.QuoteSource = Static(nil)
var _ Fetcher = Static(nil)
