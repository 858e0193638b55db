// Package quote fetches the last traded price of stocks.
//
// AlphaVantage talks to the Alpha Vantage GLOBAL_QUOTE API. Cached and Batcher
// wrap any Fetcher to respect the provider limits, and Batcher is the
// folio.QuoteSource used by the tracker.
package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Fetcher returns the last traded price of a single symbol.
type Fetcher interface {
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// DefaultBaseURL is the Alpha Vantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// pricePath locates the price in a GLOBAL_QUOTE answer.
const pricePath = `$["Global Quote"]["05. price"]`

// AlphaVantage fetches quotes from the Alpha Vantage GLOBAL_QUOTE function.
type AlphaVantage struct {
	Key     string
	BaseURL string       // DefaultBaseURL if empty
	Client  *http.Client // http.DefaultClient if nil
}

// NewAlphaVantage returns a client for the default endpoint.
func NewAlphaVantage(key string) *AlphaVantage {
	return &AlphaVantage{Key: key, BaseURL: DefaultBaseURL}
}

// Quote implements Fetcher.
//
// Errors are *ExternalSourceError wrapping ErrRateLimited, ErrUnknownSymbol,
// ErrNoQuote, ErrNoAPIKey or the transport error.
func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := a.quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, &ExternalSourceError{Symbol: symbol, Err: err}
	}
	return price, nil
}

func (a *AlphaVantage) quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if a.Key == "" {
		return decimal.Zero, ErrNoAPIKey
	}
	base := a.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", a.Key)
	addr := base + "?" + q.Encode()

	var jobj map[string]any
	if err := jwget(ctx, a.client(), addr, &jobj); err != nil {
		return decimal.Zero, err
	}

	// the API answers 200 with a message instead of a quote.
	if msg, ok := jobj["Error Message"]; ok {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnknownSymbol, msg)
	}
	for _, key := range []string{"Note", "Information"} {
		if msg, ok := jobj[key]; ok {
			log.Printf("alphavantage %s: %v", key, msg)
			return decimal.Zero, ErrRateLimited
		}
	}

	jval, err := jsonpath.Get(pricePath, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNoQuote, err)
	}
	// jsonpath either returns a list of one answer, or the answer.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return parsePrice(jval)
}

func (a *AlphaVantage) client() *http.Client {
	if a.Client == nil {
		return http.DefaultClient
	}
	return a.Client
}

// parsePrice reads a price written either as a string or as a number.
func parsePrice(jval any) (decimal.Decimal, error) {
	var price decimal.Decimal
	switch v := jval.(type) {
	case string:
		p, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: invalid price %q", ErrNoQuote, v)
		}
		price = p
	case float64:
		price = decimal.NewFromFloat(v)
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected price %v", ErrNoQuote, jval)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: price %v", ErrNoQuote, price)
	}
	return price, nil
}

// statusError is returned by jwget on a non 200 answer.
type statusError struct {
	Code       int
	Status     string
	Host, Path string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("cannot http GET %v%v: %v", e.Host, e.Path, e.Status)
}

// jwget performs an HTTP GET request and unmarshals the JSON response into data.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &statusError{Code: resp.StatusCode, Status: resp.Status, Host: resp.Request.URL.Host, Path: resp.Request.URL.Path}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
