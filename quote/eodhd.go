package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// DefaultEODHDBaseURL is the EODHD real-time API endpoint.
const DefaultEODHDBaseURL = "https://eodhd.com/api/real-time"

// EODHD fetches delayed quotes from the EOD Historical Data real-time API.
//
// Symbols without an exchange suffix are looked up on US exchanges.
type EODHD struct {
	Token   string
	BaseURL string       // DefaultEODHDBaseURL if empty
	Client  *http.Client // http.DefaultClient if nil
}

// NewEODHD returns a client for the default endpoint.
func NewEODHD(token string) *EODHD {
	return &EODHD{Token: token, BaseURL: DefaultEODHDBaseURL}
}

// Quote implements Fetcher.
func (e *EODHD) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := e.quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, &ExternalSourceError{Symbol: symbol, Err: err}
	}
	return price, nil
}

func (e *EODHD) quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if e.Token == "" {
		return decimal.Zero, ErrNoAPIKey
	}
	base := e.BaseURL
	if base == "" {
		base = DefaultEODHDBaseURL
	}
	code := symbol
	if !strings.Contains(code, ".") {
		code += ".US"
	}
	q := url.Values{}
	q.Set("api_token", e.Token)
	q.Set("fmt", "json")
	addr := fmt.Sprintf("%s/%s?%s", strings.TrimSuffix(base, "/"), url.PathEscape(code), q.Encode())

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	var jobj map[string]any
	if err := jwget(ctx, client, addr, &jobj); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			switch se.Code {
			case http.StatusNotFound:
				return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownSymbol, code)
			case http.StatusTooManyRequests, http.StatusPaymentRequired:
				return decimal.Zero, ErrRateLimited
			}
		}
		return decimal.Zero, err
	}

	// unknown codes may be answered with "NA" values.
	jval, err := jsonpath.Get("$.close", jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNoQuote, err)
	}
	return parsePrice(jval)
}
