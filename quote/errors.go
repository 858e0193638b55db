package quote

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when the provider refuses more requests for now.
	ErrRateLimited = errors.New("api call frequency exceeded")
	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("no api key configured")
	// ErrUnknownSymbol is returned when the provider does not know the symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrNoQuote is returned when the provider answered without a usable price.
	ErrNoQuote = errors.New("no price available")
)

// ExternalSourceError reports a failed quote request for one symbol.
//
// The symbol keeps its last known price.
type ExternalSourceError struct {
	Symbol string
	Err    error
}

func (e *ExternalSourceError) Error() string {
	return fmt.Sprintf("cannot fetch quote for %s: %v", e.Symbol, e.Err)
}

func (e *ExternalSourceError) Unwrap() error { return e.Err }
