package quote

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// DefaultCacheTTL is how long a fetched price is reused.
const DefaultCacheTTL = 10 * time.Second

// Cached remembers successful quotes of a Fetcher for a while.
type Cached struct {
	next   Fetcher
	prices *cache.Cache
}

// NewCached wraps next with a cache keeping prices for ttl.
func NewCached(next Fetcher, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{next: next, prices: cache.New(ttl, 2*ttl)}
}

// Quote implements Fetcher. Errors are not cached.
func (c *Cached) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	key := strings.ToUpper(symbol)
	if v, found := c.prices.Get(key); found {
		return v.(decimal.Decimal), nil
	}
	price, err := c.next.Quote(ctx, symbol)
	if err != nil {
		return price, err
	}
	c.prices.Set(key, price, cache.DefaultExpiration)
	return price, nil
}
