package quote

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// recorder is a Fetcher answering from a table and recording the requested symbols.
type recorder struct {
	mu      sync.Mutex
	calls   []string
	prices  map[string]float64
	failing map[string]error
}

func (r *recorder) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, symbol)
	if err, ok := r.failing[symbol]; ok {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(r.prices[symbol]), nil
}

func (r *recorder) requested() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := slices.Clone(r.calls)
	slices.Sort(calls)
	return calls
}

func TestBatcher_Deduplicates(t *testing.T) {
	r := &recorder{prices: map[string]float64{"AAPL": 120, "MSFT": 400}}
	b := NewBatcher(r, 5, 0)

	got, err := b.Quotes(context.Background(), []string{"aapl", "AAPL", " msft ", ""})
	if err != nil {
		t.Fatalf("Quotes() error = %v", err)
	}
	if want := []string{"AAPL", "MSFT"}; !slices.Equal(r.requested(), want) {
		t.Errorf("requested %v, want %v", r.requested(), want)
	}
	if !got["AAPL"].Equal(decimal.NewFromInt(120)) || !got["MSFT"].Equal(decimal.NewFromInt(400)) {
		t.Errorf("Quotes() = %v, want AAPL:120 MSFT:400", got)
	}
}

func TestBatcher_PartialFailure(t *testing.T) {
	r := &recorder{
		prices:  map[string]float64{"A": 1, "C": 3},
		failing: map[string]error{"B": errors.New("timeout")},
	}
	b := NewBatcher(r, 2, 0)

	got, err := b.Quotes(context.Background(), []string{"A", "B", "C"})
	if len(got) != 2 {
		t.Errorf("Quotes() = %v, want A and C", got)
	}
	var ese *ExternalSourceError
	if !errors.As(err, &ese) || ese.Symbol != "B" {
		t.Errorf("Quotes() error = %v, want an *ExternalSourceError for B", err)
	}
}

func TestBatcher_StopsWhenRateLimited(t *testing.T) {
	r := &recorder{
		prices:  map[string]float64{"A": 1, "C": 3, "D": 4},
		failing: map[string]error{"B": &ExternalSourceError{Symbol: "B", Err: ErrRateLimited}},
	}
	b := NewBatcher(r, 2, 0)

	got, err := b.Quotes(context.Background(), []string{"A", "B", "C", "D"})
	if want := []string{"A", "B"}; !slices.Equal(r.requested(), want) {
		t.Errorf("requested %v, want %v", r.requested(), want)
	}
	if len(got) != 1 || !got["A"].Equal(decimal.NewFromInt(1)) {
		t.Errorf("Quotes() = %v, want A:1", got)
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Quotes() error = %v, want %v", err, ErrRateLimited)
	}
	for _, s := range []string{"B", "C", "D"} {
		if !strings.Contains(err.Error(), "quote for "+s) {
			t.Errorf("Quotes() error = %v, want it to mention %s", err, s)
		}
	}
}

func TestBatcher_SpacesBatches(t *testing.T) {
	r := &recorder{prices: map[string]float64{"A": 1, "B": 2, "C": 3}}
	b := NewBatcher(r, 1, 20*time.Millisecond)

	start := time.Now()
	if _, err := b.Quotes(context.Background(), []string{"A", "B", "C"}); err != nil {
		t.Fatalf("Quotes() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("3 batches took %v, want at least 2 delays", elapsed)
	}
}

func TestBatcher_Canceled(t *testing.T) {
	r := &recorder{prices: map[string]float64{"A": 1, "B": 2}}
	b := NewBatcher(r, 1, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := b.Quotes(ctx, []string{"A", "B"})
	if len(got) != 0 || err == nil {
		t.Errorf("Quotes() = %v, %v, want no quote and an error", got, err)
	}
}

func TestStatic(t *testing.T) {
	s, err := ReadStatic(strings.NewReader(`{"aapl": 187.44, "MSFT": "402.10", "ZERO": 0}`))
	if err != nil {
		t.Fatalf("ReadStatic() error = %v", err)
	}
	got, err := s.Quotes(context.Background(), []string{"AAPL", "msft", "ZERO", "GOOG"})
	if len(got) != 2 || !got["AAPL"].Equal(decimal.RequireFromString("187.44")) || !got["MSFT"].Equal(decimal.RequireFromString("402.1")) {
		t.Errorf("Quotes() = %v, want AAPL and MSFT", got)
	}
	if !errors.Is(err, ErrUnknownSymbol) || !errors.Is(err, ErrNoQuote) {
		t.Errorf("Quotes() error = %v, want unknown GOOG and no quote for ZERO", err)
	}
}
