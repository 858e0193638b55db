package folio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// QuoteSource returns the last traded price of tickers.
//
// The result may be partial: a ticker missing from the result keeps its last
// known price. A non nil error describes what is missing, it does not
// invalidate the quotes returned.
type QuoteSource interface {
	Quotes(ctx context.Context, tickers []string) (Quotes, error)
}

// SnapshotStore persists a single serialized snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// ErrNoSnapshot is returned by a SnapshotStore that holds no snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot saved")

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	Currency        string // of a new portfolio
	Policy          Policy
	RefreshOnChange bool // refresh quotes when a command changes the number of holdings
}

// Tracker owns the authoritative snapshot of a portfolio.
//
// Commands are applied one at a time. Quote fetches run outside the lock and
// their result is merged into whatever snapshot is current when they return.
// Saves run outside the lock too, a save never overwrites a newer one.
type Tracker struct {
	store  SnapshotStore
	source QuoteSource
	opts   TrackerOptions

	mu      sync.Mutex
	current Portfolio
	gen     uint64 // bumped on every swap of current

	saveMu sync.Mutex
	saved  uint64 // gen of the last snapshot handed to the store
}

// NewTracker returns a tracker holding an empty portfolio. Both store and
// source may be nil.
func NewTracker(store SnapshotStore, source QuoteSource, opts TrackerOptions) *Tracker {
	return &Tracker{
		store:   store,
		source:  source,
		opts:    opts,
		current: New(opts.Currency),
	}
}

// Load reads the snapshot from the store.
//
// A failure is logged and returned, the tracker then keeps an empty portfolio.
// An empty store is not a failure.
func (t *Tracker) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	data, err := t.store.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		log.Printf("cannot load portfolio, starting empty: %v", err)
		return err
	}
	p, err := DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		log.Printf("cannot load portfolio, starting empty: %v", err)
		return err
	}
	t.mu.Lock()
	t.swap(p)
	t.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot.
func (t *Tracker) Snapshot() Portfolio {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Do applies cmd to the current snapshot, saves and returns the result.
//
// Command errors leave the snapshot unchanged. Save errors are only logged.
func (t *Tracker) Do(ctx context.Context, cmd Command) (Portfolio, error) {
	t.mu.Lock()
	before := t.current
	next, err := t.opts.Policy.Apply(before, cmd)
	if err != nil {
		t.mu.Unlock()
		return before, err
	}
	gen := t.swap(next)
	t.mu.Unlock()

	t.save(ctx, next, gen)
	if t.opts.RefreshOnChange && next.Len() != before.Len() && next.Len() > 0 {
		return t.Refresh(ctx)
	}
	return next, nil
}

// Refresh fetches quotes for the current tickers and merges them into the
// current snapshot.
//
// Quote errors are logged, the tickers they concern keep their last price.
func (t *Tracker) Refresh(ctx context.Context) (Portfolio, error) {
	issued := t.Snapshot()
	tickers := issued.Tickers()
	if t.source == nil || len(tickers) == 0 {
		return issued, nil
	}

	quotes, err := t.source.Quotes(ctx, tickers)
	if err != nil {
		log.Printf("some quotes are missing, keeping last known prices: %v", err)
	}
	if len(quotes) == 0 {
		return t.Snapshot(), nil
	}

	t.mu.Lock()
	if t.current.Version() != issued.Version() {
		log.Printf("merging quotes requested at v%d into v%d", issued.Version(), t.current.Version())
	}
	next, applyErr := t.opts.Policy.Apply(t.current, NewUpdatePrices(quotes))
	if applyErr != nil {
		t.mu.Unlock()
		return next, applyErr
	}
	gen := t.swap(next)
	t.mu.Unlock()

	t.save(ctx, next, gen)
	return next, nil
}

// Watch refreshes quotes every interval until ctx is done.
func (t *Tracker) Watch(ctx context.Context, every time.Duration, onRefresh func(Portfolio)) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p, err := t.Refresh(ctx)
			if err != nil {
				log.Printf("refresh failed: %v", err)
				continue
			}
			if onRefresh != nil {
				onRefresh(p)
			}
		}
	}
}

// Restore replaces the whole snapshot, typically with a backup.
func (t *Tracker) Restore(ctx context.Context, p Portfolio) error {
	if err := p.Check(); err != nil {
		return fmt.Errorf("cannot restore an invalid portfolio: %w", err)
	}
	t.mu.Lock()
	gen := t.swap(p)
	t.mu.Unlock()
	t.save(ctx, p, gen)
	return nil
}

// swap makes p the current snapshot and returns its generation. t.mu must be held.
func (t *Tracker) swap(p Portfolio) uint64 {
	t.current = p
	t.gen++
	return t.gen
}

// save persists p, the snapshot of generation gen, unless a later generation
// was already saved. A failure is logged and the in-memory state is kept.
func (t *Tracker) save(ctx context.Context, p Portfolio, gen uint64) {
	if t.store == nil {
		return
	}
	t.saveMu.Lock()
	defer t.saveMu.Unlock()
	if gen <= t.saved {
		return
	}
	t.saved = gen
	var b bytes.Buffer
	if err := EncodeSnapshot(&b, p); err != nil {
		log.Printf("cannot encode portfolio, not saved: %v", err)
		return
	}
	if err := t.store.Save(ctx, b.Bytes()); err != nil {
		log.Printf("cannot save portfolio, changes are kept in memory only: %v", err)
	}
}
