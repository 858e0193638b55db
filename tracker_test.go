package folio

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeStore is an in memory SnapshotStore that can be told to fail.
type fakeStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
	fail  error
}

func (s *fakeStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	if s.data == nil {
		return nil, ErrNoSnapshot
	}
	return s.data, nil
}

func (s *fakeStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.data = bytes.Clone(data)
	s.saves++
	return nil
}

// parkedStore holds its first Save until release is closed.
type parkedStore struct {
	fakeStore
	parked  chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *parkedStore) Save(ctx context.Context, data []byte) error {
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.parked)
		<-s.release
	}
	return s.fakeStore.Save(ctx, data)
}

// fakeSource returns fixed quotes, optionally waiting for release before answering.
type fakeSource struct {
	quotes  Quotes
	err     error
	calls   chan []string
	release chan struct{}
}

func (s *fakeSource) Quotes(ctx context.Context, tickers []string) (Quotes, error) {
	if s.calls != nil {
		s.calls <- tickers
	}
	if s.release != nil {
		<-s.release
	}
	return s.quotes, s.err
}

func TestTracker_LoadEmpty(t *testing.T) {
	tr := NewTracker(&fakeStore{}, nil, TrackerOptions{Currency: "EUR"})
	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := tr.Snapshot(); got.Currency() != "EUR" || got.Len() != 0 {
		t.Errorf("Snapshot() = %v, want an empty EUR portfolio", got)
	}
}

func TestTracker_DoPersists(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	tr := NewTracker(store, nil, TrackerOptions{})

	if _, err := tr.Do(ctx, NewSetCash(USD(1000))); err != nil {
		t.Fatalf("Do(set-cash) error = %v", err)
	}
	p, err := tr.Do(ctx, NewBuy(jan(10), "AAPL", Q(2), USD(100)))
	if err != nil {
		t.Fatalf("Do(buy) error = %v", err)
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want 2", store.saves)
	}

	// a rejected command is neither applied nor saved.
	if _, err := tr.Do(ctx, NewDelete("nope")); err == nil {
		t.Errorf("Do(delete) succeeded on an unknown id")
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want 2", store.saves)
	}
	if !tr.Snapshot().Equal(p) {
		t.Errorf("Snapshot() changed after a rejected command")
	}

	// a new tracker reads back the same snapshot.
	other := NewTracker(store, nil, TrackerOptions{})
	if err := other.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !other.Snapshot().Equal(p) {
		t.Errorf("Load() = %v, want %v", other.Snapshot(), p)
	}
}

func TestTracker_LoadFailure(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeStore
	}{
		{name: "store error", store: &fakeStore{fail: errors.New("disk on fire")}},
		{name: "corrupted", store: &fakeStore{data: []byte(`{"stocks":`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(tt.store, nil, TrackerOptions{})
			if err := tr.Load(context.Background()); err == nil {
				t.Errorf("Load() succeeded, want an error")
			}
			if tr.Snapshot().Len() != 0 || tr.Snapshot().Active() {
				t.Errorf("Snapshot() = %v, want an empty portfolio", tr.Snapshot())
			}
		})
	}
}

func TestTracker_SaveFailureKeepsState(t *testing.T) {
	store := &fakeStore{fail: errors.New("read only")}
	tr := NewTracker(store, nil, TrackerOptions{})
	p, err := tr.Do(context.Background(), NewSetCash(USD(10)))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !tr.Snapshot().Equal(p) || !p.Active() {
		t.Errorf("Snapshot() = %v, want %v", tr.Snapshot(), p)
	}
}

func TestTracker_Refresh(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{
		quotes: Quotes{"AAPL": dec(120)},
		err:    errors.New("MSFT: rate limited"),
	}
	tr := NewTracker(nil, source, TrackerOptions{})
	tr.Do(ctx, NewSetCash(USD(1000)))
	tr.Do(ctx, NewBuy(jan(10), "AAPL", Q(1), USD(100)))
	tr.Do(ctx, NewBuy(jan(10), "MSFT", Q(1), USD(100)))

	// a partial answer is merged, missing tickers keep their price.
	p, err := tr.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got, want := p.TotalPortfolioValue(), USD(120); !got.Equal(want) {
		t.Errorf("TotalPortfolioValue() = %v, want %v", got, want)
	}
	if p.Holdings()[1].IsPriced() {
		t.Errorf("MSFT is priced, want unpriced")
	}
}

func TestTracker_RefreshMergesIntoNewerSnapshot(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{
		quotes:  Quotes{"AAPL": dec(120)},
		calls:   make(chan []string, 1),
		release: make(chan struct{}),
	}
	tr := NewTracker(nil, source, TrackerOptions{})
	tr.Do(ctx, NewSetCash(USD(1000)))
	tr.Do(ctx, NewBuy(jan(10), "AAPL", Q(1), USD(100)))

	done := make(chan Portfolio)
	go func() {
		p, _ := tr.Refresh(ctx)
		done <- p
	}()
	<-source.calls // the fetch is in flight, the tracker is not locked.

	if _, err := tr.Do(ctx, NewBuy(jan(11), "AAPL", Q(2), USD(110))); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	close(source.release)
	p := <-done

	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	// both lots are priced, last writer wins.
	if got, want := p.TotalPortfolioValue(), USD(360); !got.Equal(want) {
		t.Errorf("TotalPortfolioValue() = %v, want %v", got, want)
	}
	if !tr.Snapshot().Equal(p) {
		t.Errorf("Snapshot() = %v, want %v", tr.Snapshot(), p)
	}
}

func TestTracker_RefreshWithoutQuotes(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{
		quotes:  Quotes{},
		err:     errors.New("AAPL: unknown ticker"),
		calls:   make(chan []string, 1),
		release: make(chan struct{}),
	}
	tr := NewTracker(nil, source, TrackerOptions{})
	tr.Do(ctx, NewSetCash(USD(1000)))
	tr.Do(ctx, NewBuy(jan(10), "AAPL", Q(1), USD(100)))

	done := make(chan Portfolio)
	go func() {
		p, _ := tr.Refresh(ctx)
		done <- p
	}()
	<-source.calls

	want, err := tr.Do(ctx, NewBuy(jan(11), "MSFT", Q(1), USD(50)))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	close(source.release)
	if got := <-done; !got.Equal(want) {
		t.Errorf("Refresh() = %v, want %v", got, want)
	}
}

func TestTracker_SavesNeverGoBack(t *testing.T) {
	ctx := context.Background()
	var b bytes.Buffer
	if err := EncodeSnapshot(&b, must(funded(t, 1000).BuyStock("AAPL", Q(1), USD(100), jan(10)))); err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}
	store := &parkedStore{
		fakeStore: fakeStore{data: b.Bytes()},
		parked:    make(chan struct{}),
		release:   make(chan struct{}),
	}
	source := &fakeSource{quotes: Quotes{"AAPL": dec(120)}}
	tr := NewTracker(store, source, TrackerOptions{})
	if err := tr.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	start := tr.Snapshot().Version()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tr.Do(ctx, NewSetCash(USD(2000)))
	}()
	<-store.parked // the set-cash save is stuck in the store.

	go func() {
		defer wg.Done()
		tr.Refresh(ctx)
	}()
	deadline := time.Now().Add(5 * time.Second)
	for tr.Snapshot().Version() != start+2 {
		if time.Now().After(deadline) {
			t.Fatalf("Version() = %d, want %d", tr.Snapshot().Version(), start+2)
		}
		time.Sleep(time.Millisecond)
	}
	close(store.release)
	wg.Wait()

	stored, err := DecodeSnapshot(bytes.NewReader(store.data))
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if p := tr.Snapshot(); !stored.Equal(p) {
		t.Errorf("stored snapshot = %v, want %v", stored, p)
	}
	if got, want := stored.TotalPortfolioValue(), USD(120); !got.Equal(want) {
		t.Errorf("stored TotalPortfolioValue() = %v, want %v", got, want)
	}
}

func TestTracker_RefreshOnChange(t *testing.T) {
	ctx := context.Background()
	source := &fakeSource{quotes: Quotes{"AAPL": dec(120)}, calls: make(chan []string, 10)}
	tr := NewTracker(nil, source, TrackerOptions{RefreshOnChange: true})
	tr.Do(ctx, NewSetCash(USD(1000)))
	if len(source.calls) != 0 {
		t.Errorf("setting cash fetched quotes")
	}

	p, err := tr.Do(ctx, NewBuy(jan(10), "AAPL", Q(1), USD(100)))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(source.calls) != 1 {
		t.Errorf("quote fetches = %d, want 1", len(source.calls))
	}
	if got, want := p.TotalPortfolioValue(), USD(120); !got.Equal(want) {
		t.Errorf("TotalPortfolioValue() = %v, want %v", got, want)
	}

	// an edit does not change the number of holdings.
	h := p.Holdings()[0]
	h.Shares = Q(2)
	tr.Do(ctx, NewEdit(h))
	if len(source.calls) != 1 {
		t.Errorf("quote fetches = %d, want 1", len(source.calls))
	}
}

func TestTracker_Restore(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	tr := NewTracker(store, nil, TrackerOptions{})

	backup := funded(t, 500)
	backup = must(backup.BuyStock("AAPL", Q(1), USD(100), jan(10)))
	if err := tr.Restore(ctx, backup); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !tr.Snapshot().Equal(backup) {
		t.Errorf("Snapshot() = %v, want %v", tr.Snapshot(), backup)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}

	invalid := backup
	invalid.cur = ""
	if err := tr.Restore(ctx, invalid); err == nil {
		t.Errorf("Restore() accepted an invalid snapshot")
	}
	if !tr.Snapshot().Equal(backup) {
		t.Errorf("Snapshot() changed after a rejected restore")
	}
}

func TestTracker_Watch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	source := &fakeSource{quotes: Quotes{"AAPL": dec(120)}}
	tr := NewTracker(nil, source, TrackerOptions{})
	tr.Do(ctx, NewSetCash(USD(1000)))
	tr.Do(ctx, NewBuy(jan(10), "AAPL", Q(1), USD(100)))

	var refreshed Portfolio
	err := tr.Watch(ctx, 10*time.Millisecond, func(p Portfolio) {
		refreshed = p
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() error = %v, want %v", err, context.Canceled)
	}
	if got, want := refreshed.TotalPortfolioValue(), USD(120); !got.Equal(want) {
		t.Errorf("TotalPortfolioValue() = %v, want %v", got, want)
	}
}
