package folio

import (
	"errors"
	"fmt"
)

// Check verifies the snapshot invariants and returns all violations.
//
// Snapshots produced by Apply always pass. Check is meant for snapshots read
// from outside, like a restored backup.
func (p Portfolio) Check() error {
	var errs error
	if p.cur == "" {
		errs = errors.Join(errs, errors.New("missing currency"))
	}
	if p.initialCash.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("negative initial cash %v", p.initialCash))
	}
	if p.remainingCash.IsNegative() {
		errs = errors.Join(errs, fmt.Errorf("negative remaining cash %v", p.remainingCash))
	}
	seen := make(map[string]struct{}, len(p.holdings))
	for i, h := range p.holdings {
		if h.ID == "" {
			errs = errors.Join(errs, fmt.Errorf("holding #%d: missing id", i))
		} else if _, dup := seen[h.ID]; dup {
			errs = errors.Join(errs, fmt.Errorf("holding #%d: duplicated id %q", i, h.ID))
		}
		seen[h.ID] = struct{}{}
		if h.Ticker == "" || h.Ticker != normalizeTicker(h.Ticker) {
			errs = errors.Join(errs, fmt.Errorf("holding %q: invalid ticker %q", h.ID, h.Ticker))
		}
		if !h.Shares.IsPositive() {
			errs = errors.Join(errs, fmt.Errorf("holding %q: shares must be positive, got %v", h.ID, h.Shares))
		}
		if !h.PricePerShare.IsPositive() {
			errs = errors.Join(errs, fmt.Errorf("holding %q: price per share must be positive, got %v", h.ID, h.PricePerShare))
		}
		if !h.CostBasis.IsPositive() {
			errs = errors.Join(errs, fmt.Errorf("holding %q: cost basis must be positive, got %v", h.ID, h.CostBasis))
		}
		if h.Price.IsNegative() {
			errs = errors.Join(errs, fmt.Errorf("holding %q: negative price %v", h.ID, h.Price))
		}
	}
	return errs
}
