// Package store persists the portfolio snapshot.
//
// Every store holds a single opaque blob under the Key "portfolio_data" and
// reads or writes it whole. There is no partial update and no history.
package store

import (
	"fmt"

	"github.com/etnz/folio"
)

// Key is the name the snapshot is stored under.
const Key = "portfolio_data"

// ErrNoSnapshot is returned by Load when nothing was saved yet.
var ErrNoSnapshot = folio.ErrNoSnapshot

// PersistenceError reports a failure to read or write the snapshot.
type PersistenceError struct {
	Op  string // "load" or "save"
	Key string // file path or key of the snapshot
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
