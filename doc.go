// Package folio tracks a personal stock portfolio: an initial cash balance,
// the stock purchases made with it, and their gains and losses.
//
// The core is a ledger engine of pure transitions over an immutable Portfolio
// snapshot:
//   - Commands: SetCash, Buy, Edit, Sell, Delete and UpdatePrices, applied
//     with Apply (or Policy.Apply). A rejected command returns the snapshot
//     unchanged and a *ValidationError or a *NotFoundError.
//   - Quote reconciliation: UpdatePrices merges a Quotes map into the
//     holdings' last known prices and re-derives the aggregate totals.
//   - Persistence format: EncodeSnapshot and DecodeSnapshot read and write the
//     snapshot as JSON, WriteBackup and WriteCSV export it.
//
// A Tracker owns the authoritative snapshot of a running application. It
// serializes commands, persists every new snapshot through a SnapshotStore
// and merges quotes fetched from a QuoteSource.
//
// This package serves as the foundational logic for the `pcs` command-line
// tool.
package folio
