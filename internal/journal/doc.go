package journal

// Package journal records an audit trail of reconciliation runs.
//
// It currently supports:
//   - Appending one record per reconciler outcome
//   - Listing recent records (the `history` command)
//
// Journaling is best-effort: a failed append never fails a reconciliation.
