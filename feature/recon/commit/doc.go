// Package commit implements the write-back engine: it locates
// previously-matched rows inside the two original external documents via an
// ordered resolution cascade and mutates only the cells whose reviewed
// value changed.
//
// The two documents are committed independently; a fatal error on one side
// (unsupported format, file locked elsewhere) never aborts or rolls back
// the other. Rows the cascade cannot locate are non-fatal: they accumulate
// into a "needs confirmation" sheet written into the document itself, and
// the run completes with partial success. All outcomes are counted
// (updated, identical, unresolved, deleted, added) so callers can render a
// meaningful report instead of a bare success flag.
//
// Row and column indices built during resolution are scoped to a single
// run; callers must not run two commits against the same document pair
// concurrently.
package commit
