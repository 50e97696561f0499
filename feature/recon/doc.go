// Package recon is the reconciliation feature: it compares two
// independently-maintained tabular extracts under a user-chosen identity
// column, produces a unified row set annotated with match status and
// field-level differences, supports reviewer-driven duplicate merging, and
// commits approved corrections back into the two original documents.
//
// The feature exposes its pipeline both over HTTP (see Handler) and to the
// CLI commands through Service.
package recon
