// Package match implements the reconciliation matching core: key
// normalization, semantic value equality, effective-mapping resolution,
// identity-based row exclusion, the multi-principle dataset matcher, the
// integrated-key rule, and summary aggregation.
//
// Everything here is pure and synchronous. The matcher consumes two
// already-materialized row sets plus the per-run configuration and emits a
// complete generation of unified rows; generations are replaced wholesale,
// never patched.
package match
