package models

import (
	"fmt"
	"sync/atomic"
)

// RawRow is one materialized row of an input document: a mapping from column
// name to a scalar cell value (string, float64, bool). Absent columns are
// simply missing keys. The schema is not fixed; columns vary per document.
type RawRow map[string]any

// ExistsStatus indicates on which side(s) of the comparison a unified row exists.
type ExistsStatus string

const (
	// StatusBoth means the row was matched between reference and comparison.
	StatusBoth ExistsStatus = "both"
	// StatusOnlyRef means the row exists only in the reference dataset.
	StatusOnlyRef ExistsStatus = "only_ref"
	// StatusOnlyComp means the row exists only in the comparison dataset.
	StatusOnlyComp ExistsStatus = "only_comp"
	// StatusBothMerged means the row was produced by collapsing
	// reviewer-identified duplicate identities into one.
	StatusBothMerged ExistsStatus = "both_merged"
)

// RowMark is an optional reviewer marker carried on a unified row.
// It drives row-level behavior during commit.
type RowMark string

const (
	// MarkNone is the default: no row-level action requested.
	MarkNone RowMark = ""
	// MarkDelete requests a strike-through of the corresponding document row.
	MarkDelete RowMark = "delete"
	// MarkAdd requests appending the row to the document's added-items sheet.
	MarkAdd RowMark = "add"
)

// MergeSeparator joins the identities of rows collapsed into one merged row.
// Identity comparison always splits on it and compares only the prefix.
const MergeSeparator = " & "

// ReviewSuffix is the column-name suffix under which a resumed review
// session stores per-column review values inside a raw row.
const ReviewSuffix = "_review"

// UnknownKey is the sentinel integrated key assigned when neither side
// carries a usable identity value.
const UnknownKey = "(unidentified)"

// MappingEntry declares a correspondence between a reference column and a
// comparison column, whether it is part of comparison output, and its
// identity role. At most one entry per run may have IsPrimaryKey set, and at
// most one may have IsSecondaryKey set.
type MappingEntry struct {
	// RefColumn is the column name on the reference side.
	RefColumn string `json:"refColumn"`
	// CompColumn is the column name on the comparison side.
	CompColumn string `json:"compColumn"`
	// IsTarget marks the entry as included in comparison output.
	IsTarget bool `json:"isTarget"`
	// IsPrimaryKey marks the entry as the identity column.
	IsPrimaryKey bool `json:"isPrimaryKey"`
	// IsSecondaryKey marks the entry as the fallback identity column.
	IsSecondaryKey bool `json:"isSecondaryKey"`
}

// IdentityExclusion controls which rows are dropped before matching based on
// their identity-column value.
type IdentityExclusion struct {
	// ExcludeEmpty drops rows whose identity value is blank.
	ExcludeEmpty bool `json:"excludeEmpty"`
	// ExcludeLeadingAlpha drops rows whose identity starts with an ASCII letter.
	ExcludeLeadingAlpha bool `json:"excludeLeadingAlpha"`
	// CustomPatterns are literal substrings, or full regexes when wrapped
	// in /.../, matched case-insensitively against the identity value.
	CustomPatterns []string `json:"customPatterns"`
}

// ColumnExclusion controls which mapped columns are dropped from comparison.
type ColumnExclusion struct {
	// ExcludeUnnamedPlaceholders drops columns with auto-generated header
	// names (e.g. "Column13").
	ExcludeUnnamedPlaceholders bool `json:"excludeUnnamedPlaceholders"`
	// Patterns are literal substrings, or full regexes when wrapped in
	// /.../, matched case-insensitively against the reference column name.
	Patterns []string `json:"patterns"`
}

// Config is the per-run reconciliation configuration. It is a flat object
// serialized as JSON; the caller persists and exports it.
type Config struct {
	// PrimaryKeyColumn is the user-chosen identity column (reference side name).
	PrimaryKeyColumn string `json:"primaryKeyColumn"`
	// SecondaryKeyColumn is the optional fallback identity column.
	SecondaryKeyColumn string `json:"secondaryKeyColumn,omitempty"`
	// Mappings declares the column correspondences between the two datasets.
	Mappings []MappingEntry `json:"mappings"`
	// IdentityExclusion holds identity-level row exclusion rules.
	IdentityExclusion IdentityExclusion `json:"identityExclusion"`
	// ColumnExclusion holds column-level exclusion rules.
	ColumnExclusion ColumnExclusion `json:"columnExclusion"`
	// LegacyMode keeps only rows whose identity starts with the reserved
	// legacy prefix. Off by default.
	LegacyMode bool `json:"legacyMode,omitempty"`
}

// PrimaryMapping returns the mapping entry flagged as primary key, or nil.
func (c *Config) PrimaryMapping() *MappingEntry {
	for i := range c.Mappings {
		if c.Mappings[i].IsPrimaryKey {
			return &c.Mappings[i]
		}
	}
	return nil
}

// SecondaryMapping returns the mapping entry flagged as secondary key, or nil.
func (c *Config) SecondaryMapping() *MappingEntry {
	for i := range c.Mappings {
		if c.Mappings[i].IsSecondaryKey {
			return &c.Mappings[i]
		}
	}
	return nil
}

// Field holds the four facets of one logical column inside a unified row:
// the original and review values on each side, plus the computed diff flag.
// Diff is nil unless the row exists on both sides.
type Field struct {
	// Base is the logical column name (reference-side name of the mapping).
	Base string `json:"base"`
	// RefValue is the reference document's original value.
	RefValue string `json:"refValue"`
	// RefReview is the reviewer's value for the reference side, if any.
	RefReview string `json:"refReview,omitempty"`
	// CompValue is the comparison document's original value.
	CompValue string `json:"compValue"`
	// CompReview is the reviewer's value for the comparison side, if any.
	CompReview string `json:"compReview,omitempty"`
	// Diff reports whether the effective values differ. Present only for
	// rows that exist on both sides.
	Diff *bool `json:"diff,omitempty"`
}

// EffectiveRef returns the reference-side effective value: the review value
// if present, else the original.
func (f *Field) EffectiveRef() string {
	if f.RefReview != "" {
		return f.RefReview
	}
	return f.RefValue
}

// EffectiveComp returns the comparison-side effective value: the review
// value if present, else the original.
func (f *Field) EffectiveComp() string {
	if f.CompReview != "" {
		return f.CompReview
	}
	return f.CompValue
}

// UnifiedRow is one row of the reconciliation output. A full generation of
// unified rows is produced every time matching inputs change; generations
// are replaced wholesale, never patched incrementally.
type UnifiedRow struct {
	// IntegratedKey is the canonical identity of the row. Never empty.
	IntegratedKey string `json:"integratedKey"`
	// Status indicates on which side(s) the row exists.
	Status ExistsStatus `json:"existsStatus"`
	// StandardIdentity is the normalized primary identity value.
	StandardIdentity string `json:"standardIdentity"`
	// StandardSecondary is the normalized secondary-key value, if configured.
	StandardSecondary string `json:"standardSecondary,omitempty"`
	// SecondaryMatch marks rows matched via the secondary-key fallback.
	SecondaryMatch bool `json:"secondaryMatch,omitempty"`
	// Mark is an optional reviewer marker consumed by the commit engine.
	Mark RowMark `json:"mark,omitempty"`
	// Fields holds one typed record per effective mapped column, in
	// mapping order.
	Fields []*Field `json:"fields"`
}

// Field returns the named logical column, or nil if the row doesn't carry it.
func (r *UnifiedRow) Field(base string) *Field {
	for _, f := range r.Fields {
		if f.Base == base {
			return f
		}
	}
	return nil
}

// Flatten renders the row in the legacy suffix-encoded form
// (base_ref, base_refReview, base_comp, base_compReview, base_diff) expected
// by external consumers. The typed Field form stays internal.
func (r *UnifiedRow) Flatten() map[string]any {
	out := map[string]any{
		"integratedKey":    r.IntegratedKey,
		"existsStatus":     string(r.Status),
		"standardIdentity": r.StandardIdentity,
	}
	if r.StandardSecondary != "" {
		out["standardSecondary"] = r.StandardSecondary
	}
	for _, f := range r.Fields {
		out[f.Base+"_ref"] = f.RefValue
		out[f.Base+"_refReview"] = f.RefReview
		out[f.Base+"_comp"] = f.CompValue
		out[f.Base+"_compReview"] = f.CompReview
		if f.Diff != nil {
			out[f.Base+"_diff"] = *f.Diff
		}
	}
	return out
}

// IDSource produces synthetic identities for manually inserted rows.
// Injected per run so tests stay deterministic.
type IDSource interface {
	// Next returns the next synthetic identity.
	Next() string
}

// SequenceSource is a monotonic IDSource with a fixed prefix. One instance
// is shared across all request goroutines, so the counter is atomic.
type SequenceSource struct {
	prefix string
	n      atomic.Int64
}

// NewSequenceSource creates a SequenceSource starting at 1.
func NewSequenceSource(prefix string) *SequenceSource {
	return &SequenceSource{prefix: prefix}
}

// Next returns identities of the form "<prefix>0001", "<prefix>0002", ...
func (s *SequenceSource) Next() string {
	return fmt.Sprintf("%s%04d", s.prefix, s.n.Add(1))
}

// Reset rewinds the sequence. Test hook.
func (s *SequenceSource) Reset() {
	s.n.Store(0)
}
