package review

import (
	"strings"

	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/match"
	"github.com/byehanchoi-cmyk/io-xl-web/feature/recon/models"
)

// NoteSeparator joins concatenated remark values and annotations.
const NoteSeparator = " ; "

// FillPolicy selects how non-remark columns combine when duplicate rows merge.
type FillPolicy int

const (
	// PolicyFirstNonBlank keeps the representative's value and fills only
	// its blanks from merged-away members.
	PolicyFirstNonBlank FillPolicy = iota
	// PolicyConcatenate joins differing member values like remark columns.
	PolicyConcatenate
)

// Merger re-groups a generation by reviewer-corrected identities, merging
// duplicates and migrating annotations. Applying it a second time with no
// new reviewer edits is a no-op.
type Merger struct {
	cfg *models.Config
	// Policy controls non-remark column merging. The default keeps the
	// representative's first non-blank value.
	Policy FillPolicy
	// RemarkKeywords override the default remark-role column detection.
	RemarkKeywords []string
}

// NewMerger creates a Merger for the given run configuration.
func NewMerger(cfg *models.Config) *Merger {
	return &Merger{cfg: cfg}
}

var defaultRemarkKeywords = []string{"remark", "comment", "note", "review", "비고"}

// IsRemarkName reports whether a column name indicates a remark, review or
// comment role, using the default keyword set.
func IsRemarkName(base string) bool {
	return containsKeyword(base, defaultRemarkKeywords)
}

// IsRemarkColumn is IsRemarkName with this merger's keyword overrides.
func (m *Merger) IsRemarkColumn(base string) bool {
	keywords := m.RemarkKeywords
	if len(keywords) == 0 {
		keywords = defaultRemarkKeywords
	}
	return containsKeyword(base, keywords)
}

func containsKeyword(base string, keywords []string) bool {
	lower := strings.ToLower(base)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Apply transforms one generation into the next. Rows whose
// reviewer-corrected identities collide collapse onto a single BothMerged
// representative; the old generation is discarded.
func (m *Merger) Apply(rows []*models.UnifiedRow, ann Annotations) []*models.UnifiedRow {
	type group struct {
		target  string
		members []*models.UnifiedRow
	}

	var order []string
	groups := map[string]*group{}
	for _, r := range rows {
		t := m.targetKey(r)
		g, ok := groups[t]
		if !ok {
			g = &group{target: t}
			groups[t] = g
			order = append(order, t)
		}
		g.members = append(g.members, r)
	}

	out := make([]*models.UnifiedRow, 0, len(order))
	for _, t := range order {
		g := groups[t]
		if len(g.members) == 1 {
			r := g.members[0]
			if g.target != r.IntegratedKey || m.identityReview(r) != "" {
				m.rekey(r, g.target, ann)
			}
			out = append(out, r)
			continue
		}
		out = append(out, m.mergeGroup(g.target, g.members, ann))
	}
	return out
}

// targetKey computes the identity a row wants after review: the reviewer's
// identity value if present, else the current key, merge-separator prefix
// only.
func (m *Merger) targetKey(r *models.UnifiedRow) string {
	if rv := m.identityReview(r); rv != "" {
		return match.KeyPrefix(rv)
	}
	return match.KeyPrefix(r.IntegratedKey)
}

// identityReview returns the reviewer-entered identity value, if any.
func (m *Merger) identityReview(r *models.UnifiedRow) string {
	pm := m.cfg.PrimaryMapping()
	if pm == nil {
		return ""
	}
	f := r.Field(pm.RefColumn)
	if f == nil {
		return ""
	}
	if f.RefReview != "" {
		return f.RefReview
	}
	return f.CompReview
}

// rekey moves a row (and its annotations) to a new identity.
func (m *Merger) rekey(r *models.UnifiedRow, key string, ann Annotations) {
	if ann != nil {
		ann.migrate(r.IntegratedKey, key)
	}
	r.IntegratedKey = key
	r.StandardIdentity = key
}

// mergeGroup collapses every member of a duplicate group onto one
// representative.
func (m *Merger) mergeGroup(target string, members []*models.UnifiedRow, ann Annotations) *models.UnifiedRow {
	rep := members[0]
	for _, c := range members {
		if c.Status == models.StatusBoth || c.Status == models.StatusBothMerged {
			rep = c
			break
		}
	}

	m.rekey(rep, target, ann)
	rep.Status = models.StatusBothMerged

	pm := m.cfg.PrimaryMapping()
	sm := m.cfg.SecondaryMapping()
	for _, member := range members {
		if member == rep {
			continue
		}
		for _, f := range member.Fields {
			if pm != nil && f.Base == pm.RefColumn {
				continue
			}
			if sm != nil && f.Base == sm.RefColumn {
				continue
			}
			rf := rep.Field(f.Base)
			if rf == nil {
				continue
			}
			if m.IsRemarkColumn(f.Base) || m.Policy == PolicyConcatenate {
				rf.RefValue = joinUnique(rf.RefValue, f.RefValue)
				rf.RefReview = joinUnique(rf.RefReview, f.RefReview)
				rf.CompValue = joinUnique(rf.CompValue, f.CompValue)
				rf.CompReview = joinUnique(rf.CompReview, f.CompReview)
			} else {
				fillBlank(&rf.RefValue, f.RefValue)
				fillBlank(&rf.RefReview, f.RefReview)
				fillBlank(&rf.CompValue, f.CompValue)
				fillBlank(&rf.CompReview, f.CompReview)
			}
		}
		if ann != nil {
			ann.migrate(member.IntegratedKey, target)
		}
	}

	// Merged values changed; the diff flags must reflect the new facets.
	for _, f := range rep.Fields {
		if pm != nil && f.Base == pm.RefColumn {
			continue
		}
		if sm != nil && f.Base == sm.RefColumn {
			continue
		}
		d := !match.IsMatch(f.EffectiveRef(), f.EffectiveComp())
		f.Diff = &d
	}

	return rep
}

func fillBlank(dst *string, value string) {
	if strings.TrimSpace(*dst) == "" && strings.TrimSpace(value) != "" {
		*dst = value
	}
}
