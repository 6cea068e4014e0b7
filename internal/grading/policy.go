// Package grading implements the result computation core: grade scale
// resolution, component aggregation, period-weighted averaging, cohort
// ranking and promotion eligibility. It performs no I/O; callers load
// the inputs and persist the outputs.
package grading

import (
	"fmt"
	"sort"
)

// GradeBand maps an inclusive score range to a grade label and remark.
type GradeBand struct {
	MinScore float64
	MaxScore float64
	Grade    string
	Remark   string
}

// Policy is a school's grading policy: the configured scale plus the
// pass mark used for promotion decisions.
type Policy struct {
	bands    []GradeBand
	PassMark float64
}

// NewPolicy builds a policy from scale bands. Bands are kept sorted by
// descending MinScore so that resolution order is deterministic even
// for scales configured before overlap validation existed.
func NewPolicy(bands []GradeBand, passMark float64) Policy {
	sorted := make([]GradeBand, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinScore > sorted[j].MinScore
	})
	return Policy{bands: sorted, PassMark: passMark}
}

// DefaultPassMark is applied when a school has not configured one.
const DefaultPassMark = 40

// DefaultPolicy returns the fallback scale used when a school has no
// configured grade scale. Adjacent bands share a boundary; the higher
// band wins at the shared point, so 90 resolves to A+ and 89.5 to A.
func DefaultPolicy() Policy {
	return NewPolicy([]GradeBand{
		{MinScore: 90, MaxScore: 100, Grade: "A+", Remark: "Excellent"},
		{MinScore: 80, MaxScore: 90, Grade: "A", Remark: "Very Good"},
		{MinScore: 70, MaxScore: 80, Grade: "B", Remark: "Good"},
		{MinScore: 60, MaxScore: 70, Grade: "C", Remark: "Fair"},
		{MinScore: 50, MaxScore: 60, Grade: "D", Remark: "Pass"},
		{MinScore: 0, MaxScore: 50, Grade: "F", Remark: "Fail"},
	}, DefaultPassMark)
}

// Bands returns the policy's scale in resolution order.
func (p Policy) Bands() []GradeBand {
	out := make([]GradeBand, len(p.bands))
	copy(out, p.bands)
	return out
}

// Resolve returns the grade band for a score: the first band, in
// descending MinScore order, where MinScore <= score <= MaxScore.
// ok is false when no band covers the score; a gap in the scale is not
// an error, the result simply carries no grade.
func (p Policy) Resolve(score float64) (GradeBand, bool) {
	for _, b := range p.bands {
		if score >= b.MinScore && score <= b.MaxScore {
			return b, true
		}
	}
	return GradeBand{}, false
}

// Eligible reports whether an annual average meets the pass mark.
// The boundary is inclusive: an average exactly at the pass mark passes.
func (p Policy) Eligible(annualAverage float64) bool {
	return annualAverage >= p.PassMark
}

// ValidateBands rejects malformed and overlapping scale bands. Bands
// may touch at a shared endpoint (the higher band wins there) but may
// not intersect in their interiors. Gaps are permitted.
func ValidateBands(bands []GradeBand) error {
	for _, b := range bands {
		if b.MinScore > b.MaxScore {
			return fmt.Errorf("band %q: min score %.2f exceeds max score %.2f", b.Grade, b.MinScore, b.MaxScore)
		}
		if b.Grade == "" {
			return fmt.Errorf("band [%.2f, %.2f]: grade label required", b.MinScore, b.MaxScore)
		}
	}
	sorted := make([]GradeBand, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinScore < sorted[j].MinScore
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.MinScore < prev.MaxScore {
			return fmt.Errorf("bands %q and %q overlap", prev.Grade, cur.Grade)
		}
	}
	return nil
}
