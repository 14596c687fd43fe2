package director

import (
	"fmt"

	"github.com/solverforge/solverforge/score"
	"github.com/solverforge/solverforge/sferr"
)

// Analysis is a named breakdown of the current score by constraint,
// spec.md §4.5's analyze() result.
type Analysis struct {
	Total       score.Score
	ByConstraint map[string]score.Score
}

// Analyze reports the current total score alongside each constraint's own
// contribution, read straight off the live network — no recompute.
func (d *ScoreDirector) Analyze() Analysis {
	return Analysis{
		Total:        d.network.Score(),
		ByConstraint: d.network.ScoreByConstraint(),
	}
}

// String renders an Analysis as a human-readable report: the total, then
// one line per constraint in map iteration order (the lines are not sorted).
func (a Analysis) String() string {
	s := fmt.Sprintf("total: %s\n", a.Total)
	for name, contribution := range a.ByConstraint {
		s += fmt.Sprintf("  %s: %s\n", name, contribution)
	}
	return s
}

// AssertFullRecomputeMatches rebuilds the network from scratch and
// compares the result against the incrementally maintained score,
// returning an *sferr.Error (Kind InvariantViolation) if they disagree.
// This is the network's self-check for propagation bugs (spec.md §4.5) —
// intended for test suites and debug builds, not the hot solving path,
// since it pays for a full rescan.
func (d *ScoreDirector) AssertFullRecomputeMatches() error {
	incremental := d.network.Score()
	d.network.Rebuild()
	recomputed := d.network.Score()
	if !score.Equal(incremental, recomputed) {
		return sferr.New(sferr.InvariantViolation,
			fmt.Sprintf("incremental score %s != recomputed score %s", incremental, recomputed))
	}
	return nil
}
