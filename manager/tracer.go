// Package manager implements the solver manager of spec.md §4.6: owns the
// local search loop, best-solution streaming, termination, cancellation,
// and partitioned search over independent sub-problems.
package manager

import (
	"github.com/solverforge/solverforge/model"
	"github.com/solverforge/solverforge/score"
)

// SearchPosition is what a Tracer observes at each step, grounded on
// deppy's pkg/deppy.SearchPosition/Tracer — generalized here from a SAT
// search's variable assignment to a local-search step's score and move
// count.
type SearchPosition interface {
	Solution() *model.WorkingSolution
	Score() score.Score
	StepCount() int64
}

// Tracer receives one notification per evaluated move, accepted or not.
// Implementations must not block the solving goroutine for long; Telemetry
// is the built-in, non-blocking tracer. A Manager whose Config.Tracer is
// nil traces nothing.
type Tracer interface {
	Trace(p SearchPosition)
}

type searchPosition struct {
	solution  *model.WorkingSolution
	score     score.Score
	stepCount int64
}

func (p searchPosition) Solution() *model.WorkingSolution { return p.solution }
func (p searchPosition) Score() score.Score                { return p.score }
func (p searchPosition) StepCount() int64                  { return p.stepCount }
