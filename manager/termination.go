package manager

import (
	"sync/atomic"
	"time"

	"github.com/solverforge/solverforge/score"
)

// TerminationReason names why a solve stopped, for SolutionEvent.Reason
// and for telemetry.
type TerminationReason string

const (
	ReasonTimeLimit        TerminationReason = "time_limit"
	ReasonStepCountLimit    TerminationReason = "step_count_limit"
	ReasonUnimprovedSteps   TerminationReason = "unimproved_steps"
	ReasonBestScoreReached  TerminationReason = "best_score_reached"
	ReasonDiminishedReturns TerminationReason = "diminished_returns"
	ReasonCancelled         TerminationReason = "cancelled"
)

// Termination decides, after each evaluated move, whether solving should
// stop. Implementations are stateful (they track elapsed time, step
// counts, or a sliding window) and must not be shared across concurrent
// solves.
type Termination interface {
	// ShouldTerminate is called once per step with the step's outcome.
	// If it returns true, reason explains why.
	ShouldTerminate(stepCount int64, best score.Score) (bool, TerminationReason)
}

// CompositeTermination stops as soon as any child termination fires —
// spec.md §4.6's compound termination ("time limit OR unimproved steps OR
// ...").
type CompositeTermination struct{ children []Termination }

func NewCompositeTermination(children ...Termination) *CompositeTermination {
	return &CompositeTermination{children: children}
}

func (c *CompositeTermination) ShouldTerminate(stepCount int64, best score.Score) (bool, TerminationReason) {
	for _, t := range c.children {
		if stop, reason := t.ShouldTerminate(stepCount, best); stop {
			return true, reason
		}
	}
	return false, ""
}

// TimeLimit stops once the wall-clock duration since construction elapses.
type TimeLimit struct {
	deadline time.Time
}

func NewTimeLimit(d time.Duration) *TimeLimit {
	return &TimeLimit{deadline: time.Now().Add(d)}
}

func (t *TimeLimit) ShouldTerminate(int64, score.Score) (bool, TerminationReason) {
	if time.Now().After(t.deadline) {
		return true, ReasonTimeLimit
	}
	return false, ""
}

// StepCountLimit stops once a fixed number of steps have been evaluated.
type StepCountLimit struct{ max int64 }

func NewStepCountLimit(max int64) *StepCountLimit { return &StepCountLimit{max: max} }

func (s *StepCountLimit) ShouldTerminate(stepCount int64, _ score.Score) (bool, TerminationReason) {
	if stepCount >= s.max {
		return true, ReasonStepCountLimit
	}
	return false, ""
}

// UnimprovedStepCountLimit stops once max consecutive steps have passed
// without the best score improving.
type UnimprovedStepCountLimit struct {
	max          int64
	best         score.Score
	unimproved   int64
}

func NewUnimprovedStepCountLimit(max int64) *UnimprovedStepCountLimit {
	return &UnimprovedStepCountLimit{max: max}
}

func (u *UnimprovedStepCountLimit) ShouldTerminate(_ int64, best score.Score) (bool, TerminationReason) {
	if u.best == nil || score.Better(best, u.best) {
		u.best = best
		u.unimproved = 0
		return false, ""
	}
	u.unimproved++
	if u.unimproved >= u.max {
		return true, ReasonUnimprovedSteps
	}
	return false, ""
}

// BestScoreLimit stops once the best score reaches or exceeds target.
type BestScoreLimit struct{ target score.Score }

func NewBestScoreLimit(target score.Score) *BestScoreLimit { return &BestScoreLimit{target: target} }

func (b *BestScoreLimit) ShouldTerminate(_ int64, best score.Score) (bool, TerminationReason) {
	if best != nil && !score.Worse(best, b.target) {
		return true, ReasonBestScoreReached
	}
	return false, ""
}

// DiminishedReturns stops once the best score's least significant level
// has changed by less than minDelta in total across a sliding window of
// the last window steps, the "it's basically flatlined" termination of
// spec.md §4.6.
type DiminishedReturns struct {
	window       int64
	minDelta     float64
	history      []float64
	best         score.Score
}

func NewDiminishedReturns(window int64, minDelta float64) *DiminishedReturns {
	return &DiminishedReturns{window: window, minDelta: minDelta}
}

func (d *DiminishedReturns) ShouldTerminate(_ int64, best score.Score) (bool, TerminationReason) {
	if best == nil {
		return false, ""
	}
	level := 0.0
	if levels := best.Levels(); len(levels) > 0 {
		level = float64(levels[len(levels)-1])
	}
	d.history = append(d.history, level)
	if int64(len(d.history)) > d.window {
		d.history = d.history[int64(len(d.history))-d.window:]
	}
	if int64(len(d.history)) < d.window {
		return false, ""
	}
	delta := d.history[len(d.history)-1] - d.history[0]
	if delta < 0 {
		delta = -delta
	}
	if delta < d.minDelta {
		return true, ReasonDiminishedReturns
	}
	return false, ""
}

// CancellationFlag is a termination that fires once set, used for
// cooperative cancellation requested by the caller of Manager.Solve — an
// atomic flag rather than a context so it composes with CompositeTermination
// the same way every other termination does.
type CancellationFlag struct {
	cancelled atomic.Bool
}

func NewCancellationFlag() *CancellationFlag { return &CancellationFlag{} }

func (c *CancellationFlag) Cancel() { c.cancelled.Store(true) }

func (c *CancellationFlag) ShouldTerminate(int64, score.Score) (bool, TerminationReason) {
	if c.cancelled.Load() {
		return true, ReasonCancelled
	}
	return false, ""
}
