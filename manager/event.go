package manager

import (
	"time"

	"github.com/solverforge/solverforge/model"
	"github.com/solverforge/solverforge/score"
)

// EventType distinguishes the kinds of events a Manager emits on its
// solution channel, grounded on deppy's pkg/deppy/pipeline.EventType.
type EventType string

const (
	// EventBestSolution carries a new best solution found during solving.
	EventBestSolution EventType = "best_solution"
	// EventTerminated reports that solving stopped and why.
	EventTerminated EventType = "terminated"
)

// SolutionEvent is the envelope a Manager sends on its output channel.
// Best-solution events overwrite, never queue: the channel holds at most
// one pending event, and a new best solution replaces any
// not-yet-consumed one (spec.md §4.6 "bounded best-solution stream").
type SolutionEvent struct {
	Type      EventType
	CreatedAt time.Time
	Solution  *model.WorkingSolution
	Score     score.Score
	Reason    TerminationReason
}

func newBestSolutionEvent(ws *model.WorkingSolution, sc score.Score) SolutionEvent {
	return SolutionEvent{Type: EventBestSolution, CreatedAt: time.Now(), Solution: ws, Score: sc}
}

func newTerminatedEvent(reason TerminationReason) SolutionEvent {
	return SolutionEvent{Type: EventTerminated, CreatedAt: time.Now(), Reason: reason}
}
