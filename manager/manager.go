package manager

import (
	"github.com/solverforge/solverforge/director"
	"github.com/solverforge/solverforge/score"
)

// Move is one candidate local-search step: a self-contained mutation
// applied only through the director it's handed (spec.md §4.6 "moves").
type Move interface {
	Apply(d *director.ScoreDirector) error
	String() string
}

// MoveProvider yields the candidate moves to try at a given step. Local
// search asks for a fresh batch every step; construction heuristic
// providers typically return one move per call until the solution is
// fully built.
type MoveProvider interface {
	NextMoves(d *director.ScoreDirector) []Move
}

// AcceptFunc decides whether a move's resulting score is accepted as the
// new current position, spec.md §4.6's acceptor (e.g. "accept iff not
// worse", or a simulated-annealing style probabilistic accept).
type AcceptFunc func(current, candidate score.Score) bool

// AcceptImproving accepts a move iff it does not make the score worse.
func AcceptImproving(current, candidate score.Score) bool {
	return !score.Worse(candidate, current)
}

// Manager drives one solve: construction heuristic, then local search,
// streaming best solutions out on Events and stopping per Termination.
type Manager struct {
	director    *director.ScoreDirector
	termination Termination
	tracer      Tracer
	accept      AcceptFunc
	events      chan SolutionEvent
}

// Config configures one Manager.Solve call.
type Config struct {
	Termination Termination
	Tracer      Tracer
	Accept      AcceptFunc
}

// New builds a Manager over an already-constructed director.
func New(d *director.ScoreDirector, cfg Config) *Manager {
	accept := cfg.Accept
	if accept == nil {
		accept = AcceptImproving
	}
	return &Manager{
		director:    d,
		termination: cfg.Termination,
		tracer:      cfg.Tracer,
		accept:      accept,
		// events is bounded to 1 and always drained-then-refilled by
		// send, so the channel never holds more than the single latest
		// pending event (spec.md §4.6 "bounded best-solution stream").
		events: make(chan SolutionEvent, 1),
	}
}

// Events returns the channel best-solution and termination events are
// published on. Callers that don't want to miss intermediate bests must
// drain it promptly; Manager never blocks trying to send — see send.
func (m *Manager) Events() <-chan SolutionEvent { return m.events }

// Solve runs construction heuristic moves (if provided) followed by local
// search moves from search, until termination fires, then publishes a
// terminated event and returns the best score seen.
func (m *Manager) Solve(construction, search MoveProvider) score.Score {
	best := m.director.CalculateScore()
	current := best
	m.send(newBestSolutionEvent(m.director.WorkingSolution(), best))

	var stepCount int64
	runPhase := func(provider MoveProvider, acceptAll bool) (stop bool, reason TerminationReason) {
		for {
			moves := provider.NextMoves(m.director)
			if len(moves) == 0 {
				return false, ""
			}
			for _, mv := range moves {
				candidate, err := m.director.DoAndScore(func(d *director.ScoreDirector) error {
					return mv.Apply(d)
				})
				if err != nil {
					continue
				}
				stepCount++
				if acceptAll || m.accept(current, candidate) {
					m.applyForReal(mv)
					current = candidate
					if score.Better(current, best) {
						best = current
						m.send(newBestSolutionEvent(m.director.WorkingSolution(), best))
					}
				}
				if m.tracer != nil {
					m.tracer.Trace(searchPosition{solution: m.director.WorkingSolution(), score: best, stepCount: stepCount})
				}
				if m.termination != nil {
					if stop, reason := m.termination.ShouldTerminate(stepCount, best); stop {
						return true, reason
					}
				}
			}
		}
	}

	if construction != nil {
		if stop, reason := runPhase(construction, true); stop {
			m.send(newTerminatedEvent(reason))
			return best
		}
	}
	if search != nil {
		if stop, reason := runPhase(search, false); stop {
			m.send(newTerminatedEvent(reason))
			return best
		}
	}
	m.send(newTerminatedEvent(ReasonStepCountLimit))
	return best
}

// applyForReal commits mv against the live director, outside of
// DoAndScore's trial/undo wrapper, once it has been accepted as the new
// current position. DoAndScore's earlier trial of the same move already
// proved it applies cleanly, so this application is not itself wrapped.
func (m *Manager) applyForReal(mv Move) {
	_ = mv.Apply(m.director)
}

// send publishes an event without blocking: a pending, not-yet-consumed
// event is replaced rather than queued.
func (m *Manager) send(e SolutionEvent) {
	select {
	case m.events <- e:
	default:
		select {
		case <-m.events:
		default:
		}
		select {
		case m.events <- e:
		default:
		}
	}
}
