// Package director implements the score director of spec.md §4.5: the
// object that brackets every variable write with before/after
// notifications to the constraint stream network, keeps an exact undo
// stack for move-based local search, and answers calculate_score by
// reading the network's live terminals.
package director

import (
	"github.com/solverforge/solverforge/model"
	"github.com/solverforge/solverforge/score"
	"github.com/solverforge/solverforge/sferr"
)

// Network is the subset of *serio.Network the director depends on —
// narrowed to an interface so director_suite_test.go can supply a fake.
type Network interface {
	NotifyBefore(ref model.EntityRef)
	NotifyAfter(ref model.EntityRef)
	NotifyAdded(ref model.EntityRef)
	NotifyRemoved(ref model.EntityRef)
	Rebuild()
	Score() score.Score
	ScoreByConstraint() map[string]score.Score
}

// undoFn exactly reverses one mutation already applied to the working
// solution. The undo stack is the one place in the hot path where dynamic
// dispatch (a slice of closures) is acceptable — move application is not
// performance-critical in the way delta propagation is (SPEC_FULL.md §3).
type undoFn func() error

// ScoreDirector owns one working solution and the constraint network
// scoring it, and is the sole path through which variables are ever
// written during a solve.
type ScoreDirector struct {
	ws      *model.WorkingSolution
	network Network
	shadows *model.ShadowGraph
	undo    []undoFn
}

// New builds a director over a working solution, its constraint network,
// and its shadow variable propagation order.
func New(ws *model.WorkingSolution, network Network, shadows *model.ShadowGraph) *ScoreDirector {
	return &ScoreDirector{ws: ws, network: network, shadows: shadows}
}

// WorkingSolution exposes the solution this director is scoring, for move
// implementations to read current variable values.
func (d *ScoreDirector) WorkingSolution() *model.WorkingSolution { return d.ws }

// BeforeVariableChange must be called immediately before writing a genuine
// variable. It lets the network retract ref's current tuples from every
// stream while the old value is still live, implementing the two-wave
// retract-before-insert propagation order (invariant I3).
func (d *ScoreDirector) BeforeVariableChange(ref model.EntityRef) {
	d.network.NotifyBefore(ref)
}

// AfterVariableChange must be called immediately after the write. It lets
// the network re-insert ref's tuples against the new value.
func (d *ScoreDirector) AfterVariableChange(ref model.EntityRef) {
	d.network.NotifyAfter(ref)
	d.propagateShadows(ref)
}

// ChangeVariable performs one bracketed variable write and pushes its
// undo onto the stack: before-notify, write, after-notify, in that order.
// Returns the old value for callers that want it without a second read.
func (d *ScoreDirector) ChangeVariable(loc model.Location, varIdx int, newValue interface{}) (interface{}, error) {
	ref := model.EntityRef{ClassIdx: loc.ClassIdx, ID: d.ws.EntityAt(loc.ClassIdx, loc.Pos).ID()}
	d.BeforeVariableChange(ref)
	oldValue, err := d.ws.WriteVariable(loc, varIdx, newValue)
	if err != nil {
		// The write never happened; nothing to notify after, and nothing
		// to undo, but the before-retract already fired. Restore by
		// re-running the after-notify against the (unchanged) current
		// value so the retract's matching insert still lands.
		d.network.NotifyAfter(ref)
		return nil, err
	}
	d.AfterVariableChange(ref)
	d.undo = append(d.undo, func() error {
		// Reverting goes through ChangeVariable for its bracketing, which
		// pushes an undo of its own; drop it so the stack actually shrinks.
		depth := len(d.undo)
		_, uerr := d.ChangeVariable(loc, varIdx, oldValue)
		d.undo = d.undo[:depth]
		return uerr
	})
	return oldValue, nil
}

// AddEntity adds a new entity to the working solution and broadcasts its
// initial insert to every source node watching the entity's class.
func (d *ScoreDirector) AddEntity(classIdx int, e model.Entity) model.Location {
	loc := d.ws.AddEntity(classIdx, e)
	ref := model.EntityRef{ClassIdx: classIdx, ID: e.ID()}
	d.network.NotifyAdded(ref)
	d.undo = append(d.undo, func() error {
		d.RemoveEntity(loc)
		return nil
	})
	return loc
}

// RemoveEntity retracts an entity's tuples and removes it from the working
// solution.
func (d *ScoreDirector) RemoveEntity(loc model.Location) {
	e := d.ws.EntityAt(loc.ClassIdx, loc.Pos)
	ref := model.EntityRef{ClassIdx: loc.ClassIdx, ID: e.ID()}
	d.network.NotifyRemoved(ref)
	d.ws.RemoveEntity(loc)
}

// UndoMark returns the current depth of the undo stack, to be passed back
// to UndoTo later — the do_and_score/undo pairing of spec.md §4.5.
func (d *ScoreDirector) UndoMark() int { return len(d.undo) }

// UndoTo pops and reverses every undo entry pushed since mark, in exact
// reverse order, restoring the working solution (and its score) to
// whatever they were at that mark.
func (d *ScoreDirector) UndoTo(mark int) error {
	for len(d.undo) > mark {
		fn := d.undo[len(d.undo)-1]
		d.undo = d.undo[:len(d.undo)-1]
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// DoAndScore applies move (which must perform its writes only through this
// director), reads the resulting score, then unwinds back to the
// pre-move state — the standard move-evaluation pattern used by local
// search to try a move without committing to it. Recovers a score
// overflow panic (score.Score arithmetic panics rather than returning an
// error — see score/traits.go) and converts it into a returned
// *sferr.Error so callers never see a raw panic escape move evaluation.
func (d *ScoreDirector) DoAndScore(move func(*ScoreDirector) error) (result score.Score, err error) {
	mark := d.UndoMark()
	defer func() {
		if r := recover(); r != nil {
			if serr, ok := r.(*sferr.Error); ok {
				err = serr
			} else {
				panic(r)
			}
		}
		if uerr := d.UndoTo(mark); uerr != nil && err == nil {
			err = uerr
		}
	}()
	if merr := move(d); merr != nil {
		return nil, merr
	}
	return d.network.Score(), nil
}

// CalculateScore reads the current total score directly off the network's
// live terminals — O(1) relative to a full rescan, since every terminal
// already maintains its running total incrementally.
func (d *ScoreDirector) CalculateScore() score.Score {
	return d.network.Score()
}

// ScoreByConstraint reports each constraint's own contribution to the
// current score, for analysis/explanation.
func (d *ScoreDirector) ScoreByConstraint() map[string]score.Score {
	return d.network.ScoreByConstraint()
}

// TakeWorkingSolution discards all incremental state and rebuilds the
// entire constraint network from the working solution's current values —
// the director's equivalent of spec.md's take_working_solution.
func (d *ScoreDirector) TakeWorkingSolution() {
	d.network.Rebuild()
	d.undo = d.undo[:0]
}

func (d *ScoreDirector) propagateShadows(ref model.EntityRef) {
	if d.shadows == nil {
		return
	}
	loc, ok := d.ws.Locate(ref.ID)
	if !ok {
		return
	}
	for _, p := range d.shadows.Order() {
		for _, src := range p.Sources() {
			_ = src // shadow propagators declare sources for graph ordering only
		}
		newValue := p.Propagate(d.ws, loc)
		varIdx := -1
		for i, v := range d.ws.Descriptor.Classes[loc.ClassIdx].Variables {
			if v.ShadowSource == p.Name() {
				varIdx = i
				break
			}
		}
		if varIdx < 0 {
			continue
		}
		current, _ := d.ws.Value(ref, varIdx)
		if current == newValue {
			continue
		}
		d.network.NotifyBefore(ref)
		if _, err := d.ws.WriteVariable(loc, varIdx, newValue); err != nil {
			continue
		}
		d.network.NotifyAfter(ref)
	}
}
