package serio

import (
	"github.com/solverforge/solverforge/model"
	"github.com/solverforge/solverforge/score"
)

// Rebuildable is implemented by every node kind; Network walks nodes in
// construction order (always topological, since a node can only be built
// from upstreams that already exist) and calls Rebuild on each.
type Rebuildable interface {
	Rebuild()
}

// VariableObserver is the subset of ForEachNode's API the director needs
// to drive during before/after_variable_change.
type VariableObserver interface {
	NotifyBefore(ref model.EntityRef)
	NotifyAfter(ref model.EntityRef)
	NotifyAdded(ref model.EntityRef)
	NotifyRemoved(ref model.EntityRef)
}

// Network is the assembled constraint stream graph over one working
// solution: every ForEach source node (so variable writes can be
// broadcast to them) plus every terminal node (so a total score can be
// read back), in construction order for rebuild purposes.
type Network struct {
	ws          *model.WorkingSolution
	constraints []Constraint
	sources     map[int][]VariableObserver
	order       []Rebuildable
	zero        score.Score
}

// NewNetwork builds a Network by running provider against a fresh
// ConstraintFactory over ws. Every ForEachIdentity call the provider makes
// registers itself automatically; every other node the provider builds
// must have been passed to factory.Track for Rebuild to see it.
func NewNetwork(ws *model.WorkingSolution, zero score.Score, provider ConstraintProvider) *Network {
	f := NewConstraintFactory(ws)
	constraints := provider(f)
	for _, c := range constraints {
		f.Track(c.Node)
	}
	return &Network{
		ws:          ws,
		constraints: constraints,
		sources:     f.sources,
		order:       f.order,
		zero:        zero,
	}
}

// Constraints returns the named terminal nodes this network was built
// with.
func (n *Network) Constraints() []Constraint { return n.constraints }

// Score sums every constraint's current total into one overall score
// (spec.md §4.5 calculate_score, read directly off the live terminals
// rather than recomputed — this is what makes scoring incremental).
func (n *Network) Score() score.Score {
	total := n.zero
	for _, c := range n.constraints {
		total = total.Add(c.Node.Total())
	}
	return total
}

// ScoreByConstraint reports each constraint's own contribution, for
// analysis.go's explain/breakdown output.
func (n *Network) ScoreByConstraint() map[string]score.Score {
	out := make(map[string]score.Score, len(n.constraints))
	for _, c := range n.constraints {
		out[c.Name] = c.Node.Total()
	}
	return out
}

// NotifyBefore broadcasts a retract for ref to every ForEach source node
// watching ref's class, using solution state as it stands just before a
// write — called by director.before_variable_change.
func (n *Network) NotifyBefore(ref model.EntityRef) {
	for _, obs := range n.sources[ref.ClassIdx] {
		obs.NotifyBefore(ref)
	}
}

// NotifyAfter is the after_variable_change counterpart of NotifyBefore.
func (n *Network) NotifyAfter(ref model.EntityRef) {
	for _, obs := range n.sources[ref.ClassIdx] {
		obs.NotifyAfter(ref)
	}
}

// NotifyAdded broadcasts a bare insert for a brand new entity.
func (n *Network) NotifyAdded(ref model.EntityRef) {
	for _, obs := range n.sources[ref.ClassIdx] {
		obs.NotifyAdded(ref)
	}
}

// NotifyRemoved broadcasts a bare retract for an entity about to be
// removed.
func (n *Network) NotifyRemoved(ref model.EntityRef) {
	for _, obs := range n.sources[ref.ClassIdx] {
		obs.NotifyRemoved(ref)
	}
}

// Rebuild discards all per-node state across the entire network and
// replays every node from its working solution / upstream from scratch,
// in construction order. Used by take_working_solution and by
// assert_full_recompute_matches (spec.md §4.5) — the latter compares this
// result against the incrementally maintained Score() to catch propagation
// bugs.
func (n *Network) Rebuild() {
	for _, r := range n.order {
		r.Rebuild()
	}
}
