package serio

import "github.com/solverforge/solverforge/model"

// ConstraintFactory is the entry point a constraint provider uses to build
// constraint streams over a working solution (spec.md §4.4 "Constraint
// stream factory"). Go has no generic methods, so unlike the source's
// fluent builder chain, composition past the entry point is done with the
// package-level functions (Filter, JoinEqual, Group, Flatten, IfExists,
// Penalize, ...) taking the previous stage's Node as an argument — a
// documented deviation, not an oversight (DESIGN.md). Every node built this
// way must be registered back with Track so Network.Rebuild (used by
// take_working_solution and assert_full_recompute_matches) can walk the
// whole chain in construction order.
type ConstraintFactory struct {
	ws      *model.WorkingSolution
	order   []Rebuildable
	sources map[int][]VariableObserver
}

// NewConstraintFactory wraps a working solution for constraint stream
// construction.
func NewConstraintFactory(ws *model.WorkingSolution) *ConstraintFactory {
	return &ConstraintFactory{ws: ws, sources: map[int][]VariableObserver{}}
}

// WorkingSolution exposes the solution being built over, for constraint
// providers that need to read entity fields the generic stream API
// doesn't surface (e.g. resolving a fact back to its concrete entity type
// to read a fixed, non-variable field).
func (f *ConstraintFactory) WorkingSolution() *model.WorkingSolution { return f.ws }

// ForEachIdentity starts a stream of model.EntityRef over every entity of
// the named class — the common case, where no richer fact wrapper is
// needed. The returned node is registered automatically as both a
// variable-change source for its class and a rebuild step; nothing further
// needs to be done for it.
func (f *ConstraintFactory) ForEachIdentity(className string) (*ForEachNode[model.EntityRef], error) {
	idx, ok := f.ws.Descriptor.ClassIndex(className)
	if !ok {
		return nil, classNotFound(className)
	}
	n := ForEachIdentity(f.ws, idx)
	f.order = append(f.order, n)
	f.sources[idx] = append(f.sources[idx], n)
	return n, nil
}

// Track registers an intermediate or terminal node built with one of the
// package-level stream functions (Filter, JoinEqual, Group, Flatten,
// IfExists, Penalize, Reward, Impact, ...) so Network.Rebuild walks it in
// construction order. Every node downstream of a ForEachIdentity call must
// be tracked in the order it was built; skipping one leaves it stale after
// a rebuild.
func (f *ConstraintFactory) Track(n Rebuildable) {
	f.order = append(f.order, n)
}

func classNotFound(name string) error {
	return &classNotFoundError{name: name}
}

type classNotFoundError struct{ name string }

func (e *classNotFoundError) Error() string { return "serio: unknown class " + e.name }

// Constraint names one terminal node for reporting and debugging (spec.md
// §4.3's constraint identity, used by analysis.go to attribute score
// contributions to a constraint by name).
type Constraint struct {
	Name string
	Node ScoreNode
}

// ConstraintProvider builds the full set of constraints over a factory —
// the unit a user supplies to the director (spec.md §4.4).
type ConstraintProvider func(f *ConstraintFactory) []Constraint
