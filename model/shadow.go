package model

import "github.com/solverforge/solverforge/sferr"

// ShadowPropagator recomputes one shadow variable from the rest of the
// working solution (spec.md §3 "shadow variable", §4.5 "Shadow variables").
// Registered per shadow variable name; the director looks it up by the
// VariableDescriptor.ShadowSource field.
type ShadowPropagator interface {
	// Name identifies this propagator; must match some variable
	// descriptor's ShadowSource.
	Name() string
	// Sources lists the names this propagator reads from. A name equal to
	// another propagator's Name() orders this propagator after that one;
	// any other name is ignored. Used only to build the dependency DAG for
	// ordering — the propagator itself may read anything reachable from the
	// entity at loc.
	Sources() []string
	// Propagate recomputes the shadow value for the entity at loc and
	// returns it without writing it. The director compares it with the
	// current value and, if it differs, writes it inside its own
	// before/after notification to SERIO.
	Propagate(ws *WorkingSolution, loc Location) interface{}
}

// ShadowGraph orders shadow propagators into a deterministic topological
// sequence and detects cycles (Open Question (a): "adopt deterministic
// topological order, documented").
type ShadowGraph struct {
	order []ShadowPropagator
}

// BuildShadowGraph computes a stable topological order over propagators
// given their declared Sources() dependency names. Ties (propagators with
// no relative ordering constraint) are broken by input order, making the
// result deterministic for a fixed registration order.
func BuildShadowGraph(propagators []ShadowPropagator) (*ShadowGraph, error) {
	byName := make(map[string]ShadowPropagator, len(propagators))
	for _, p := range propagators {
		byName[p.Name()] = p
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(propagators))
	order := make([]ShadowPropagator, 0, len(propagators))

	var visit func(p ShadowPropagator) error
	visit = func(p ShadowPropagator) error {
		switch state[p.Name()] {
		case visited:
			return nil
		case visiting:
			return sferr.New(sferr.CycleInShadowGraph, p.Name())
		}
		state[p.Name()] = visiting
		for _, dep := range p.Sources() {
			depProp, ok := byName[dep]
			if !ok {
				continue // depends on a non-shadow (ordinary) variable; no ordering constraint
			}
			if err := visit(depProp); err != nil {
				return err
			}
		}
		state[p.Name()] = visited
		order = append(order, p)
		return nil
	}

	for _, p := range propagators {
		if err := visit(p); err != nil {
			return nil, err
		}
	}
	return &ShadowGraph{order: order}, nil
}

// Order returns the propagators in deterministic dependency order: every
// propagator appears after every propagator it depends on.
func (g *ShadowGraph) Order() []ShadowPropagator { return g.order }
