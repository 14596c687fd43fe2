package serio

import "github.com/solverforge/solverforge/model"

// ForEachNode is the for_each(class) source node of spec.md §4.3: it emits
// one tuple per live entity of a class, and retract+insert for one entity
// when before/after_variable_change fires for it.
type ForEachNode[A Fact] struct {
	*tupleStore[Uni[A]]
	ws       *model.WorkingSolution
	classIdx int
	wrap     func(model.EntityRef) A
}

// ForEach builds a for_each(class) source node. wrap converts the stable
// EntityRef into the fact type A the rest of the stream is built over —
// usually model.EntityRef itself (the identity wrap), occasionally a
// thinner typed handle over the same ref.
func ForEach[A Fact](ws *model.WorkingSolution, classIdx int, wrap func(model.EntityRef) A) *ForEachNode[A] {
	n := &ForEachNode[A]{
		tupleStore: newTupleStore[Uni[A]](),
		ws:         ws,
		classIdx:   classIdx,
		wrap:       wrap,
	}
	n.Rebuild()
	return n
}

// ForEachIdentity is the common case: A is model.EntityRef itself.
func ForEachIdentity(ws *model.WorkingSolution, classIdx int) *ForEachNode[model.EntityRef] {
	return ForEach[model.EntityRef](ws, classIdx, func(r model.EntityRef) model.EntityRef { return r })
}

func (n *ForEachNode[A]) ClassIdx() int { return n.classIdx }

func (n *ForEachNode[A]) Rebuild() {
	n.reset()
	for _, ref := range n.ws.AllEntityRefs(n.classIdx) {
		n.emit(Uni[A]{A: n.wrap(ref)}, true)
	}
}

// NotifyBefore emits a retract for ref using the solution state as it
// stands just before a write (called by director.before_variable_change
// for every for_each node over ref's class).
func (n *ForEachNode[A]) NotifyBefore(ref model.EntityRef) {
	n.emit(Uni[A]{A: n.wrap(ref)}, false)
}

// NotifyAfter emits an insert for ref using the solution state as it
// stands just after a write.
func (n *ForEachNode[A]) NotifyAfter(ref model.EntityRef) {
	n.emit(Uni[A]{A: n.wrap(ref)}, true)
}

// NotifyAdded emits a bare insert for a brand-new entity (no matching
// retract — there is nothing to retract, since the entity didn't exist a
// moment ago).
func (n *ForEachNode[A]) NotifyAdded(ref model.EntityRef) {
	n.emit(Uni[A]{A: n.wrap(ref)}, true)
}

// NotifyRemoved emits a bare retract for an entity that is about to be
// removed from the working solution.
func (n *ForEachNode[A]) NotifyRemoved(ref model.EntityRef) {
	n.emit(Uni[A]{A: n.wrap(ref)}, false)
}
