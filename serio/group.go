package serio

import "github.com/solverforge/solverforge/serio/collector"

// GroupTuple is the output of Group: one tuple per distinct key, carrying
// the collector's current aggregated value.
type GroupTuple[K comparable, R any] struct {
	GroupKey K
	Value    R
}

func (g GroupTuple[K, R]) Key() interface{} { return g.GroupKey }

type groupState[I any, R any] struct {
	collector  collector.Collector[I, R]
	count      int
	lastValue  R
	hasEmitted bool
}

// Group is the group(keyFn, collector) node of spec.md §4.3: every upstream
// tuple is mapped to an item via itemFn and bucketed by keyFn(tuple); each
// bucket's collector produces one GroupTuple per key. A value change inside
// a bucket retracts the bucket's previous GroupTuple (if one was ever
// emitted) and inserts the new one; a bucket whose count reaches zero is
// deleted without a replacement insert.
func Group[T TupleLike, I any, K comparable, R any](
	upstream Node[T],
	keyFn func(T) K,
	itemFn func(T) I,
	newCollector collector.Factory[I, R],
) Node[GroupTuple[K, R]] {
	g := &groupNode[T, I, K, R]{
		tupleStore:   newTupleStore[GroupTuple[K, R]](),
		upstream:     upstream,
		keyFn:        keyFn,
		itemFn:       itemFn,
		newCollector: newCollector,
		states:       map[K]*groupState[I, R]{},
	}
	upstream.AddListener(g.handle)
	g.Rebuild()
	return g
}

type groupNode[T TupleLike, I any, K comparable, R any] struct {
	*tupleStore[GroupTuple[K, R]]
	upstream     Node[T]
	keyFn        func(T) K
	itemFn       func(T) I
	newCollector collector.Factory[I, R]
	states       map[K]*groupState[I, R]
}

func (g *groupNode[T, I, K, R]) handle(d Delta[T]) {
	if d.Insert {
		g.insert(d.Tuple)
	} else {
		g.retract(d.Tuple)
	}
}

func (g *groupNode[T, I, K, R]) insert(t T) {
	k := g.keyFn(t)
	st := g.states[k]
	if st == nil {
		st = &groupState[I, R]{collector: g.newCollector()}
		g.states[k] = st
	}
	if st.hasEmitted {
		g.emit(GroupTuple[K, R]{GroupKey: k, Value: st.lastValue}, false)
	}
	st.collector.Insert(g.itemFn(t))
	st.count++
	st.lastValue = st.collector.Value()
	st.hasEmitted = true
	g.emit(GroupTuple[K, R]{GroupKey: k, Value: st.lastValue}, true)
}

func (g *groupNode[T, I, K, R]) retract(t T) {
	k := g.keyFn(t)
	st := g.states[k]
	if st == nil {
		return
	}
	if st.hasEmitted {
		g.emit(GroupTuple[K, R]{GroupKey: k, Value: st.lastValue}, false)
	}
	st.collector.Retract(g.itemFn(t))
	st.count--
	if st.count <= 0 {
		delete(g.states, k)
		return
	}
	st.lastValue = st.collector.Value()
	g.emit(GroupTuple[K, R]{GroupKey: k, Value: st.lastValue}, true)
}

// Rebuild recomputes every group from upstream.Tuples() from scratch.
func (g *groupNode[T, I, K, R]) Rebuild() {
	g.reset()
	g.states = map[K]*groupState[I, R]{}
	for _, t := range g.upstream.Tuples() {
		g.insert(t)
	}
}
