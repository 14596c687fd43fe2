package serio

// Flatten is the flatten(mapFn) node of spec.md §4.3: each upstream tuple
// maps to zero or more output tuples via mapFn. Because mapFn can change
// its result set for the same upstream tuple from one call to the next
// only by the upstream tuple itself changing identity (TupleLike.Key is
// stable across mutation of the facts it wraps — see serio package doc),
// the only two events this node ever sees are a whole upstream tuple
// inserted or retracted; it tracks exactly which output tuples it produced
// for each upstream key so a retract removes precisely those and nothing
// else, per spec.md "flatten multiplicity bookkeeping" (SPEC_FULL.md §3).
func Flatten[T TupleLike, O TupleLike](upstream Node[T], mapFn func(T) []O) Node[O] {
	n := &flattenNode[T, O]{
		tupleStore: newTupleStore[O](),
		upstream:   upstream,
		mapFn:      mapFn,
		produced:   map[interface{}][]O{},
	}
	upstream.AddListener(n.handle)
	n.Rebuild()
	return n
}

type flattenNode[T TupleLike, O TupleLike] struct {
	*tupleStore[O]
	upstream Node[T]
	mapFn    func(T) []O
	produced map[interface{}][]O
}

func (n *flattenNode[T, O]) handle(d Delta[T]) {
	if d.Insert {
		n.insert(d.Tuple)
	} else {
		n.retract(d.Tuple)
	}
}

func (n *flattenNode[T, O]) insert(t T) {
	outs := n.mapFn(t)
	n.produced[t.Key()] = outs
	for _, o := range outs {
		n.emit(o, true)
	}
}

func (n *flattenNode[T, O]) retract(t T) {
	outs := n.produced[t.Key()]
	delete(n.produced, t.Key())
	for _, o := range outs {
		n.emit(o, false)
	}
}

func (n *flattenNode[T, O]) Rebuild() {
	n.reset()
	n.produced = map[interface{}][]O{}
	for _, t := range n.upstream.Tuples() {
		n.insert(t)
	}
}
