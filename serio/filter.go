package serio

// FilterNode is the filter(pred) node of spec.md §4.3: forwards a delta
// iff pred(tuple) holds. Because retract deltas arrive while the solution
// still reflects the pre-write state and insert deltas arrive after the
// write, re-evaluating pred at delta time (rather than caching a prior
// verdict) is sufficient and correct — see serio package doc and
// DESIGN.md.
type FilterNode[T TupleLike] struct {
	*tupleStore[T]
	upstream Node[T]
	pred     func(T) bool
}

// Filter wraps upstream with a predicate. The arity of T is whatever the
// upstream already has — this single generic function serves unary
// through quinary filters alike.
func Filter[T TupleLike](upstream Node[T], pred func(T) bool) *FilterNode[T] {
	n := &FilterNode[T]{tupleStore: newTupleStore[T](), upstream: upstream, pred: pred}
	upstream.AddListener(n.handle)
	n.seed()
	return n
}

func (n *FilterNode[T]) seed() {
	for _, t := range n.upstream.Tuples() {
		if n.pred(t) {
			n.emit(t, true)
		}
	}
}

func (n *FilterNode[T]) handle(d Delta[T]) {
	if n.pred(d.Tuple) {
		n.emit(d.Tuple, d.Insert)
	}
}

// Rebuild assumes upstream has already been rebuilt (the network walks
// nodes in construction order, which is always topological) and
// recomputes this node's own state purely from upstream.Tuples().
func (n *FilterNode[T]) Rebuild() {
	n.reset()
	n.seed()
}
