package serio

// IfExists is the if_exists(otherClass, joiner) node of spec.md §4.3: an
// upstream tuple passes through iff at least one tuple currently exists in
// the existence stream with a matching key. IfNotExists is its negation.
// Both are built on the same existence-count toggle: the output membership
// of an upstream tuple flips only when its key's existence count crosses
// 0↔1 (spec.md "existence toggling", distinct from the tuple-level
// refcounting tupleStore already performs on the output itself).
func IfExists[T TupleLike, E TupleLike, K comparable](
	input Node[T], existence Node[E],
	inputKey func(T) K, existenceKey func(E) K,
) Node[T] {
	return newExistenceNode(input, existence, inputKey, existenceKey, false)
}

// IfNotExists passes an upstream tuple through iff no tuple in the
// existence stream currently matches its key.
func IfNotExists[T TupleLike, E TupleLike, K comparable](
	input Node[T], existence Node[E],
	inputKey func(T) K, existenceKey func(E) K,
) Node[T] {
	return newExistenceNode(input, existence, inputKey, existenceKey, true)
}

type existenceNode[T TupleLike, E TupleLike, K comparable] struct {
	*tupleStore[T]
	input        Node[T]
	existence    Node[E]
	inputKey     func(T) K
	existenceKey func(E) K
	inverted     bool
	countByKey   map[K]int
	inputsByKey  map[K]map[interface{}]T
}

func newExistenceNode[T TupleLike, E TupleLike, K comparable](
	input Node[T], existence Node[E],
	inputKey func(T) K, existenceKey func(E) K,
	inverted bool,
) *existenceNode[T, E, K] {
	n := &existenceNode[T, E, K]{
		tupleStore:   newTupleStore[T](),
		input:        input,
		existence:    existence,
		inputKey:     inputKey,
		existenceKey: existenceKey,
		inverted:     inverted,
	}
	input.AddListener(n.handleInput)
	existence.AddListener(n.handleExistence)
	n.Rebuild()
	return n
}

func (n *existenceNode[T, E, K]) passes(count int) bool {
	if n.inverted {
		return count == 0
	}
	return count > 0
}

func (n *existenceNode[T, E, K]) handleInput(d Delta[T]) {
	if d.Insert {
		n.insertInput(d.Tuple)
	} else {
		n.retractInput(d.Tuple)
	}
}

func (n *existenceNode[T, E, K]) insertInput(t T) {
	k := n.inputKey(t)
	if n.inputsByKey[k] == nil {
		n.inputsByKey[k] = map[interface{}]T{}
	}
	n.inputsByKey[k][t.Key()] = t
	if n.passes(n.countByKey[k]) {
		n.emit(t, true)
	}
}

func (n *existenceNode[T, E, K]) retractInput(t T) {
	k := n.inputKey(t)
	if n.passes(n.countByKey[k]) {
		n.emit(t, false)
	}
	if bucket := n.inputsByKey[k]; bucket != nil {
		delete(bucket, t.Key())
		if len(bucket) == 0 {
			delete(n.inputsByKey, k)
		}
	}
}

func (n *existenceNode[T, E, K]) handleExistence(d Delta[E]) {
	k := n.existenceKey(d.Tuple)
	before := n.countByKey[k]
	if d.Insert {
		n.countByKey[k]++
	} else {
		n.countByKey[k]--
		if n.countByKey[k] <= 0 {
			delete(n.countByKey, k)
		}
	}
	after := n.countByKey[k]
	if n.passes(before) == n.passes(after) {
		return
	}
	for _, t := range n.inputsByKey[k] {
		n.emit(t, n.passes(after))
	}
}

func (n *existenceNode[T, E, K]) Rebuild() {
	n.reset()
	n.countByKey = map[K]int{}
	n.inputsByKey = map[K]map[interface{}]T{}
	for _, e := range n.existence.Tuples() {
		n.countByKey[n.existenceKey(e)]++
	}
	for _, t := range n.input.Tuples() {
		k := n.inputKey(t)
		if n.inputsByKey[k] == nil {
			n.inputsByKey[k] = map[interface{}]T{}
		}
		n.inputsByKey[k][t.Key()] = t
		if n.passes(n.countByKey[k]) {
			n.emit(t, true)
		}
	}
}
