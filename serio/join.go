package serio

import "sort"

// JoinEqual is the equality joiner of spec.md §4.3 "Joiner semantics": both
// sides are split by a hash index on a user-supplied key function; an
// insert on one side emits one output per matching tuple already indexed
// on the other side.
func JoinEqual[L TupleLike, R TupleLike, K comparable, O TupleLike](
	left Node[L], right Node[R],
	leftKey func(L) K, rightKey func(R) K,
	combine func(L, R) O,
) Node[O] {
	j := &joinEqualNode[L, R, K, O]{
		tupleStore: newTupleStore[O](),
		left:       left, right: right,
		leftKey: leftKey, rightKey: rightKey, combine: combine,
		leftIndex:  map[K]map[interface{}]L{},
		rightIndex: map[K]map[interface{}]R{},
	}
	left.AddListener(j.handleLeft)
	right.AddListener(j.handleRight)
	j.Rebuild()
	return j
}

type joinEqualNode[L TupleLike, R TupleLike, K comparable, O TupleLike] struct {
	*tupleStore[O]
	left       Node[L]
	right      Node[R]
	leftKey    func(L) K
	rightKey   func(R) K
	combine    func(L, R) O
	leftIndex  map[K]map[interface{}]L
	rightIndex map[K]map[interface{}]R
}

func (j *joinEqualNode[L, R, K, O]) handleLeft(d Delta[L]) {
	if d.Insert {
		j.insertLeft(d.Tuple)
	} else {
		j.retractLeft(d.Tuple)
	}
}

func (j *joinEqualNode[L, R, K, O]) handleRight(d Delta[R]) {
	if d.Insert {
		j.insertRight(d.Tuple)
	} else {
		j.retractRight(d.Tuple)
	}
}

func (j *joinEqualNode[L, R, K, O]) insertLeft(l L) {
	k := j.leftKey(l)
	if j.leftIndex[k] == nil {
		j.leftIndex[k] = map[interface{}]L{}
	}
	j.leftIndex[k][l.Key()] = l
	for _, r := range j.rightIndex[k] {
		j.emit(j.combine(l, r), true)
	}
}

func (j *joinEqualNode[L, R, K, O]) retractLeft(l L) {
	k := j.leftKey(l)
	for _, r := range j.rightIndex[k] {
		j.emit(j.combine(l, r), false)
	}
	if bucket := j.leftIndex[k]; bucket != nil {
		delete(bucket, l.Key())
		if len(bucket) == 0 {
			delete(j.leftIndex, k)
		}
	}
}

func (j *joinEqualNode[L, R, K, O]) insertRight(r R) {
	k := j.rightKey(r)
	if j.rightIndex[k] == nil {
		j.rightIndex[k] = map[interface{}]R{}
	}
	j.rightIndex[k][r.Key()] = r
	for _, l := range j.leftIndex[k] {
		j.emit(j.combine(l, r), true)
	}
}

func (j *joinEqualNode[L, R, K, O]) retractRight(r R) {
	k := j.rightKey(r)
	for _, l := range j.leftIndex[k] {
		j.emit(j.combine(l, r), false)
	}
	if bucket := j.rightIndex[k]; bucket != nil {
		delete(bucket, r.Key())
		if len(bucket) == 0 {
			delete(j.rightIndex, k)
		}
	}
}

// Rebuild recomputes this node's state purely from upstream.Tuples() on
// both sides, replaying right before left so that left's seeding sees a
// fully populated right index (matching live insertion order semantics).
func (j *joinEqualNode[L, R, K, O]) Rebuild() {
	j.reset()
	j.leftIndex = map[K]map[interface{}]L{}
	j.rightIndex = map[K]map[interface{}]R{}
	for _, r := range j.right.Tuples() {
		j.insertRight(r)
	}
	for _, l := range j.left.Tuples() {
		j.insertLeft(l)
	}
}

// JoinSelfEqual is the self-join form used to build UniquePair: the same
// upstream feeds both sides, producing every ordered pair (including
// self-pairs). A canonical-ordering Filter on top of this reduces ordered
// pairs down to one emission per unordered pair (spec.md §4.3 "equivalent
// to a self-join with a canonical ordering predicate").
func JoinSelfEqual[A TupleLike, O TupleLike](upstream Node[A], combine func(a, b A) O) Node[O] {
	j := &joinSelfNode[A, O]{
		tupleStore: newTupleStore[O](),
		upstream:   upstream,
		combine:    combine,
		index:      map[interface{}]A{},
	}
	upstream.AddListener(j.handle)
	j.Rebuild()
	return j
}

type joinSelfNode[A TupleLike, O TupleLike] struct {
	*tupleStore[O]
	upstream Node[A]
	combine  func(a, b A) O
	index    map[interface{}]A
}

func (j *joinSelfNode[A, O]) handle(d Delta[A]) {
	if d.Insert {
		j.insert(d.Tuple)
	} else {
		j.retract(d.Tuple)
	}
}

func (j *joinSelfNode[A, O]) insert(a A) {
	for _, b := range j.index {
		j.emit(j.combine(a, b), true)
		if b.Key() != a.Key() {
			j.emit(j.combine(b, a), true)
		}
	}
	j.emit(j.combine(a, a), true)
	j.index[a.Key()] = a
}

func (j *joinSelfNode[A, O]) retract(a A) {
	delete(j.index, a.Key())
	for _, b := range j.index {
		j.emit(j.combine(a, b), false)
		if b.Key() != a.Key() {
			j.emit(j.combine(b, a), false)
		}
	}
	j.emit(j.combine(a, a), false)
}

func (j *joinSelfNode[A, O]) Rebuild() {
	j.reset()
	j.index = map[interface{}]A{}
	for _, a := range j.upstream.Tuples() {
		j.insert(a)
	}
}

// UniquePair builds for_each_unique_pair(class): every unordered pair of
// distinct tuples from upstream, each emitted exactly once, via a self-join
// followed by a canonical ordering filter (invariant I4).
func UniquePair[A TupleLike](upstream Node[A], less func(a, b A) bool) Node[Bi[WrapFact[A], WrapFact[A]]] {
	joined := JoinSelfEqual[A, Bi[WrapFact[A], WrapFact[A]]](upstream, func(a, b A) Bi[WrapFact[A], WrapFact[A]] {
		return Bi[WrapFact[A], WrapFact[A]]{A: WrapFact[A]{V: a}, B: WrapFact[A]{V: b}}
	})
	return Filter(joined, func(t Bi[WrapFact[A], WrapFact[A]]) bool {
		return less(t.A.V, t.B.V)
	})
}

// WrapFact adapts any TupleLike into a Fact so it can sit inside a Bi
// tuple produced by UniquePair.
type WrapFact[A TupleLike] struct{ V A }

func (w WrapFact[A]) FactKey() interface{} { return w.V.Key() }

// --- comparison joiners -----------------------------------------------

// orderedIndex is a sorted-slice multiset keyed by an ordered numeric key,
// used by the comparison joiners below: O(log n) lookup via binary search,
// O(n) insert/retract due to slice shift. DESIGN.md documents this as an
// accepted simplification versus a balanced tree or skip list — spec.md
// only constrains Collector.Value() cost, and these indices aren't
// collectors.
type orderedIndex[K int64 | float64, V any] struct {
	keys   []K
	values [][]V
}

func (idx *orderedIndex[K, V]) insert(k K, v V) {
	i := sort.Search(len(idx.keys), func(i int) bool { return idx.keys[i] >= k })
	if i < len(idx.keys) && idx.keys[i] == k {
		idx.values[i] = append(idx.values[i], v)
		return
	}
	idx.keys = append(idx.keys, 0)
	copy(idx.keys[i+1:], idx.keys[i:])
	idx.keys[i] = k
	idx.values = append(idx.values, nil)
	copy(idx.values[i+1:], idx.values[i:])
	idx.values[i] = []V{v}
}

func (idx *orderedIndex[K, V]) remove(k K, match func(V) bool) {
	i := sort.Search(len(idx.keys), func(i int) bool { return idx.keys[i] >= k })
	if i >= len(idx.keys) || idx.keys[i] != k {
		return
	}
	bucket := idx.values[i]
	for j, v := range bucket {
		if match(v) {
			idx.values[i] = append(bucket[:j], bucket[j+1:]...)
			break
		}
	}
	if len(idx.values[i]) == 0 {
		idx.keys = append(idx.keys[:i], idx.keys[i+1:]...)
		idx.values = append(idx.values[:i], idx.values[i+1:]...)
	}
}

func (idx *orderedIndex[K, V]) lessThan(k K) []V {
	i := sort.Search(len(idx.keys), func(i int) bool { return idx.keys[i] >= k })
	return idx.flatten(idx.values[:i])
}

func (idx *orderedIndex[K, V]) lessEqual(k K) []V {
	i := sort.Search(len(idx.keys), func(i int) bool { return idx.keys[i] > k })
	return idx.flatten(idx.values[:i])
}

func (idx *orderedIndex[K, V]) greaterThan(k K) []V {
	i := sort.Search(len(idx.keys), func(i int) bool { return idx.keys[i] > k })
	return idx.flatten(idx.values[i:])
}

func (idx *orderedIndex[K, V]) greaterEqual(k K) []V {
	i := sort.Search(len(idx.keys), func(i int) bool { return idx.keys[i] >= k })
	return idx.flatten(idx.values[i:])
}

func (idx *orderedIndex[K, V]) flatten(buckets [][]V) []V {
	var out []V
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

// comparisonJoinNode implements both JoinLessThan and JoinLessOrEqual: it
// emits (l,r) iff leftKey(l) < rightKey(r) (strict=true) or <= (strict=
// false). JoinOverlapping is built separately below.
type comparisonJoinNode[L TupleLike, R TupleLike, K int64 | float64, O TupleLike] struct {
	*tupleStore[O]
	left     Node[L]
	right    Node[R]
	leftKey  func(L) K
	rightKey func(R) K
	combine  func(L, R) O
	strict   bool
	leftIdx  orderedIndex[K, L]
	rightIdx orderedIndex[K, R]
}

func joinComparison[L TupleLike, R TupleLike, K int64 | float64, O TupleLike](
	left Node[L], right Node[R],
	leftKey func(L) K, rightKey func(R) K,
	combine func(L, R) O,
	strict bool,
) *comparisonJoinNode[L, R, K, O] {
	j := &comparisonJoinNode[L, R, K, O]{
		tupleStore: newTupleStore[O](),
		left:       left, right: right,
		leftKey: leftKey, rightKey: rightKey, combine: combine,
		strict: strict,
	}
	left.AddListener(j.handleLeft)
	right.AddListener(j.handleRight)
	j.Rebuild()
	return j
}

// JoinLessThan pairs left tuples with right tuples whose ordered key is
// strictly greater (emits (l,r) iff leftKey(l) < rightKey(r)).
func JoinLessThan[L TupleLike, R TupleLike, K int64 | float64, O TupleLike](
	left Node[L], right Node[R],
	leftKey func(L) K, rightKey func(R) K,
	combine func(L, R) O,
) Node[O] {
	return joinComparison(left, right, leftKey, rightKey, combine, true)
}

// JoinLessOrEqual is JoinLessThan with leftKey(l) <= rightKey(r).
func JoinLessOrEqual[L TupleLike, R TupleLike, K int64 | float64, O TupleLike](
	left Node[L], right Node[R],
	leftKey func(L) K, rightKey func(R) K,
	combine func(L, R) O,
) Node[O] {
	return joinComparison(left, right, leftKey, rightKey, combine, false)
}

func (j *comparisonJoinNode[L, R, K, O]) insertLeft(l L) {
	k := j.leftKey(l)
	var matches []R
	if j.strict {
		matches = j.rightIdx.greaterThan(k)
	} else {
		matches = j.rightIdx.greaterEqual(k)
	}
	for _, r := range matches {
		j.emit(j.combine(l, r), true)
	}
	j.leftIdx.insert(k, l)
}

func (j *comparisonJoinNode[L, R, K, O]) retractLeft(l L) {
	k := j.leftKey(l)
	var matches []R
	if j.strict {
		matches = j.rightIdx.greaterThan(k)
	} else {
		matches = j.rightIdx.greaterEqual(k)
	}
	for _, r := range matches {
		j.emit(j.combine(l, r), false)
	}
	j.leftIdx.remove(k, func(v L) bool { return v.Key() == l.Key() })
}

func (j *comparisonJoinNode[L, R, K, O]) insertRight(r R) {
	k := j.rightKey(r)
	var matches []L
	if j.strict {
		matches = j.leftIdx.lessThan(k)
	} else {
		matches = j.leftIdx.lessEqual(k)
	}
	for _, l := range matches {
		j.emit(j.combine(l, r), true)
	}
	j.rightIdx.insert(k, r)
}

func (j *comparisonJoinNode[L, R, K, O]) retractRight(r R) {
	k := j.rightKey(r)
	var matches []L
	if j.strict {
		matches = j.leftIdx.lessThan(k)
	} else {
		matches = j.leftIdx.lessEqual(k)
	}
	for _, l := range matches {
		j.emit(j.combine(l, r), false)
	}
	j.rightIdx.remove(k, func(v R) bool { return v.Key() == r.Key() })
}

func (j *comparisonJoinNode[L, R, K, O]) handleLeft(d Delta[L]) {
	if d.Insert {
		j.insertLeft(d.Tuple)
	} else {
		j.retractLeft(d.Tuple)
	}
}

func (j *comparisonJoinNode[L, R, K, O]) handleRight(d Delta[R]) {
	if d.Insert {
		j.insertRight(d.Tuple)
	} else {
		j.retractRight(d.Tuple)
	}
}

func (j *comparisonJoinNode[L, R, K, O]) Rebuild() {
	j.reset()
	j.leftIdx = orderedIndex[K, L]{}
	j.rightIdx = orderedIndex[K, R]{}
	for _, r := range j.right.Tuples() {
		j.insertRight(r)
	}
	for _, l := range j.left.Tuples() {
		j.insertLeft(l)
	}
}

// JoinOverlapping pairs tuples whose [start,end) ranges overlap, the
// overlapping comparison joiner of spec.md §4.3. Implemented as a
// brute-force scan over the opposite side's current tuples per insert —
// the interval-tree optimization spec.md suggests is left as a documented
// simplification (DESIGN.md), since overlap isn't reducible to a single
// ordered-key comparison the way less/less_equal are.
func JoinOverlapping[L TupleLike, R TupleLike, O TupleLike](
	left Node[L], right Node[R],
	leftRange func(L) (start, end int64),
	rightRange func(R) (start, end int64),
	combine func(L, R) O,
) Node[O] {
	j := &overlapJoinNode[L, R, O]{
		tupleStore: newTupleStore[O](),
		left:       left, right: right,
		leftRange: leftRange, rightRange: rightRange, combine: combine,
	}
	left.AddListener(j.handleLeft)
	right.AddListener(j.handleRight)
	j.Rebuild()
	return j
}

type overlapJoinNode[L TupleLike, R TupleLike, O TupleLike] struct {
	*tupleStore[O]
	left       Node[L]
	right      Node[R]
	leftRange  func(L) (int64, int64)
	rightRange func(R) (int64, int64)
	combine    func(L, R) O
	leftSet    map[interface{}]L
	rightSet   map[interface{}]R
}

func overlaps(ls, le, rs, re int64) bool { return ls < re && rs < le }

func (j *overlapJoinNode[L, R, O]) handleLeft(d Delta[L]) {
	if d.Insert {
		j.insertLeft(d.Tuple)
	} else {
		j.retractLeft(d.Tuple)
	}
}

func (j *overlapJoinNode[L, R, O]) handleRight(d Delta[R]) {
	if d.Insert {
		j.insertRight(d.Tuple)
	} else {
		j.retractRight(d.Tuple)
	}
}

func (j *overlapJoinNode[L, R, O]) insertLeft(l L) {
	ls, le := j.leftRange(l)
	for _, r := range j.rightSet {
		rs, re := j.rightRange(r)
		if overlaps(ls, le, rs, re) {
			j.emit(j.combine(l, r), true)
		}
	}
	if j.leftSet == nil {
		j.leftSet = map[interface{}]L{}
	}
	j.leftSet[l.Key()] = l
}

func (j *overlapJoinNode[L, R, O]) retractLeft(l L) {
	ls, le := j.leftRange(l)
	for _, r := range j.rightSet {
		rs, re := j.rightRange(r)
		if overlaps(ls, le, rs, re) {
			j.emit(j.combine(l, r), false)
		}
	}
	delete(j.leftSet, l.Key())
}

func (j *overlapJoinNode[L, R, O]) insertRight(r R) {
	rs, re := j.rightRange(r)
	for _, l := range j.leftSet {
		ls, le := j.leftRange(l)
		if overlaps(ls, le, rs, re) {
			j.emit(j.combine(l, r), true)
		}
	}
	if j.rightSet == nil {
		j.rightSet = map[interface{}]R{}
	}
	j.rightSet[r.Key()] = r
}

func (j *overlapJoinNode[L, R, O]) retractRight(r R) {
	rs, re := j.rightRange(r)
	for _, l := range j.leftSet {
		ls, le := j.leftRange(l)
		if overlaps(ls, le, rs, re) {
			j.emit(j.combine(l, r), false)
		}
	}
	delete(j.rightSet, r.Key())
}

func (j *overlapJoinNode[L, R, O]) Rebuild() {
	j.reset()
	j.leftSet = map[interface{}]L{}
	j.rightSet = map[interface{}]R{}
	for _, r := range j.right.Tuples() {
		j.insertRight(r)
	}
	for _, l := range j.left.Tuples() {
		j.insertLeft(l)
	}
}
