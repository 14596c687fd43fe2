// Package serio implements the incremental scoring dataflow engine of
// spec.md §4.3: a directed acyclic network of stream nodes that maintains,
// for every node, the exact multiset of tuples satisfying its upstream
// pattern, and emits insert/retract delta events as the working solution is
// mutated one variable at a time.
//
// Node kinds are a closed family (for-each, filter, join, if_exists/
// if_not_exists, group, flatten, penalize/reward/impact) per design note §9.
// Arity (unary..quinary) is expressed with Go generics rather than five
// hand-duplicated families: every node constructor (Filter, JoinEqual,
// Group, IfExists, Flatten, Penalize/Reward/Impact) is a single generic function
// parameterized over TupleLike, so "for_each(class) |> filter |> join" at
// any arity monomorphizes the same code, matching the source's
// "zero-erasure" generic architecture without Go needing five copies.
package serio

// Fact is implemented by anything that can appear as one slot of a tuple.
// FactKey must return a comparable value that identifies the fact stably —
// by entity id or (class,pos), never by a transient field value (spec.md
// §4.3 "Fingerprinting and identity"). model.EntityRef implements this.
type Fact interface {
	FactKey() interface{}
}

// TupleLike is implemented by every arity-specific tuple type below. Key
// must be stable across mutations to the facts it wraps, since it is used
// as the tuple's identity for refcounting (spec.md §4.3 "Tuple identity and
// multiplicity").
type TupleLike interface {
	Key() interface{}
}

// Uni is a one-element tuple: the output of for_each(class).
type Uni[A Fact] struct {
	A A
}

func (t Uni[A]) Key() interface{} { return t.A.FactKey() }

// Bi is a two-element tuple: the output of a binary join or of UniquePair.
// Group emits GroupTuple, not Bi.
type Bi[A Fact, B Fact] struct {
	A A
	B B
}

func (t Bi[A, B]) Key() interface{} { return [2]interface{}{t.A.FactKey(), t.B.FactKey()} }

// Tri is a three-element tuple.
type Tri[A Fact, B Fact, C Fact] struct {
	A A
	B B
	C C
}

func (t Tri[A, B, C]) Key() interface{} {
	return [3]interface{}{t.A.FactKey(), t.B.FactKey(), t.C.FactKey()}
}

// Quad is a four-element tuple.
type Quad[A Fact, B Fact, C Fact, D Fact] struct {
	A A
	B B
	C C
	D D
}

func (t Quad[A, B, C, D]) Key() interface{} {
	return [4]interface{}{t.A.FactKey(), t.B.FactKey(), t.C.FactKey(), t.D.FactKey()}
}

// Penta is a five-element tuple, the widest arity spec.md names.
type Penta[A Fact, B Fact, C Fact, D Fact, E Fact] struct {
	A A
	B B
	C C
	D D
	E E
}

func (t Penta[A, B, C, D, E]) Key() interface{} {
	return [5]interface{}{t.A.FactKey(), t.B.FactKey(), t.C.FactKey(), t.D.FactKey(), t.E.FactKey()}
}
