package serio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solverforge/solverforge/serio"
)

type numberFact struct{ n int64 }

func (f numberFact) FactKey() interface{} { return f.n }

// serioUniStore is a minimal hand-rolled Node[serio.Uni[numberFact]] used to
// drive Filter/JoinEqual/UniquePair directly, without needing a full
// model.WorkingSolution and ForEachNode wiring for what is otherwise a pure
// dataflow test.
type serioUniStore struct {
	listeners []func(serio.Delta[serio.Uni[numberFact]])
	live      map[int64]bool
}

func newSource() *serioUniStore { return &serioUniStore{live: map[int64]bool{}} }

func (s *serioUniStore) AddListener(fn serio.Listener[serio.Uni[numberFact]]) {
	s.listeners = append(s.listeners, fn)
}

func (s *serioUniStore) Tuples() []serio.Uni[numberFact] {
	var out []serio.Uni[numberFact]
	for n := range s.live {
		out = append(out, serio.Uni[numberFact]{A: numberFact{n: n}})
	}
	return out
}

func (s *serioUniStore) Rebuild() {}

func (s *serioUniStore) insert(n int64) {
	s.live[n] = true
	s.notify(serio.Delta[serio.Uni[numberFact]]{Tuple: serio.Uni[numberFact]{A: numberFact{n: n}}, Insert: true})
}

func (s *serioUniStore) retract(n int64) {
	delete(s.live, n)
	s.notify(serio.Delta[serio.Uni[numberFact]]{Tuple: serio.Uni[numberFact]{A: numberFact{n: n}}, Insert: false})
}

func (s *serioUniStore) notify(d serio.Delta[serio.Uni[numberFact]]) {
	for _, l := range s.listeners {
		l(d)
	}
}

func TestFilterTracksInsertAndRetract(t *testing.T) {
	src := newSource()
	even := serio.Filter(src, func(u serio.Uni[numberFact]) bool { return u.A.n%2 == 0 })

	src.insert(1)
	src.insert(2)
	src.insert(4)
	assert.Len(t, even.Tuples(), 2)

	src.retract(2)
	assert.Len(t, even.Tuples(), 1)
	assert.Equal(t, int64(4), even.Tuples()[0].A.n)
}

func TestUniquePairEmitsEachUnorderedPairOnce(t *testing.T) {
	src := newSource()
	pairs := serio.UniquePair[serio.Uni[numberFact]](src, func(a, b serio.Uni[numberFact]) bool { return a.A.n < b.A.n })

	src.insert(1)
	src.insert(2)
	src.insert(3)

	require.Len(t, pairs.Tuples(), 3, "n choose 2 for n=3 is 3")
	seen := map[[2]int64]bool{}
	for _, p := range pairs.Tuples() {
		a, b := p.A.V.A.n, p.B.V.A.n
		require.Less(t, a, b, "canonical ordering filter must keep only a < b")
		seen[[2]int64{a, b}] = true
	}
	assert.True(t, seen[[2]int64{1, 2}])
	assert.True(t, seen[[2]int64{1, 3}])
	assert.True(t, seen[[2]int64{2, 3}])
}

func TestUniquePairShrinksOnRetract(t *testing.T) {
	src := newSource()
	pairs := serio.UniquePair[serio.Uni[numberFact]](src, func(a, b serio.Uni[numberFact]) bool { return a.A.n < b.A.n })

	src.insert(1)
	src.insert(2)
	src.insert(3)
	require.Len(t, pairs.Tuples(), 3)

	src.retract(2)
	assert.Len(t, pairs.Tuples(), 1)
}

type joinPair = serio.Bi[serio.WrapFact[serio.Uni[numberFact]], serio.WrapFact[serio.Uni[numberFact]]]

func TestJoinEqualMatchesOnSharedKey(t *testing.T) {
	left := newSource()
	right := newSource()
	joined := serio.JoinEqual[serio.Uni[numberFact], serio.Uni[numberFact], int64, joinPair](
		left, right,
		func(u serio.Uni[numberFact]) int64 { return u.A.n % 2 },
		func(u serio.Uni[numberFact]) int64 { return u.A.n % 2 },
		func(l, r serio.Uni[numberFact]) joinPair {
			return joinPair{A: serio.WrapFact[serio.Uni[numberFact]]{V: l}, B: serio.WrapFact[serio.Uni[numberFact]]{V: r}}
		},
	)

	left.insert(2)
	right.insert(4)
	right.insert(5)
	assert.Len(t, joined.Tuples(), 1, "only the even-keyed right tuple should match")

	right.retract(4)
	assert.Len(t, joined.Tuples(), 0)
}
