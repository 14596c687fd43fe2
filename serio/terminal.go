package serio

import "github.com/solverforge/solverforge/score"

// ScoreListener is notified whenever a terminal node's running total
// changes. Neither the director nor Network subscribes one: Network.Score
// sums each terminal's Total directly (spec.md §4.3 "Terminal nodes").
type ScoreListener func(before, after score.Score)

// ScoreNode is a terminal node: penalize, reward, or impact. It converts
// every insert/retract flowing from its upstream constraint stream into a
// signed contribution to a running total, held in whatever Score kind the
// solution is configured with.
type ScoreNode interface {
	Node[scoreSink]
	Total() score.Score
	AddScoreListener(l ScoreListener)
}

// scoreSink is an internal TupleLike marker so ScoreNode can satisfy Node
// generically; terminal nodes are leaves and never have downstream serio
// listeners in practice, but implementing Node keeps them uniform with
// every other node kind for network.go's topological walk.
type scoreSink struct{ k interface{} }

func (s scoreSink) Key() interface{} { return s.k }

type terminalNode[T TupleLike] struct {
	upstream      Node[T]
	weightFn      func(T) score.Score
	negate        bool
	contributions map[interface{}]score.Score
	total         score.Score
	zero          score.Score
	listeners     []ScoreListener
	selfStore     *tupleStore[scoreSink]
}

func newTerminal[T TupleLike](upstream Node[T], weightFn func(T) score.Score, negate bool, zero score.Score) *terminalNode[T] {
	n := &terminalNode[T]{
		upstream:      upstream,
		weightFn:      weightFn,
		negate:        negate,
		contributions: map[interface{}]score.Score{},
		total:         zero,
		zero:          zero,
		selfStore:     newTupleStore[scoreSink](),
	}
	upstream.AddListener(n.handle)
	n.Rebuild()
	return n
}

// Penalize subtracts weightFn(tuple) from the running total for every
// tuple present in the match stream, worsening feasibility/soft score.
func Penalize[T TupleLike](upstream Node[T], zero score.Score, weightFn func(T) score.Score) ScoreNode {
	return newTerminal(upstream, weightFn, true, zero)
}

// Reward adds weightFn(tuple) to the running total for every tuple present
// in the match stream.
func Reward[T TupleLike](upstream Node[T], zero score.Score, weightFn func(T) score.Score) ScoreNode {
	return newTerminal(upstream, weightFn, false, zero)
}

// Impact adds weightFn(tuple) verbatim — the caller encodes the sign,
// useful when a single constraint stream can contribute in either
// direction depending on the match (spec.md's "impact" terminal kind).
func Impact[T TupleLike](upstream Node[T], zero score.Score, weightFn func(T) score.Score) ScoreNode {
	return newTerminal(upstream, weightFn, false, zero)
}

func (n *terminalNode[T]) handle(d Delta[T]) {
	if d.Insert {
		n.apply(d.Tuple, true)
	} else {
		n.apply(d.Tuple, false)
	}
}

func (n *terminalNode[T]) apply(t T, insert bool) {
	old := n.total
	w := n.weightFn(t)
	if n.negate {
		w = w.Negate()
	}
	if insert {
		n.contributions[t.Key()] = w
		n.total = n.total.Add(w)
	} else {
		c := n.contributions[t.Key()]
		delete(n.contributions, t.Key())
		n.total = n.total.Add(c.Negate())
	}
	n.notify(old, n.total)
}

func (n *terminalNode[T]) notify(before, after score.Score) {
	for _, l := range n.listeners {
		l(before, after)
	}
}

func (n *terminalNode[T]) AddScoreListener(l ScoreListener) {
	n.listeners = append(n.listeners, l)
}

func (n *terminalNode[T]) Total() score.Score { return n.total }

func (n *terminalNode[T]) AddListener(l Listener[scoreSink]) { n.selfStore.AddListener(l) }
func (n *terminalNode[T]) Tuples() []scoreSink               { return n.selfStore.Tuples() }

func (n *terminalNode[T]) Rebuild() {
	n.contributions = map[interface{}]score.Score{}
	n.total = n.zero
	for _, t := range n.upstream.Tuples() {
		n.apply(t, true)
	}
}
