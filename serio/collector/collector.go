// Package collector implements the aggregation functions applied inside a
// group(...) node (spec.md §4.3 "Collectors"): each maintains a running
// value over a changing multiset of items without rescanning the whole
// multiset on every insert/retract.
package collector

import "sort"

// Collector aggregates a multiset of I into a value R, updated
// incrementally as items are inserted and retracted one at a time.
type Collector[I any, R any] interface {
	Insert(item I)
	Retract(item I)
	Value() R
}

// Factory builds a fresh, empty Collector — group.go calls this once per
// new group key.
type Factory[I any, R any] func() Collector[I, R]

// Count counts items, ignoring their value.
type Count[I any] struct{ n int64 }

func NewCount[I any]() Factory[I, int64] {
	return func() Collector[I, int64] { return &Count[I]{} }
}

func (c *Count[I]) Insert(I)        { c.n++ }
func (c *Count[I]) Retract(I)       { c.n-- }
func (c *Count[I]) Value() int64    { return c.n }

// Sum accumulates extractor(item) over the multiset.
type Sum[I any] struct {
	extract func(I) int64
	total   int64
}

func NewSum[I any](extract func(I) int64) Factory[I, int64] {
	return func() Collector[I, int64] { return &Sum[I]{extract: extract} }
}

func (c *Sum[I]) Insert(item I)  { c.total += c.extract(item) }
func (c *Sum[I]) Retract(item I) { c.total -= c.extract(item) }
func (c *Sum[I]) Value() int64   { return c.total }

// minMax is the shared sorted-multiset structure behind Min and Max: a
// sorted slice of extracted keys with binary-search insert/retract. Chosen
// over a heap because retract-of-an-arbitrary-element (not just the
// extreme) is common here — group membership changes are driven by entity
// moves, not by pop-min/pop-max access patterns.
type minMax[I any] struct {
	extract func(I) int64
	keys    []int64
}

func (m *minMax[I]) search(k int64) int {
	return sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= k })
}

func (m *minMax[I]) insert(item I) {
	k := m.extract(item)
	i := m.search(k)
	m.keys = append(m.keys, 0)
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = k
}

func (m *minMax[I]) retract(item I) {
	k := m.extract(item)
	i := m.search(k)
	if i < len(m.keys) && m.keys[i] == k {
		m.keys = append(m.keys[:i], m.keys[i+1:]...)
	}
}

// Min tracks the smallest extracted value currently in the group.
type Min[I any] struct{ minMax[I] }

func NewMin[I any](extract func(I) int64) Factory[I, int64] {
	return func() Collector[I, int64] { return &Min[I]{minMax[I]{extract: extract}} }
}

func (c *Min[I]) Insert(item I)  { c.insert(item) }
func (c *Min[I]) Retract(item I) { c.retract(item) }
func (c *Min[I]) Value() int64 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[0]
}

// Max tracks the largest extracted value currently in the group.
type Max[I any] struct{ minMax[I] }

func NewMax[I any](extract func(I) int64) Factory[I, int64] {
	return func() Collector[I, int64] { return &Max[I]{minMax[I]{extract: extract}} }
}

func (c *Max[I]) Insert(item I)  { c.insert(item) }
func (c *Max[I]) Retract(item I) { c.retract(item) }
func (c *Max[I]) Value() int64 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1]
}

// Average reports the arithmetic mean of extractor(item) as a float64,
// or 0 for an empty group.
type Average[I any] struct {
	extract func(I) int64
	sum     int64
	n       int64
}

func NewAverage[I any](extract func(I) int64) Factory[I, float64] {
	return func() Collector[I, float64] { return &Average[I]{extract: extract} }
}

func (c *Average[I]) Insert(item I) {
	c.sum += c.extract(item)
	c.n++
}

func (c *Average[I]) Retract(item I) {
	c.sum -= c.extract(item)
	c.n--
}

func (c *Average[I]) Value() float64 {
	if c.n == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.n)
}

// LoadBalance tracks per-bucket load and reports the population variance
// across buckets (spec.md's "how evenly distributed" collector, used for
// fairness constraints such as spreading shifts across employees).
type LoadBalance[I any] struct {
	bucket func(I) interface{}
	weight func(I) int64
	load   map[interface{}]int64
}

func NewLoadBalance[I any](bucket func(I) interface{}, weight func(I) int64) Factory[I, float64] {
	return func() Collector[I, float64] {
		return &LoadBalance[I]{bucket: bucket, weight: weight, load: map[interface{}]int64{}}
	}
}

func (c *LoadBalance[I]) Insert(item I) {
	c.load[c.bucket(item)] += c.weight(item)
}

func (c *LoadBalance[I]) Retract(item I) {
	b := c.bucket(item)
	c.load[b] -= c.weight(item)
	if c.load[b] == 0 {
		delete(c.load, b)
	}
}

func (c *LoadBalance[I]) Value() float64 {
	n := len(c.load)
	if n == 0 {
		return 0
	}
	var sum int64
	for _, v := range c.load {
		sum += v
	}
	mean := float64(sum) / float64(n)
	var variance float64
	for _, v := range c.load {
		d := float64(v) - mean
		variance += d * d
	}
	return variance / float64(n)
}
