package score

import (
	"fmt"

	"github.com/solverforge/solverforge/sferr"
)

// Simple is a one-level score: no hard/soft distinction, always feasible.
type Simple struct {
	Value int64
}

func OfSimple(value int64) Simple { return Simple{Value: value} }

func (s Simple) String() string { return fmt.Sprintf("%d", s.Value) }

func (s Simple) IsFeasible() bool { return true }

func (s Simple) LevelsCount() int { return 1 }

func (s Simple) Levels() []int64 { return []int64{s.Value} }

func (s Simple) Add(other Score) Score {
	o, ok := other.(Simple)
	if !ok {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "Simple.Add: mismatched score kind"))
	}
	return Simple{Value: mustAddLevel(s.Value, o.Value)}
}

func (s Simple) Negate() Score {
	return Simple{Value: mustNegateLevel(s.Value)}
}

func (s Simple) Compare(other Score) int {
	o, ok := other.(Simple)
	if !ok {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "Simple.Compare: mismatched score kind"))
	}
	switch {
	case s.Value < o.Value:
		return -1
	case s.Value > o.Value:
		return 1
	default:
		return 0
	}
}
