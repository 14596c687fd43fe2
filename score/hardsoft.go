package score

import (
	"fmt"

	"github.com/solverforge/solverforge/sferr"
)

// HardSoft is a two-level score: hard constraints must be satisfied for
// feasibility, soft constraints are the optimization objective. Hard is
// always compared before soft.
type HardSoft struct {
	Hard, Soft int64
}

func OfHardSoft(hard, soft int64) HardSoft { return HardSoft{Hard: hard, Soft: soft} }

func (s HardSoft) String() string { return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft) }

func (s HardSoft) IsFeasible() bool { return s.Hard >= 0 }

func (s HardSoft) LevelsCount() int { return 2 }

func (s HardSoft) Levels() []int64 { return []int64{s.Hard, s.Soft} }

func (s HardSoft) Add(other Score) Score {
	o, ok := other.(HardSoft)
	if !ok {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "HardSoft.Add: mismatched score kind"))
	}
	return HardSoft{
		Hard: mustAddLevel(s.Hard, o.Hard),
		Soft: mustAddLevel(s.Soft, o.Soft),
	}
}

func (s HardSoft) Negate() Score {
	return HardSoft{Hard: mustNegateLevel(s.Hard), Soft: mustNegateLevel(s.Soft)}
}

func (s HardSoft) Compare(other Score) int {
	o, ok := other.(HardSoft)
	if !ok {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "HardSoft.Compare: mismatched score kind"))
	}
	return compareLevels(s.Levels(), o.Levels())
}
