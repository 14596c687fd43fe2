package score

import (
	"fmt"

	"github.com/solverforge/solverforge/sferr"
)

// HardMediumSoft is a three-level score: hard, then medium, then soft,
// strictly lexicographic.
type HardMediumSoft struct {
	Hard, Medium, Soft int64
}

func OfHardMediumSoft(hard, medium, soft int64) HardMediumSoft {
	return HardMediumSoft{Hard: hard, Medium: medium, Soft: soft}
}

func (s HardMediumSoft) String() string {
	return fmt.Sprintf("%dhard/%dmedium/%dsoft", s.Hard, s.Medium, s.Soft)
}

func (s HardMediumSoft) IsFeasible() bool { return s.Hard >= 0 }

func (s HardMediumSoft) LevelsCount() int { return 3 }

func (s HardMediumSoft) Levels() []int64 { return []int64{s.Hard, s.Medium, s.Soft} }

func (s HardMediumSoft) Add(other Score) Score {
	o, ok := other.(HardMediumSoft)
	if !ok {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "HardMediumSoft.Add: mismatched score kind"))
	}
	return HardMediumSoft{
		Hard:   mustAddLevel(s.Hard, o.Hard),
		Medium: mustAddLevel(s.Medium, o.Medium),
		Soft:   mustAddLevel(s.Soft, o.Soft),
	}
}

func (s HardMediumSoft) Negate() Score {
	return HardMediumSoft{
		Hard:   mustNegateLevel(s.Hard),
		Medium: mustNegateLevel(s.Medium),
		Soft:   mustNegateLevel(s.Soft),
	}
}

func (s HardMediumSoft) Compare(other Score) int {
	o, ok := other.(HardMediumSoft)
	if !ok {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "HardMediumSoft.Compare: mismatched score kind"))
	}
	return compareLevels(s.Levels(), o.Levels())
}
