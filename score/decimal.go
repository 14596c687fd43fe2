package score

import (
	"fmt"

	"github.com/solverforge/solverforge/sferr"
)

// HardSoftDecimal is the decimal-precision variant of HardSoft: each level
// is a fixed-point integer mantissa with a caller-chosen scale (number of
// fractional digits). Arithmetic requires both operands to share a scale;
// SPEC_FULL.md resolves the source's silence on mixed-scale arithmetic by
// treating a scale mismatch as IncompatibleScoreKinds.
type HardSoftDecimal struct {
	Hard, Soft int64
	Scale      uint8
}

func OfHardSoftDecimal(hard, soft int64, scale uint8) HardSoftDecimal {
	return HardSoftDecimal{Hard: hard, Soft: soft, Scale: scale}
}

func pow10(n uint8) int64 {
	v := int64(1)
	for i := uint8(0); i < n; i++ {
		v *= 10
	}
	return v
}

// Float64 returns the hard/soft levels as floating point, dividing the
// mantissa by 10^Scale. Intended for display only; internal comparisons
// always stay in fixed-point integer space.
func (s HardSoftDecimal) Float64() (hard, soft float64) {
	div := float64(pow10(s.Scale))
	return float64(s.Hard) / div, float64(s.Soft) / div
}

func (s HardSoftDecimal) String() string {
	hard, soft := s.Float64()
	format := fmt.Sprintf("%%.%dfhard/%%.%dfsoft", s.Scale, s.Scale)
	return fmt.Sprintf(format, hard, soft)
}

func (s HardSoftDecimal) IsFeasible() bool { return s.Hard >= 0 }

func (s HardSoftDecimal) LevelsCount() int { return 2 }

func (s HardSoftDecimal) Levels() []int64 { return []int64{s.Hard, s.Soft} }

func (s HardSoftDecimal) Add(other Score) Score {
	o, ok := other.(HardSoftDecimal)
	if !ok || o.Scale != s.Scale {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "HardSoftDecimal.Add: mismatched scale or kind"))
	}
	return HardSoftDecimal{
		Hard:  mustAddLevel(s.Hard, o.Hard),
		Soft:  mustAddLevel(s.Soft, o.Soft),
		Scale: s.Scale,
	}
}

func (s HardSoftDecimal) Negate() Score {
	return HardSoftDecimal{Hard: mustNegateLevel(s.Hard), Soft: mustNegateLevel(s.Soft), Scale: s.Scale}
}

func (s HardSoftDecimal) Compare(other Score) int {
	o, ok := other.(HardSoftDecimal)
	if !ok || o.Scale != s.Scale {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "HardSoftDecimal.Compare: mismatched scale or kind"))
	}
	return compareLevels(s.Levels(), o.Levels())
}
