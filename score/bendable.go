package score

import (
	"fmt"
	"strings"

	"github.com/solverforge/solverforge/sferr"
)

// Bendable is a score kind with a caller-chosen, fixed number of hard and
// soft levels. Go has no const generics, so arity lives in a runtime field
// rather than a type parameter (the source uses BendableScore<const H,
// const S>); arithmetic between Bendable values of differing arity is
// IncompatibleScoreKinds, exactly as the source specifies for bendable
// scores generally.
type Bendable struct {
	Hard []int64
	Soft []int64
}

func OfBendable(hard, soft []int64) Bendable {
	return Bendable{Hard: append([]int64(nil), hard...), Soft: append([]int64(nil), soft...)}
}

func ZeroBendable(hardLevels, softLevels int) Bendable {
	return Bendable{Hard: make([]int64, hardLevels), Soft: make([]int64, softLevels)}
}

func (s Bendable) sameArity(o Bendable) bool {
	return len(s.Hard) == len(o.Hard) && len(s.Soft) == len(o.Soft)
}

func (s Bendable) String() string {
	return fmt.Sprintf("%s%s", formatLevelVec(s.Hard), formatLevelVecSuffix(s.Soft))
}

func formatLevelVec(levels []int64) string {
	parts := make([]string, len(levels))
	for i, v := range levels {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ",") + "]hard/"
}

func formatLevelVecSuffix(levels []int64) string {
	parts := make([]string, len(levels))
	for i, v := range levels {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ",") + "]soft"
}

func (s Bendable) IsFeasible() bool {
	for _, h := range s.Hard {
		if h < 0 {
			return false
		}
	}
	return true
}

func (s Bendable) LevelsCount() int { return len(s.Hard) + len(s.Soft) }

func (s Bendable) Levels() []int64 {
	out := make([]int64, 0, s.LevelsCount())
	out = append(out, s.Hard...)
	out = append(out, s.Soft...)
	return out
}

func (s Bendable) Add(other Score) Score {
	o, ok := other.(Bendable)
	if !ok || !s.sameArity(o) {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "Bendable.Add: mismatched arity or kind"))
	}
	hard := make([]int64, len(s.Hard))
	for i := range hard {
		hard[i] = mustAddLevel(s.Hard[i], o.Hard[i])
	}
	soft := make([]int64, len(s.Soft))
	for i := range soft {
		soft[i] = mustAddLevel(s.Soft[i], o.Soft[i])
	}
	return Bendable{Hard: hard, Soft: soft}
}

func (s Bendable) Negate() Score {
	hard := make([]int64, len(s.Hard))
	for i, v := range s.Hard {
		hard[i] = mustNegateLevel(v)
	}
	soft := make([]int64, len(s.Soft))
	for i, v := range s.Soft {
		soft[i] = mustNegateLevel(v)
	}
	return Bendable{Hard: hard, Soft: soft}
}

func (s Bendable) Compare(other Score) int {
	o, ok := other.(Bendable)
	if !ok || !s.sameArity(o) {
		panic(sferr.New(sferr.IncompatibleScoreKinds, "Bendable.Compare: mismatched arity or kind"))
	}
	return compareLevels(s.Levels(), o.Levels())
}
