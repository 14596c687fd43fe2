package score

import (
	"math"

	"github.com/solverforge/solverforge/sferr"
)

// Level identifies the semantic role of one number in a multi-level score.
type Level int

const (
	LevelHard Level = iota
	LevelMedium
	LevelSoft
)

func (l Level) String() string {
	switch l {
	case LevelHard:
		return "hard"
	case LevelMedium:
		return "medium"
	case LevelSoft:
		return "soft"
	default:
		return "level"
	}
}

// addLevel adds two score level values, returning sferr.ScoreOverflow
// instead of silently wrapping on int64 overflow.
func addLevel(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, sferr.New(sferr.ScoreOverflow, "level addition overflow")
	}
	return sum, nil
}

// negateLevel negates a score level value, guarding the one int64 value
// (math.MinInt64) whose negation overflows.
func negateLevel(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, sferr.New(sferr.ScoreOverflow, "level negation overflow")
	}
	return -a, nil
}

func mustAddLevel(a, b int64) int64 {
	v, err := addLevel(a, b)
	if err != nil {
		panic(err)
	}
	return v
}

func mustNegateLevel(a int64) int64 {
	v, err := negateLevel(a)
	if err != nil {
		panic(err)
	}
	return v
}
