package score_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solverforge/solverforge/score"
	"github.com/solverforge/solverforge/sferr"
)

func TestHardSoftCompareIsLexicographic(t *testing.T) {
	worse := score.OfHardSoft(-1, 100)
	better := score.OfHardSoft(0, -100)
	assert.Equal(t, -1, worse.Compare(better), "any infeasible score must lose to any feasible score")
	assert.Equal(t, 1, better.Compare(worse))
	assert.True(t, better.IsFeasible())
	assert.False(t, worse.IsFeasible())
}

func TestHardSoftAdd(t *testing.T) {
	a := score.OfHardSoft(1, -2)
	b := score.OfHardSoft(-1, 5)
	got := a.Add(b)
	assert.Equal(t, score.OfHardSoft(0, 3), got)
}

func TestScoreAddOverflowPanics(t *testing.T) {
	a := score.OfSimple(math.MaxInt64)
	b := score.OfSimple(1)
	defer func() {
		r := recover()
		require.NotNil(t, r, "adding past MaxInt64 must panic, not wrap")
		serr, ok := r.(*sferr.Error)
		require.True(t, ok)
		assert.Equal(t, sferr.ScoreOverflow, serr.Kind)
	}()
	a.Add(b)
}

func TestScoreNegateOverflowPanics(t *testing.T) {
	a := score.OfSimple(math.MinInt64)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		serr, ok := r.(*sferr.Error)
		require.True(t, ok)
		assert.Equal(t, sferr.ScoreOverflow, serr.Kind)
	}()
	a.Negate()
}

func TestCompareAcrossKindsPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		serr, ok := r.(*sferr.Error)
		require.True(t, ok)
		assert.Equal(t, sferr.IncompatibleScoreKinds, serr.Kind)
	}()
	score.OfSimple(1).Compare(score.OfHardSoft(1, 1))
}

func TestBendableLevels(t *testing.T) {
	b := score.OfBendable([]int64{0, -2}, []int64{3, 4, -1})
	assert.Equal(t, 5, b.LevelsCount())
	assert.False(t, b.IsFeasible())
}
