// Package nqueens is a worked scenario for the solverforge engine:
// n queens, one per column, each assigned a row; no two queens may share a
// row or a diagonal (spec.md §8 scenario 1).
package nqueens

import "github.com/solverforge/solverforge/model"

const rowVar = 0

// Queen is one column's queen; its row is the sole basic variable the
// solver assigns.
type Queen struct {
	id     model.EntityID
	column int
	row    int
}

func NewQueen(column int) *Queen {
	return &Queen{id: model.NewEntityID(), column: column, row: 0}
}

func (q *Queen) ID() model.EntityID { return q.id }
func (q *Queen) Column() int        { return q.column }
func (q *Queen) Row() int           { return q.row }

func (q *Queen) Value(varIdx int) interface{} {
	if varIdx == rowVar {
		return q.row
	}
	return nil
}

func (q *Queen) SetValue(varIdx int, newValue interface{}) interface{} {
	if varIdx != rowVar {
		return nil
	}
	old := q.row
	q.row = newValue.(int)
	return old
}

// Board is the nqueens working solution: n queens, one per column.
type Board struct {
	n      int
	queens []model.Entity
}

func NewBoard(n int) *Board {
	b := &Board{n: n}
	for c := 0; c < n; c++ {
		b.queens = append(b.queens, NewQueen(c))
	}
	return b
}

func (b *Board) ClassCount() int                              { return 1 }
func (b *Board) EntityCount(classIdx int) int                 { return len(b.queens) }
func (b *Board) EntityAt(classIdx int, pos int) model.Entity   { return b.queens[pos] }
func (b *Board) AddEntity(classIdx int, e model.Entity) int {
	b.queens = append(b.queens, e)
	return len(b.queens) - 1
}
func (b *Board) RemoveEntity(classIdx int, pos int) {
	last := len(b.queens) - 1
	b.queens[pos] = b.queens[last]
	b.queens = b.queens[:last]
}

// Descriptor builds the class/variable descriptor for an n-queens board.
func Descriptor(n int) *model.SolutionDescriptor {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	rowRange := model.NewFiniteValueRange("row", intSliceToValues(rows))
	return model.NewDescribe().
		ValueRange(rowRange).
		Class("Queen", model.BasicVar("row", "row")).
		Build()
}

func intSliceToValues(xs []int) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
