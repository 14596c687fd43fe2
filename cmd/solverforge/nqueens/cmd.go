package nqueens

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/solverforge/solverforge/director"
	"github.com/solverforge/solverforge/manager"
	"github.com/solverforge/solverforge/model"
	"github.com/solverforge/solverforge/score"
	"github.com/solverforge/solverforge/serio"
)

func NewCommand() *cobra.Command {
	var n int
	var timeLimit time.Duration
	cmd := &cobra.Command{
		Use:   "nqueens",
		Short: "Solve the n-queens problem with local search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(n, timeLimit)
		},
	}
	cmd.Flags().IntVar(&n, "size", 8, "board size (n queens on an n x n board)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 2*time.Second, "solving time budget")
	return cmd
}

// pairTuple is the element type UniquePair produces over a
// Node[Uni[model.EntityRef]] stream, spelled out once here so the
// constraint bodies below don't repeat the generic instantiation.
type pairTuple = serio.Bi[serio.WrapFact[serio.Uni[model.EntityRef]], serio.WrapFact[serio.Uni[model.EntityRef]]]

// constraints builds the two n-queens constraints: no shared row, no
// shared diagonal. Column conflicts never occur since each queen owns a
// fixed column (spec.md §8 scenario 1's exact rule set).
func constraints(ws *model.WorkingSolution) serio.ConstraintProvider {
	columnOf := func(ref model.EntityRef) int {
		loc, _ := ws.Locate(ref.ID)
		return loc.Pos
	}
	rowOf := func(ref model.EntityRef) int64 {
		v, _ := ws.Value(ref, rowVar)
		return int64(v.(int))
	}
	return func(f *serio.ConstraintFactory) []serio.Constraint {
		queens, err := f.ForEachIdentity("Queen")
		if err != nil {
			panic(err)
		}
		pairs := serio.UniquePair[serio.Uni[model.EntityRef]](queens, func(a, b serio.Uni[model.EntityRef]) bool {
			return columnOf(a.A) < columnOf(b.A)
		})
		f.Track(pairs)

		sameRow := serio.Filter(pairs, func(t pairTuple) bool {
			return rowOf(t.A.V.A) == rowOf(t.B.V.A)
		})
		f.Track(sameRow)

		sameDiagonal := serio.Filter(pairs, func(t pairTuple) bool {
			ca, cb := columnOf(t.A.V.A), columnOf(t.B.V.A)
			ra, rb := rowOf(t.A.V.A), rowOf(t.B.V.A)
			d := int64(ca - cb)
			if d < 0 {
				d = -d
			}
			rd := ra - rb
			if rd < 0 {
				rd = -rd
			}
			return d == rd
		})
		f.Track(sameDiagonal)

		one := score.OfSimple(1)
		return []serio.Constraint{
			{Name: "no shared row", Node: serio.Penalize(sameRow, score.OfSimple(0), func(pairTuple) score.Score { return one })},
			{Name: "no shared diagonal", Node: serio.Penalize(sameDiagonal, score.OfSimple(0), func(pairTuple) score.Score { return one })},
		}
	}
}

func run(n int, timeLimit time.Duration) error {
	board := NewBoard(n)
	rng := rand.New(rand.NewSource(1))
	for _, q := range board.queens {
		q.(*Queen).row = rng.Intn(n)
	}

	ws, err := model.NewWorkingSolution(Descriptor(n), board)
	if err != nil {
		return err
	}

	net := serio.NewNetwork(ws, score.OfSimple(0), constraints(ws))
	dir := director.New(ws, net, nil)

	term := manager.NewTimeLimit(timeLimit)
	mgr := manager.New(dir, manager.Config{Termination: term})

	search := &randomReassignMoves{n: n, rng: rng, batch: n}
	best := mgr.Solve(nil, search)

	fmt.Println(renderBoard(board, n))
	fmt.Printf("score: %s\n", best)
	return nil
}

// randomReassignMoves proposes n candidate moves per step, each reassigning
// one queen to a uniformly random row — a minimal local search neighborhood
// sufficient to demonstrate the engine, not a serious n-queens heuristic.
type randomReassignMoves struct {
	n     int
	rng   *rand.Rand
	batch int
}

func (m *randomReassignMoves) NextMoves(d *director.ScoreDirector) []manager.Move {
	moves := make([]manager.Move, 0, m.batch)
	for i := 0; i < m.batch; i++ {
		col := m.rng.Intn(m.n)
		row := m.rng.Intn(m.n)
		moves = append(moves, reassignMove{column: col, row: row})
	}
	return moves
}

type reassignMove struct {
	column int
	row    int
}

func (mv reassignMove) Apply(d *director.ScoreDirector) error {
	loc := model.Location{ClassIdx: 0, Pos: mv.column}
	_, err := d.ChangeVariable(loc, rowVar, mv.row)
	return err
}

func (mv reassignMove) String() string {
	return "reassign(col=" + strconv.Itoa(mv.column) + ", row=" + strconv.Itoa(mv.row) + ")"
}

func renderBoard(b *Board, n int) string {
	cell := lipgloss.NewStyle().Width(3).Align(lipgloss.Center)
	queen := cell.Copy().Bold(true).Foreground(lipgloss.Color("205"))
	var rows []string
	for r := 0; r < n; r++ {
		var line strings.Builder
		for c := 0; c < n; c++ {
			q := b.queens[c].(*Queen)
			if q.row == r {
				line.WriteString(queen.Render("Q"))
			} else {
				line.WriteString(cell.Render("."))
			}
		}
		rows = append(rows, line.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
