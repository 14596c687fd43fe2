package scheduling

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/solverforge/solverforge/director"
	"github.com/solverforge/solverforge/manager"
	"github.com/solverforge/solverforge/model"
	"github.com/solverforge/solverforge/score"
	"github.com/solverforge/solverforge/serio"
	"github.com/solverforge/solverforge/serio/collector"
)

func NewCommand() *cobra.Command {
	var shiftCount, employeeCount int
	var timeLimit time.Duration
	cmd := &cobra.Command{
		Use:   "scheduling",
		Short: "Solve a minimal employee shift roster with local search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(shiftCount, employeeCount, timeLimit)
		},
	}
	cmd.Flags().IntVar(&shiftCount, "shifts", 12, "number of shifts to staff")
	cmd.Flags().IntVar(&employeeCount, "employees", 3, "number of employees in the pool")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 2*time.Second, "solving time budget")
	return cmd
}

// pairTuple is the element type UniquePair/JoinOverlapping produce over a
// Node[Uni[model.EntityRef]] stream, spelled out once so the constraint
// bodies below don't repeat the generic instantiation (mirrors nqueens/cmd.go).
type pairTuple = serio.Bi[serio.WrapFact[serio.Uni[model.EntityRef]], serio.WrapFact[serio.Uni[model.EntityRef]]]

func wrapPair(l, r serio.Uni[model.EntityRef]) pairTuple {
	return pairTuple{A: serio.WrapFact[serio.Uni[model.EntityRef]]{V: l}, B: serio.WrapFact[serio.Uni[model.EntityRef]]{V: r}}
}

// constraints builds two constraints: a hard rule that no employee works two
// overlapping shifts, and a soft rule that shift load is spread evenly
// across the employee pool. Shifts carry no skill requirement.
func constraints(ws *model.WorkingSolution) serio.ConstraintProvider {
	employeeOf := func(ref model.EntityRef) string {
		v, _ := ws.Value(ref, employeeVar)
		s, _ := v.(string)
		return s
	}
	rangeOf := func(u serio.Uni[model.EntityRef]) (int64, int64) {
		loc, _ := ws.Locate(u.A.ID)
		s := ws.EntityAt(loc.ClassIdx, loc.Pos).(*Shift)
		return s.Start, s.End
	}
	return func(f *serio.ConstraintFactory) []serio.Constraint {
		shifts, err := f.ForEachIdentity("Shift")
		if err != nil {
			panic(err)
		}

		overlapping := serio.JoinOverlapping[serio.Uni[model.EntityRef], serio.Uni[model.EntityRef], pairTuple](
			shifts, shifts, rangeOf, rangeOf, wrapPair,
		)
		f.Track(overlapping)
		doubleBooked := serio.Filter(overlapping, func(t pairTuple) bool {
			a, b := t.A.V.A, t.B.V.A
			if a.ID >= b.ID {
				return false
			}
			ea, eb := employeeOf(a), employeeOf(b)
			return ea != "" && ea == eb
		})
		f.Track(doubleBooked)

		load := serio.Group[serio.Uni[model.EntityRef], model.EntityRef, string, float64](
			shifts,
			// One group over all shifts: the load-balance collector buckets
			// them by employee itself.
			func(serio.Uni[model.EntityRef]) string { return "" },
			func(u serio.Uni[model.EntityRef]) model.EntityRef { return u.A },
			collector.NewLoadBalance[model.EntityRef](
				func(ref model.EntityRef) interface{} { return employeeOf(ref) },
				func(model.EntityRef) int64 { return 1 },
			),
		)
		f.Track(load)

		one := score.OfHardSoft(1, 0)
		return []serio.Constraint{
			{Name: "no double booking", Node: serio.Penalize(doubleBooked, score.OfHardSoft(0, 0), func(pairTuple) score.Score { return one })},
			{Name: "balance shift load", Node: serio.Penalize(load, score.OfHardSoft(0, 0), func(t serio.GroupTuple[string, float64]) score.Score {
				return score.OfHardSoft(0, int64(t.Value))
			})},
		}
	}
}

func run(shiftCount, employeeCount int, timeLimit time.Duration) error {
	employees := make([]string, employeeCount)
	for i := range employees {
		employees[i] = fmt.Sprintf("employee-%d", i+1)
	}

	var shifts []*Shift
	for i := 0; i < shiftCount; i++ {
		start := int64(i * 60)
		shifts = append(shifts, NewShift(start, start+90))
	}
	roster := NewRoster(shifts)

	rng := rand.New(rand.NewSource(1))
	for _, s := range shifts {
		s.employee = employees[rng.Intn(len(employees))]
	}

	ws, err := model.NewWorkingSolution(Descriptor(employees), roster)
	if err != nil {
		return err
	}

	net := serio.NewNetwork(ws, score.OfHardSoft(0, 0), constraints(ws))
	dir := director.New(ws, net, nil)

	term := manager.NewTimeLimit(timeLimit)
	mgr := manager.New(dir, manager.Config{Termination: term})

	search := &reassignEmployeeMoves{employees: employees, shiftCount: shiftCount, rng: rng, batch: shiftCount}
	best := mgr.Solve(nil, search)

	for i, s := range shifts {
		fmt.Printf("shift %2d [%4d-%4d): %s\n", i, s.Start, s.End, s.employee)
	}
	fmt.Printf("score: %s\n", best)
	return nil
}

type reassignEmployeeMoves struct {
	employees  []string
	shiftCount int
	rng        *rand.Rand
	batch      int
}

func (m *reassignEmployeeMoves) NextMoves(d *director.ScoreDirector) []manager.Move {
	moves := make([]manager.Move, 0, m.batch)
	for i := 0; i < m.batch; i++ {
		moves = append(moves, reassignEmployeeMove{
			pos:      m.rng.Intn(m.shiftCount),
			employee: m.employees[m.rng.Intn(len(m.employees))],
		})
	}
	return moves
}

type reassignEmployeeMove struct {
	pos      int
	employee string
}

func (mv reassignEmployeeMove) Apply(d *director.ScoreDirector) error {
	loc := model.Location{ClassIdx: 0, Pos: mv.pos}
	_, err := d.ChangeVariable(loc, employeeVar, mv.employee)
	return err
}

func (mv reassignEmployeeMove) String() string {
	return fmt.Sprintf("reassign(shift=%d, employee=%s)", mv.pos, mv.employee)
}
