package director_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/solverforge/solverforge/director"
	"github.com/solverforge/solverforge/model"
	"github.com/solverforge/solverforge/score"
)

func TestDirector(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Director Suite")
}

// fakeNetwork is a spy standing in for *serio.Network: it records every
// notification it receives and reports a score derived from however many
// inserts currently outnumber retracts, just enough to exercise the
// director's bracketing and undo logic without a real constraint stream.
type fakeNetwork struct {
	calls   []string
	live    map[model.EntityRef]bool
	rebuilt int
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{live: map[model.EntityRef]bool{}}
}

func (n *fakeNetwork) NotifyBefore(ref model.EntityRef) {
	n.calls = append(n.calls, "before:"+string(ref.ID))
	n.live[ref] = false
}
func (n *fakeNetwork) NotifyAfter(ref model.EntityRef) {
	n.calls = append(n.calls, "after:"+string(ref.ID))
	n.live[ref] = true
}
func (n *fakeNetwork) NotifyAdded(ref model.EntityRef) {
	n.calls = append(n.calls, "added:"+string(ref.ID))
	n.live[ref] = true
}
func (n *fakeNetwork) NotifyRemoved(ref model.EntityRef) {
	n.calls = append(n.calls, "removed:"+string(ref.ID))
	delete(n.live, ref)
}
func (n *fakeNetwork) Rebuild() { n.rebuilt++ }
func (n *fakeNetwork) Score() score.Score {
	var total int64
	for _, live := range n.live {
		if live {
			total++
		}
	}
	return score.OfSimple(total)
}
func (n *fakeNetwork) ScoreByConstraint() map[string]score.Score {
	return map[string]score.Score{"live": n.Score()}
}

type thing struct {
	id model.EntityID
	x  int
}

func (t *thing) ID() model.EntityID { return t.id }
func (t *thing) Value(varIdx int) interface{} {
	if varIdx == 0 {
		return t.x
	}
	return nil
}
func (t *thing) SetValue(varIdx int, newValue interface{}) interface{} {
	old := t.x
	t.x = newValue.(int)
	return old
}

type things struct{ items []model.Entity }

func (s *things) ClassCount() int                            { return 1 }
func (s *things) EntityCount(classIdx int) int                { return len(s.items) }
func (s *things) EntityAt(classIdx, pos int) model.Entity     { return s.items[pos] }
func (s *things) AddEntity(classIdx int, e model.Entity) int  { s.items = append(s.items, e); return len(s.items) - 1 }
func (s *things) RemoveEntity(classIdx, pos int) {
	last := len(s.items) - 1
	s.items[pos] = s.items[last]
	s.items = s.items[:last]
}

func descriptor() *model.SolutionDescriptor {
	values := []interface{}{1, 2, 3}
	return model.NewDescribe().
		ValueRange(model.NewFiniteValueRange("x", values)).
		Class("Thing", model.BasicVar("x", "x")).
		Build()
}

var _ = Describe("ScoreDirector", func() {
	var (
		ws  *model.WorkingSolution
		net *fakeNetwork
		dir *director.ScoreDirector
		a   *thing
	)

	BeforeEach(func() {
		a = &thing{id: model.NewEntityID(), x: 1}
		s := &things{items: []model.Entity{a}}
		var err error
		ws, err = model.NewWorkingSolution(descriptor(), s)
		Expect(err).NotTo(HaveOccurred())
		net = newFakeNetwork()
		net.live[model.EntityRef{ClassIdx: 0, ID: a.id}] = true
		dir = director.New(ws, net, nil)
	})

	It("brackets a variable write with before then after, in that order", func() {
		_, err := dir.ChangeVariable(model.Location{ClassIdx: 0, Pos: 0}, 0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(net.calls).To(Equal([]string{"before:" + string(a.id), "after:" + string(a.id)}))
		Expect(a.x).To(Equal(2))
	})

	It("undoes a change exactly, restoring the prior value", func() {
		mark := dir.UndoMark()
		_, err := dir.ChangeVariable(model.Location{ClassIdx: 0, Pos: 0}, 0, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.x).To(Equal(3))

		Expect(dir.UndoTo(mark)).To(Succeed())
		Expect(a.x).To(Equal(1))
	})

	It("DoAndScore always unwinds, even when the move succeeds", func() {
		before := dir.CalculateScore()
		result, err := dir.DoAndScore(func(d *director.ScoreDirector) error {
			_, err := d.ChangeVariable(model.Location{ClassIdx: 0, Pos: 0}, 0, 2)
			return err
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).NotTo(BeNil())
		Expect(a.x).To(Equal(1), "DoAndScore must unwind the trial move")
		Expect(dir.CalculateScore()).To(Equal(before))
	})

	It("DoAndScore propagates a move error without committing it", func() {
		_, err := dir.DoAndScore(func(d *director.ScoreDirector) error {
			_, cerr := d.ChangeVariable(model.Location{ClassIdx: 0, Pos: 0}, 0, 2)
			Expect(cerr).NotTo(HaveOccurred())
			return errBoom
		})
		Expect(err).To(Equal(errBoom))
		Expect(a.x).To(Equal(1))
	})

	It("broadcasts added and removed notifications for entity lifecycle", func() {
		b := &thing{id: model.NewEntityID(), x: 2}
		loc := dir.AddEntity(0, b)
		Expect(net.calls).To(ContainElement("added:" + string(b.id)))

		dir.RemoveEntity(loc)
		Expect(net.calls).To(ContainElement("removed:" + string(b.id)))
	})

	It("TakeWorkingSolution rebuilds the network and clears the undo stack", func() {
		_, err := dir.ChangeVariable(model.Location{ClassIdx: 0, Pos: 0}, 0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(dir.UndoMark()).To(BeNumerically(">", 0))

		dir.TakeWorkingSolution()
		Expect(net.rebuilt).To(Equal(1))
		Expect(dir.UndoMark()).To(Equal(0))
	})
})

type boomError struct{}

func (boomError) Error() string { return "boom" }

var errBoom = boomError{}
