// Package scheduling is a worked scenario for the solverforge engine: a
// minimal employee-shift assignment problem (spec.md §8 scenario 2) — each
// shift is assigned one employee, no employee may work two overlapping
// shifts, and shift load should be spread evenly across employees.
package scheduling

import "github.com/solverforge/solverforge/model"

const employeeVar = 0

// Shift is one shift slot to staff; Start/End are in an arbitrary integer
// time unit (e.g. minutes since the schedule's epoch).
type Shift struct {
	id       model.EntityID
	Start    int64
	End      int64
	employee string
}

func NewShift(start, end int64) *Shift {
	return &Shift{id: model.NewEntityID(), Start: start, End: end}
}

func (s *Shift) ID() model.EntityID { return s.id }

func (s *Shift) Value(varIdx int) interface{} {
	if varIdx == employeeVar {
		return s.employee
	}
	return nil
}

func (s *Shift) SetValue(varIdx int, newValue interface{}) interface{} {
	if varIdx != employeeVar {
		return nil
	}
	old := s.employee
	s.employee = newValue.(string)
	return old
}

// Roster is the scheduling working solution: a flat list of shifts, each
// with an employee assigned from a fixed pool.
type Roster struct {
	shifts []model.Entity
}

func NewRoster(shifts []*Shift) *Roster {
	r := &Roster{}
	for _, s := range shifts {
		r.shifts = append(r.shifts, s)
	}
	return r
}

func (r *Roster) ClassCount() int                            { return 1 }
func (r *Roster) EntityCount(classIdx int) int               { return len(r.shifts) }
func (r *Roster) EntityAt(classIdx int, pos int) model.Entity { return r.shifts[pos] }
func (r *Roster) AddEntity(classIdx int, e model.Entity) int {
	r.shifts = append(r.shifts, e)
	return len(r.shifts) - 1
}
func (r *Roster) RemoveEntity(classIdx int, pos int) {
	last := len(r.shifts) - 1
	r.shifts[pos] = r.shifts[last]
	r.shifts = r.shifts[:last]
}

// Descriptor builds the class/variable descriptor for a roster whose
// shifts are assigned from employees.
func Descriptor(employees []string) *model.SolutionDescriptor {
	values := make([]interface{}, len(employees))
	for i, e := range employees {
		values[i] = e
	}
	employeeRange := model.NewFiniteValueRange("employee", values)
	return model.NewDescribe().
		ValueRange(employeeRange).
		Class("Shift", model.BasicVar("employee", "employee")).
		Build()
}
