package model

import "github.com/solverforge/solverforge/sferr"

// Solution is implemented by the user's problem/solution object (spec.md
// §3 "Solution", §4.2). It is the read/write surface WorkingSolution wraps
// — the same shape as deppy's input.EntitySource (Get/Filter/GroupBy/
// Iterate) generalized from a read-only fact store to a mutable working
// solution with add/remove for list-variable value pools.
type Solution interface {
	ClassCount() int
	EntityCount(classIdx int) int
	EntityAt(classIdx, pos int) Entity
	AddEntity(classIdx int, e Entity) (pos int)
	RemoveEntity(classIdx, pos int)
}

// WorkingSolution is the mutable solution currently held by the director
// (spec.md "Working solution" in the GLOSSARY). It owns the id→location
// map that is the O(1) fast path replacing linear scans (spec.md §4.2).
type WorkingSolution struct {
	Descriptor *SolutionDescriptor
	solution   Solution
	locations  map[EntityID]Location
}

func NewWorkingSolution(descriptor *SolutionDescriptor, solution Solution) (*WorkingSolution, error) {
	ws := &WorkingSolution{
		Descriptor: descriptor,
		solution:   solution,
		locations:  make(map[EntityID]Location),
	}
	for classIdx := 0; classIdx < solution.ClassCount(); classIdx++ {
		if classIdx >= len(descriptor.Classes) {
			return nil, sferr.New(sferr.UnknownClass, "solution has more classes than descriptor")
		}
		for pos := 0; pos < solution.EntityCount(classIdx); pos++ {
			e := solution.EntityAt(classIdx, pos)
			ws.locations[e.ID()] = Location{ClassIdx: classIdx, Pos: pos}
		}
	}
	return ws, nil
}

// EntityCount returns the number of entities in the given class.
func (ws *WorkingSolution) EntityCount(classIdx int) int {
	return ws.solution.EntityCount(classIdx)
}

// EntityAt returns the entity at (classIdx, pos).
func (ws *WorkingSolution) EntityAt(classIdx, pos int) Entity {
	return ws.solution.EntityAt(classIdx, pos)
}

// Locate returns the current location of the entity with the given id.
// O(1) amortized, satisfying invariant I7.
func (ws *WorkingSolution) Locate(id EntityID) (Location, bool) {
	loc, ok := ws.locations[id]
	return loc, ok
}

// ReadVariable reads the current value of variable varIdx on the entity at
// loc.
func (ws *WorkingSolution) ReadVariable(loc Location, varIdx int) interface{} {
	return ws.EntityAt(loc.ClassIdx, loc.Pos).Value(varIdx)
}

// WriteVariable raw-writes a new value and returns the old one. Never
// called directly by phases (spec.md §4.2) — only by the score director,
// bracketed by before/after notifications to SERIO.
func (ws *WorkingSolution) WriteVariable(loc Location, varIdx int, newValue interface{}) (oldValue interface{}, err error) {
	class := ws.Descriptor.Classes[loc.ClassIdx]
	if varIdx < 0 || varIdx >= len(class.Variables) {
		return nil, sferr.New(sferr.UnknownVariable, class.Name)
	}
	vd := class.Variables[varIdx]
	if vd.Kind == VariableBasic && vd.ValueRange != "" {
		vr, ok := ws.Descriptor.ValueRanges[vd.ValueRange]
		if !ok {
			return nil, sferr.New(sferr.UnknownValueRange, vd.ValueRange)
		}
		if !vr.Contains(newValue) {
			return nil, sferr.New(sferr.ValueOutOfRange, vd.Name)
		}
	}
	old := ws.EntityAt(loc.ClassIdx, loc.Pos).SetValue(varIdx, newValue)
	return old, nil
}

// AddEntity inserts e into class classIdx and updates the location map
// atomically with the entity vector (invariant 5).
func (ws *WorkingSolution) AddEntity(classIdx int, e Entity) Location {
	pos := ws.solution.AddEntity(classIdx, e)
	loc := Location{ClassIdx: classIdx, Pos: pos}
	ws.locations[e.ID()] = loc
	return loc
}

// RemoveEntity removes the entity at loc. Because removal in a
// slice-backed Solution may shift positions, the caller must report every
// entity whose position changed via ReindexEntity so the location map
// stays in sync.
func (ws *WorkingSolution) RemoveEntity(loc Location) {
	id := ws.EntityAt(loc.ClassIdx, loc.Pos).ID()
	ws.solution.RemoveEntity(loc.ClassIdx, loc.Pos)
	delete(ws.locations, id)
}

// ReindexEntity updates the location map for an entity whose position
// changed without its identity changing (e.g. a swap-remove compaction
// after RemoveEntity). Must be called for every such entity before any
// further Locate call relies on it.
func (ws *WorkingSolution) ReindexEntity(id EntityID, newLoc Location) {
	ws.locations[id] = newLoc
}

// AllEntityRefs returns an EntityRef for every live entity in classIdx, in
// position order. Used by serio.ForEach to (re)build its tuple store.
func (ws *WorkingSolution) AllEntityRefs(classIdx int) []EntityRef {
	n := ws.EntityCount(classIdx)
	refs := make([]EntityRef, n)
	for pos := 0; pos < n; pos++ {
		refs[pos] = EntityRef{ClassIdx: classIdx, ID: ws.EntityAt(classIdx, pos).ID()}
	}
	return refs
}

// Value reads a variable's current value given an EntityRef instead of a
// raw Location, re-resolving the location through the id→location map.
// This is the read path weight/key functions use — they may never
// dereference an entity by id mid-propagation through any other route, per
// spec.md §4.4, because intermediate tuple state can be observed while the
// solution is between before/after notifications.
func (ws *WorkingSolution) Value(ref EntityRef, varIdx int) (interface{}, bool) {
	loc, ok := ws.Locate(ref.ID)
	if !ok {
		return nil, false
	}
	return ws.ReadVariable(loc, varIdx), true
}
