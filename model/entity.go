package model

import "github.com/google/uuid"

// EntityID uniquely identifies one entity across the lifetime of a working
// solution. Demo problems mint these with github.com/google/uuid, grounded
// on deppy's pipeline/event/eventidprovider/uuid.go.
type EntityID string

// NewEntityID mints a fresh random EntityID.
func NewEntityID() EntityID { return EntityID(uuid.NewString()) }

// Location is an entity's current address within the working solution:
// its class index and its position within that class's entity slice.
// spec.md invariant 5 requires this be retrievable in O(1) via the
// id→location map maintained by WorkingSolution.
type Location struct {
	ClassIdx int
	Pos      int
}

// Entity is implemented by the user's planning-entity types. Tuples in
// SERIO never embed an Entity value directly (design notes §9: "Tuples
// should not own entities") — they carry an EntityRef and look the entity
// up through the WorkingSolution when a weight/key function needs a field.
type Entity interface {
	ID() EntityID
	// Value returns the current value of the variable at varIdx.
	Value(varIdx int) interface{}
	// SetValue raw-writes the variable at varIdx and returns the old value.
	// Never called directly by phases; only by WorkingSolution.WriteVariable.
	SetValue(varIdx int, newValue interface{}) (oldValue interface{})
}

// EntityRef is a stable, comparable, content-free reference to one entity:
// the (class, id) pair. Join/group indices key on this, never on a
// transient field value, per spec.md §4.3 "Fingerprinting and identity".
type EntityRef struct {
	ClassIdx int
	ID       EntityID
}

// FactKey lets EntityRef satisfy serio.Fact without serio importing model's
// internals beyond this package's exported types.
func (r EntityRef) FactKey() interface{} { return r }
