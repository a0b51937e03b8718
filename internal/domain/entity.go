package domain

import "github.com/google/uuid"

// Entity is the shape every domain object shares: a string identifier that
// is assigned lazily and immutable once set, plus a declared set of child
// collections.
type Entity interface {
	GetID() string
	// EnsureID assigns a fresh identifier when none is set. Calling it on
	// an entity that already has one is a no-op.
	EnsureID()
	EntityKind() string
	// Children returns the entity's declared child collections. Entities
	// without children return nil.
	Children() []Collection
}

// Collection declares one named child-collection field: an ordered sequence
// of child entities of a single kind.
type Collection struct {
	Name  string
	Kind  string
	Items []Entity
}

// Base carries the identifier shared by all entities.
type Base struct {
	ID string
}

func (b *Base) GetID() string { return b.ID }

func (b *Base) EnsureID() {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
}

// AssignIdentifiers gives the entity an identifier if it lacks one, then
// does the same for every entity in its direct child collections. The
// cascade is exactly one level deep: grandchildren declared on the children
// are not visited, so nested aggregates must be assigned per root.
func AssignIdentifiers(e Entity) {
	e.EnsureID()
	for _, col := range e.Children() {
		for _, child := range col.Items {
			child.EnsureID()
		}
	}
}

func collect[E Entity](items []E) []Entity {
	if len(items) == 0 {
		return nil
	}
	out := make([]Entity, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
