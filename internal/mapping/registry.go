package mapping

import (
	"errors"
	"fmt"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
)

// ErrNotRegistered is returned when neither side of a lookup is known to
// the registry.
var ErrNotRegistered = errors.New("mapping: type not registered")

// Record is the store-shaped counterpart of an entity. Records carry no
// behavior beyond identifying themselves.
type Record interface {
	GetID() string
	RecordKind() string
}

// Binding is the statically declared pairing of one entity kind with one
// record kind, plus the hand-written conversion routines between them.
// Columns lists every record column the conversion writes; the repository
// merge overwrites exactly those, leaving store-managed columns alone.
// Associations names the record's child collections, replaced wholesale on
// upsert.
type Binding struct {
	EntityKind   string
	RecordKind   string
	Columns      []string
	Associations []string

	NewRecord  func() Record
	FillRecord func(e domain.Entity, rec Record, m *Mapper) error
	ToEntity   func(rec Record, m *Mapper) (domain.Entity, error)
}

// Registry is a symmetric mapping between entity kinds and record kinds.
// Registering a binding evicts any prior binding sharing either side; the
// last registration wins in both directions.
type Registry struct {
	byEntity map[string]*Binding
	byRecord map[string]*Binding
}

func NewRegistry() *Registry {
	return &Registry{
		byEntity: make(map[string]*Binding),
		byRecord: make(map[string]*Binding),
	}
}

func (r *Registry) Register(b Binding) {
	if prior, ok := r.byEntity[b.EntityKind]; ok {
		delete(r.byRecord, prior.RecordKind)
	}
	if prior, ok := r.byRecord[b.RecordKind]; ok {
		delete(r.byEntity, prior.EntityKind)
	}
	bound := b
	r.byEntity[b.EntityKind] = &bound
	r.byRecord[b.RecordKind] = &bound
}

// ByEntity resolves the binding for an entity kind.
func (r *Registry) ByEntity(kind string) (*Binding, error) {
	b, ok := r.byEntity[kind]
	if !ok {
		return nil, fmt.Errorf("%w: entity kind %q", ErrNotRegistered, kind)
	}
	return b, nil
}

// ByRecord resolves the binding for a record kind.
func (r *Registry) ByRecord(kind string) (*Binding, error) {
	b, ok := r.byRecord[kind]
	if !ok {
		return nil, fmt.Errorf("%w: record kind %q", ErrNotRegistered, kind)
	}
	return b, nil
}
