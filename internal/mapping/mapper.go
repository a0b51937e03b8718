package mapping

import (
	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
)

// Mapper converts between domain entities and persisted records using the
// registry's bindings. Child collections convert recursively: the registry
// resolves each child's record type in the entity→record direction, while
// the record→entity direction relies on the binding's statically declared
// child type.
type Mapper struct {
	registry *Registry
}

func NewMapper(registry *Registry) *Mapper {
	return &Mapper{registry: registry}
}

func (m *Mapper) Registry() *Registry {
	return m.registry
}

// ToRecord projects the entity (and its children) into a fresh record.
// Entity fields the record type does not declare are dropped silently.
func (m *Mapper) ToRecord(e domain.Entity) (Record, error) {
	b, err := m.registry.ByEntity(e.EntityKind())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMapping, err, "resolving record type")
	}
	rec := b.NewRecord()
	if err := b.FillRecord(e, rec, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMapping, err, "projecting entity to record")
	}
	return rec, nil
}

// ToEntity rebuilds a domain entity from a stored record. Construction runs
// through the domain type's own validation; a record that cannot satisfy it
// surfaces as a mapping error rather than being coerced.
func (m *Mapper) ToEntity(rec Record) (domain.Entity, error) {
	b, err := m.registry.ByRecord(rec.RecordKind())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMapping, err, "resolving entity type")
	}
	e, err := b.ToEntity(rec, m)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMapping, err, "hydrating entity from record")
	}
	return e, nil
}
