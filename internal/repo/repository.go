package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/mapping"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
)

// Repository provides generic persistence for one entity type and its
// record counterpart. The binding is resolved from the mapper's registry
// once at construction, not per call.
//
// E is the pointer entity type, R the record struct; PR ties *R to the
// mapping.Record interface.
type Repository[E domain.Entity, R any, PR interface {
	*R
	mapping.Record
}] struct {
	Base
	mapper  *mapping.Mapper
	binding *mapping.Binding
}

// New resolves the entity kind's binding and returns the repository.
func New[E domain.Entity, R any, PR interface {
	*R
	mapping.Record
}](db *gorm.DB, mapper *mapping.Mapper, entityKind string) (*Repository[E, R, PR], error) {
	binding, err := mapper.Registry().ByEntity(entityKind)
	if err != nil {
		return nil, err
	}
	return &Repository[E, R, PR]{
		Base:    NewBase(db),
		mapper:  mapper,
		binding: binding,
	}, nil
}

// WithTx returns a repository copy bound to the provided transaction.
func (r *Repository[E, R, PR]) WithTx(tx *gorm.DB) *Repository[E, R, PR] {
	return &Repository[E, R, PR]{
		Base:    NewBase(tx),
		mapper:  r.mapper,
		binding: r.binding,
	}
}

// Insert upserts the entity by identifier. Missing identifiers are assigned
// first, one level into declared child collections. When a stored record
// with the same id exists, every mapped column is overwritten (zero values
// included) and child collections are replaced wholesale; columns the
// mapper never writes keep their stored values. The returned entity is the
// freshly reloaded committed state.
func (r *Repository[E, R, PR]) Insert(ctx context.Context, entity E) (E, error) {
	var zero E

	domain.AssignIdentifiers(entity)

	rec, err := r.mapper.ToRecord(entity)
	if err != nil {
		return zero, err
	}
	id := rec.GetID()

	err = r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		var existing R
		findErr := tx.First(&existing, "id = ?", id).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			return tx.Create(rec).Error
		case findErr != nil:
			return findErr
		}

		for _, assoc := range r.binding.Associations {
			if err := tx.Model(PR(&existing)).Association(assoc).Unscoped().Clear(); err != nil {
				return err
			}
		}

		sel := make([]string, 0, len(r.binding.Columns)+len(r.binding.Associations))
		sel = append(sel, r.binding.Columns...)
		sel = append(sel, r.binding.Associations...)

		return tx.Model(PR(&existing)).
			Select(sel).
			Session(&gorm.Session{FullSaveAssociations: true}).
			Updates(rec).Error
	})
	if err != nil {
		return zero, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "upserting record")
	}

	stored, found, err := r.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, pkgerrors.Newf(pkgerrors.CodePersistence, "record %s vanished after commit", id)
	}
	return stored, nil
}

// GetByID loads the record and its child collections and hydrates the
// entity. A missing id is reported through the found flag, not an error.
func (r *Repository[E, R, PR]) GetByID(ctx context.Context, id string) (E, bool, error) {
	var zero E

	var rec R
	err := r.DB(ctx).Preload(clause.Associations).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "loading record")
	}

	entity, err := r.toEntity(PR(&rec))
	if err != nil {
		return zero, false, err
	}
	return entity, true, nil
}

// GetAll loads every stored record of the type in store iteration order.
func (r *Repository[E, R, PR]) GetAll(ctx context.Context) ([]E, error) {
	var recs []R
	if err := r.DB(ctx).Preload(clause.Associations).Find(&recs).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "loading records")
	}

	out := make([]E, 0, len(recs))
	for i := range recs {
		entity, err := r.toEntity(PR(&recs[i]))
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func (r *Repository[E, R, PR]) toEntity(rec PR) (E, error) {
	var zero E
	hydrated, err := r.mapper.ToEntity(rec)
	if err != nil {
		return zero, err
	}
	entity, ok := hydrated.(E)
	if !ok {
		return zero, pkgerrors.Newf(pkgerrors.CodeMapping, "binding for %q produced unexpected entity type", r.binding.EntityKind)
	}
	return entity, nil
}
