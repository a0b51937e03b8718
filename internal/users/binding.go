package users

import (
	"fmt"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/mapping"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db/models"
)

// NewMapper builds the mapper for the user aggregate: the user record pair
// plus its role child pair.
func NewMapper() *mapping.Mapper {
	registry := mapping.NewRegistry()
	registry.Register(userBinding())
	registry.Register(roleBinding())
	return mapping.NewMapper(registry)
}

func userBinding() mapping.Binding {
	return mapping.Binding{
		EntityKind:   domain.KindUser,
		RecordKind:   (*models.User)(nil).RecordKind(),
		Columns:      []string{"name", "deposit", "is_admin"},
		Associations: []string{"Roles"},
		NewRecord:    func() mapping.Record { return &models.User{} },
		FillRecord: func(e domain.Entity, rec mapping.Record, m *mapping.Mapper) error {
			user, ok := e.(*domain.User)
			if !ok {
				return fmt.Errorf("expected *domain.User, got %T", e)
			}
			out := rec.(*models.User)
			out.ID = user.ID
			out.Name = user.Name
			out.Deposit = user.Deposit
			out.IsAdmin = user.IsAdmin
			out.Roles = make([]models.Role, 0, len(user.Roles))
			for _, role := range user.Roles {
				converted, err := m.ToRecord(role)
				if err != nil {
					return err
				}
				roleRec := converted.(*models.Role)
				roleRec.UserID = user.ID
				out.Roles = append(out.Roles, *roleRec)
			}
			return nil
		},
		ToEntity: func(rec mapping.Record, _ *mapping.Mapper) (domain.Entity, error) {
			in, ok := rec.(*models.User)
			if !ok {
				return nil, fmt.Errorf("expected *models.User, got %T", rec)
			}
			user := &domain.User{
				Base:    domain.Base{ID: in.ID},
				Name:    in.Name,
				Deposit: in.Deposit,
				IsAdmin: in.IsAdmin,
				Roles:   make([]*domain.Role, 0, len(in.Roles)),
			}
			for i := range in.Roles {
				user.Roles = append(user.Roles, roleToEntity(&in.Roles[i]))
			}
			return user, nil
		},
	}
}

func roleBinding() mapping.Binding {
	return mapping.Binding{
		EntityKind: domain.KindRole,
		RecordKind: (*models.Role)(nil).RecordKind(),
		Columns:    []string{"name", "user_id"},
		NewRecord:  func() mapping.Record { return &models.Role{} },
		FillRecord: func(e domain.Entity, rec mapping.Record, _ *mapping.Mapper) error {
			role, ok := e.(*domain.Role)
			if !ok {
				return fmt.Errorf("expected *domain.Role, got %T", e)
			}
			out := rec.(*models.Role)
			out.ID = role.ID
			out.Name = role.Name
			out.UserID = role.UserID
			return nil
		},
		ToEntity: func(rec mapping.Record, _ *mapping.Mapper) (domain.Entity, error) {
			in, ok := rec.(*models.Role)
			if !ok {
				return nil, fmt.Errorf("expected *models.Role, got %T", rec)
			}
			return roleToEntity(in), nil
		},
	}
}

func roleToEntity(in *models.Role) *domain.Role {
	return &domain.Role{
		Base:   domain.Base{ID: in.ID},
		Name:   in.Name,
		UserID: in.UserID,
	}
}
