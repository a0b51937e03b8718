package users

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/repo"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db/models"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
)

// Repository persists the user aggregate (user plus owned roles).
type Repository struct {
	*repo.Repository[*domain.User, models.User, *models.User]
	db *gorm.DB
}

// NewRepository wires the generic repository with the user aggregate's
// mapper.
func NewRepository(db *gorm.DB) (*Repository, error) {
	base, err := repo.New[*domain.User, models.User, *models.User](db, NewMapper(), domain.KindUser)
	if err != nil {
		return nil, err
	}
	return &Repository{Repository: base, db: db}, nil
}

// WithTx returns a repository copy bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Repository: r.Repository.WithTx(tx), db: tx}
}

// FindByName loads the user aggregate by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*domain.User, bool, error) {
	var rec models.User
	err := r.db.WithContext(ctx).Preload(clause.Associations).Where("name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "loading user by name")
	}
	return &domain.User{
		Base:    domain.Base{ID: rec.ID},
		Name:    rec.Name,
		Deposit: rec.Deposit,
		IsAdmin: rec.IsAdmin,
		Roles:   rolesToEntities(rec.Roles),
	}, true, nil
}

// SetPasswordHash writes the password column directly; the hash never
// travels through the domain entity.
func (r *Repository) SetPasswordHash(ctx context.Context, userID, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("password_hash", hash)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, res.Error, "setting password")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", userID)
	}
	return nil
}

// PasswordHashByName returns the stored hash for a user name, if any.
func (r *Repository) PasswordHashByName(ctx context.Context, name string) (string, bool, error) {
	var rec models.User
	err := r.db.WithContext(ctx).Select("id", "password_hash").Where("name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "loading credentials")
	}
	if rec.PasswordHash == nil {
		return "", false, nil
	}
	return *rec.PasswordHash, true, nil
}

func rolesToEntities(in []models.Role) []*domain.Role {
	out := make([]*domain.Role, 0, len(in))
	for i := range in {
		out = append(out, roleToEntity(&in[i]))
	}
	return out
}
