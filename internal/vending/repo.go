package vending

import (
	"gorm.io/gorm"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/repo"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db/models"
)

// Repository persists the vending machine aggregate with its inventory
// lines.
type Repository struct {
	*repo.Repository[*domain.VendingMachine, models.VendingMachine, *models.VendingMachine]
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	base, err := repo.New[*domain.VendingMachine, models.VendingMachine, *models.VendingMachine](db, NewMapper(), domain.KindVendingMachine)
	if err != nil {
		return nil, err
	}
	return &Repository{Repository: base}, nil
}

// WithTx returns a repository copy bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Repository: r.Repository.WithTx(tx)}
}
