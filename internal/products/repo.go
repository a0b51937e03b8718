package products

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/mapping"
	"github.com/rafaelortiz/vendtrack-backend/internal/repo"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db/models"
)

// Repository persists products. Products have no child collections, so the
// generic repository covers the whole surface.
type Repository struct {
	*repo.Repository[*domain.Product, models.Product, *models.Product]
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	base, err := repo.New[*domain.Product, models.Product, *models.Product](db, NewMapper(), domain.KindProduct)
	if err != nil {
		return nil, err
	}
	return &Repository{Repository: base}, nil
}

// NewMapper builds the mapper for the product aggregate.
func NewMapper() *mapping.Mapper {
	registry := mapping.NewRegistry()
	registry.Register(productBinding())
	return mapping.NewMapper(registry)
}

func productBinding() mapping.Binding {
	return mapping.Binding{
		EntityKind: domain.KindProduct,
		RecordKind: (*models.Product)(nil).RecordKind(),
		Columns:    []string{"name", "country_of_origin", "calories", "flavor"},
		NewRecord:  func() mapping.Record { return &models.Product{} },
		FillRecord: func(e domain.Entity, rec mapping.Record, _ *mapping.Mapper) error {
			product, ok := e.(*domain.Product)
			if !ok {
				return fmt.Errorf("expected *domain.Product, got %T", e)
			}
			out := rec.(*models.Product)
			out.ID = product.ID
			out.Name = product.Name
			out.CountryOfOrigin = product.CountryOfOrigin
			out.Calories = product.Calories
			out.Flavor = product.Flavor
			return nil
		},
		ToEntity: func(rec mapping.Record, _ *mapping.Mapper) (domain.Entity, error) {
			in, ok := rec.(*models.Product)
			if !ok {
				return nil, fmt.Errorf("expected *models.Product, got %T", rec)
			}
			return &domain.Product{
				Base:            domain.Base{ID: in.ID},
				Name:            in.Name,
				CountryOfOrigin: in.CountryOfOrigin,
				Calories:        in.Calories,
				Flavor:          in.Flavor,
			}, nil
		},
	}
}
