package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafaelortiz/vendtrack-backend/api/responses"
	"github.com/rafaelortiz/vendtrack-backend/api/validators"
	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/products"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
	"github.com/rafaelortiz/vendtrack-backend/pkg/logger"
)

type createProductBody struct {
	Name            string  `json:"name" validate:"required,min=1,max=128"`
	CountryOfOrigin string  `json:"country_of_origin" validate:"required,min=2,max=64"`
	Calories        float64 `json:"calories" validate:"gte=0"`
	Flavor          string  `json:"flavor" validate:"required,max=64"`
}

type productResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CountryOfOrigin string  `json:"country_of_origin"`
	Calories        float64 `json:"calories"`
	Flavor          string  `json:"flavor"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:              p.ID,
		Name:            p.Name,
		CountryOfOrigin: p.CountryOfOrigin,
		Calories:        p.Calories,
		Flavor:          p.Flavor,
	}
}

// ProductCreate registers a new catalog entry.
func ProductCreate(repo *products.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product := &domain.Product{
			Name:            validators.SanitizeString(body.Name, 128),
			CountryOfOrigin: validators.SanitizeString(body.CountryOfOrigin, 64),
			Calories:        body.Calories,
			Flavor:          validators.SanitizeString(body.Flavor, 64),
		}

		stored, err := repo.Insert(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toProductResponse(stored))
	}
}

// ProductList returns the catalog, optionally capped by ?limit=.
func ProductList(repo *products.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		all, err := repo.GetAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if limit > 0 && len(all) > limit {
			all = all[:limit]
		}

		out := make([]productResponse, 0, len(all))
		for _, p := range all {
			out = append(out, toProductResponse(p))
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductDetail returns one catalog entry by id.
func ProductDetail(repo *products.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "productId")

		product, found, err := repo.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", id))
			return
		}

		responses.WriteSuccess(w, toProductResponse(product))
	}
}
