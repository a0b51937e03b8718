package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rafaelortiz/vendtrack-backend/api/middleware"
	"github.com/rafaelortiz/vendtrack-backend/api/responses"
	"github.com/rafaelortiz/vendtrack-backend/api/validators"
	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/vending"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
	"github.com/rafaelortiz/vendtrack-backend/pkg/logger"
)

type createMachineBody struct {
	Name        string `json:"name" validate:"required,min=1,max=128"`
	ModelNumber string `json:"model_number" validate:"required,min=1,max=64"`
	Location    string `json:"location" validate:"required,min=1,max=128"`
}

type addInventoryLineBody struct {
	ProductID       string          `json:"product_id" validate:"required,uuid4"`
	AmountAvailable int             `json:"amount_available" validate:"gte=0"`
	Cost            decimal.Decimal `json:"cost"`
}

type restockLineBody struct {
	Delta int `json:"delta" validate:"required"`
}

type resetLineQtyBody struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type setLineCostBody struct {
	Cost decimal.Decimal `json:"cost"`
}

type inventoryLineResponse struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	SellerID        string `json:"seller_id"`
	AmountAvailable int    `json:"amount_available"`
	Cost            string `json:"cost"`
}

type machineResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	ModelNumber string                  `json:"model_number"`
	Location    string                  `json:"location"`
	Inventory   []inventoryLineResponse `json:"inventory"`
}

func toMachineResponse(m *domain.VendingMachine) machineResponse {
	inventory := make([]inventoryLineResponse, 0, len(m.Inventory))
	for _, line := range m.Inventory {
		inventory = append(inventory, inventoryLineResponse{
			ID:              line.ID,
			ProductID:       line.ProductID,
			SellerID:        line.SellerID,
			AmountAvailable: line.AmountAvailable,
			Cost:            line.Cost.StringFixed(2),
		})
	}
	return machineResponse{
		ID:          m.ID,
		Name:        m.Name,
		ModelNumber: m.ModelNumber,
		Location:    m.Location,
		Inventory:   inventory,
	}
}

// MachineCreate provisions a new machine with no inventory.
func MachineCreate(svc *vending.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createMachineBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		machine, err := svc.CreateMachine(r.Context(),
			validators.SanitizeString(body.Name, 128),
			validators.SanitizeString(body.ModelNumber, 64),
			validators.SanitizeString(body.Location, 128))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toMachineResponse(machine))
	}
}

// MachineList returns every machine with its inventory, optionally capped
// by ?limit=.
func MachineList(repo *vending.Repository, logg *logger.Logger) http.HandlerFunc {
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

		out := make([]machineResponse, 0, len(all))
		for _, m := range all {
			out = append(out, toMachineResponse(m))
		}
		responses.WriteSuccess(w, out)
	}
}

// MachineDetail returns one machine by id.
func MachineDetail(repo *vending.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "machineId")

		machine, found, err := repo.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeNotFound, "machine %s not found", id))
			return
		}

		responses.WriteSuccess(w, toMachineResponse(machine))
	}
}

// MachineAddLine stocks a product in a machine. The seller is the
// authenticated caller.
func MachineAddLine(svc *vending.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addInventoryLineBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Cost.IsNegative() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative"))
			return
		}

		sellerID := middleware.UserIDFromContext(r.Context())
		if sellerID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authenticated user"))
			return
		}

		machineID := chi.URLParam(r, "machineId")
		machine, err := svc.AddInventoryLine(r.Context(), machineID, body.ProductID, sellerID, body.AmountAvailable, body.Cost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toMachineResponse(machine))
	}
}

// MachineRestockLine adjusts a line's available amount by a delta.
func MachineRestockLine(svc *vending.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body restockLineBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		machineID := chi.URLParam(r, "machineId")
		productID := chi.URLParam(r, "productId")
		machine, err := svc.RestockLine(r.Context(), machineID, productID, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toMachineResponse(machine))
	}
}

// MachineResetLineQty sets a line's available amount outright.
func MachineResetLineQty(svc *vending.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body resetLineQtyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		machineID := chi.URLParam(r, "machineId")
		productID := chi.URLParam(r, "productId")
		machine, err := svc.ResetLineQty(r.Context(), machineID, productID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toMachineResponse(machine))
	}
}

// MachineSetLineCost reprices a line.
func MachineSetLineCost(svc *vending.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body setLineCostBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Cost.IsNegative() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative"))
			return
		}

		machineID := chi.URLParam(r, "machineId")
		productID := chi.URLParam(r, "productId")
		machine, err := svc.SetLineCost(r.Context(), machineID, productID, body.Cost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toMachineResponse(machine))
	}
}
