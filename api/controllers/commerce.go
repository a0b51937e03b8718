package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rafaelortiz/vendtrack-backend/api/middleware"
	"github.com/rafaelortiz/vendtrack-backend/api/responses"
	"github.com/rafaelortiz/vendtrack-backend/api/validators"
	"github.com/rafaelortiz/vendtrack-backend/internal/commerce"
	"github.com/rafaelortiz/vendtrack-backend/internal/users"
	"github.com/rafaelortiz/vendtrack-backend/internal/vending"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
	"github.com/rafaelortiz/vendtrack-backend/pkg/logger"
)

type depositBody struct {
	Amount decimal.Decimal `json:"amount"`
}

type buyBody struct {
	MachineID string `json:"machine_id" validate:"required,uuid4"`
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type depositResponse struct {
	UserID  string `json:"user_id"`
	Deposit string `json:"deposit"`
}

type buyResponse struct {
	Change string `json:"change"`
}

// Deposit credits the authenticated buyer's balance with one coin or note.
func Deposit(svc *commerce.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body depositBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authenticated user"))
			return
		}

		user, found, err := userRepo.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", userID))
			return
		}

		updated, err := svc.AddUserDeposit(r.Context(), user, body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, depositResponse{
			UserID:  updated.ID,
			Deposit: updated.Deposit.StringFixed(2),
		})
	}
}

// Buy purchases a quantity of one product from one machine and returns the
// change left over from the buyer's deposit.
func Buy(svc *commerce.Service, userRepo *users.Repository, machineRepo *vending.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body buyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authenticated user"))
			return
		}

		user, found, err := userRepo.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Newf(pkgerrors.CodeNotFound, "user %s not found", userID))
			return
		}

		machine, found, err := machineRepo.GetByID(r.Context(), body.MachineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Newf(pkgerrors.CodeNotFound, "machine %s not found", body.MachineID))
			return
		}

		receipt, err := svc.BuyProduct(r.Context(), user, machine, body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buyResponse{Change: receipt.Change.StringFixed(2)})
	}
}
