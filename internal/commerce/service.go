package commerce

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/users"
	"github.com/rafaelortiz/vendtrack-backend/internal/vending"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
	"github.com/rafaelortiz/vendtrack-backend/pkg/logger"
)

// depositDenominations is the exhaustive set of accepted deposit amounts.
// Divisibility by five is not enough: 35 divides evenly and is still
// rejected.
var depositDenominations = []int64{5, 10, 20, 50, 100}

// ValidateDeposit accepts only exact members of the denomination set.
func ValidateDeposit(amount decimal.Decimal) error {
	for _, d := range depositDenominations {
		if amount.Equal(decimal.NewFromInt(d)) {
			return nil
		}
	}
	return pkgerrors.Newf(pkgerrors.CodeValidation,
		"invalid deposit %s, deposit must be one of [5, 10, 20, 50, 100]", amount)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PurchaseReceipt reports the outcome of a purchase. Change is the user's
// remaining deposit; decomposing it into denominations is deferred.
type PurchaseReceipt struct {
	Change decimal.Decimal
}

// Service orchestrates the operations spanning users and vending machines.
type Service struct {
	tx       txRunner
	users    *users.Repository
	machines *vending.Repository
	logg     *logger.Logger
}

func NewService(tx txRunner, userRepo *users.Repository, machineRepo *vending.Repository, logg *logger.Logger) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if machineRepo == nil {
		return nil, fmt.Errorf("vending machine repository required")
	}
	return &Service{tx: tx, users: userRepo, machines: machineRepo, logg: logg}, nil
}

// AddUserDeposit validates the amount against the denomination set, then
// accumulates and persists. Invalid amounts leave the user untouched.
func (s *Service) AddUserDeposit(ctx context.Context, user *domain.User, amount decimal.Decimal) (*domain.User, error) {
	if err := ValidateDeposit(amount); err != nil {
		return nil, err
	}

	user.Deposit = user.Deposit.Add(amount)
	stored, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"user_id": stored.ID,
			"deposit": stored.Deposit.String(),
		})
		s.logg.Info(ctx, "deposit accepted")
	}
	return stored, nil
}

// BuyProduct debits the user and decrements machine stock for qty units of
// the product. Both aggregates commit inside one transaction: a failure on
// either write rolls back the other.
func (s *Service) BuyProduct(ctx context.Context, user *domain.User, machine *domain.VendingMachine, productID string, qty int) (*PurchaseReceipt, error) {
	line, found := machine.ProductLine(productID)
	if !found {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not stocked in machine %s", productID, machine.ID)
	}

	if qty <= 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity %d must be a positive integer", qty)
	}

	totalCharge := line.Cost.Mul(decimal.NewFromInt(int64(qty)))
	if totalCharge.GreaterThan(user.Deposit) {
		return nil, pkgerrors.Newf(pkgerrors.CodeInsufficientFunds,
			"deposit %s does not cover total charge %s", user.Deposit, totalCharge).
			WithDetails(map[string]any{
				"deposit":      user.Deposit.String(),
				"total_charge": totalCharge.String(),
			})
	}

	if qty > line.AmountAvailable {
		return nil, pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
			"quantity %d exceeds available amount %d", qty, line.AmountAvailable).
			WithDetails(map[string]any{
				"product_id": productID,
				"available":  line.AmountAvailable,
				"requested":  qty,
			})
	}

	if err := machine.SellItem(productID, qty); err != nil {
		return nil, err
	}
	user.Deposit = user.Deposit.Sub(totalCharge)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.users.WithTx(tx).Insert(ctx, user); err != nil {
			return err
		}
		if _, err := s.machines.WithTx(tx).Insert(ctx, machine); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"user_id":    user.ID,
			"machine_id": machine.ID,
			"product_id": productID,
			"qty":        qty,
			"charge":     totalCharge.String(),
		})
		s.logg.Info(ctx, "purchase committed")
	}

	return &PurchaseReceipt{Change: user.Deposit}, nil
}
