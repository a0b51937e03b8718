package vending

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
	"github.com/rafaelortiz/vendtrack-backend/pkg/logger"
)

// Service manages machines and their inventory lines. Mutations load the
// aggregate, apply the domain operation, and upsert the whole machine.
type Service struct {
	machines *Repository
	logg     *logger.Logger
}

func NewService(machines *Repository, logg *logger.Logger) *Service {
	return &Service{machines: machines, logg: logg}
}

// CreateMachine persists a new machine with empty inventory.
func (s *Service) CreateMachine(ctx context.Context, name, modelNumber, location string) (*domain.VendingMachine, error) {
	machine := domain.NewVendingMachine(name, modelNumber, location)
	stored, err := s.machines.Insert(ctx, machine)
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "machine_id", stored.ID), "vending machine created")
	}
	return stored, nil
}

// AddInventoryLine stocks a new product in the machine. The per-product
// uniqueness rule is enforced here by looking the product up first.
func (s *Service) AddInventoryLine(ctx context.Context, machineID, productID, sellerID string, qty int, cost decimal.Decimal) (*domain.VendingMachine, error) {
	machine, found, err := s.machines.GetByID(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "vending machine %s not found", machineID)
	}

	if _, exists := machine.ProductLine(productID); exists {
		return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "product %s already stocked in machine %s", productID, machineID)
	}

	line, err := domain.NewInventoryLine(productID, sellerID, qty, cost)
	if err != nil {
		return nil, err
	}
	line.VendingMachineID = machine.ID
	machine.CreateInventoryLine(line)

	return s.machines.Insert(ctx, machine)
}

// RestockLine adjusts a line's available amount by delta.
func (s *Service) RestockLine(ctx context.Context, machineID, productID string, delta int) (*domain.VendingMachine, error) {
	return s.mutateLine(ctx, machineID, func(machine *domain.VendingMachine) error {
		return machine.UpdateInventoryItemQty(productID, delta)
	})
}

// ResetLineQty sets a line's available amount outright.
func (s *Service) ResetLineQty(ctx context.Context, machineID, productID string, qty int) (*domain.VendingMachine, error) {
	return s.mutateLine(ctx, machineID, func(machine *domain.VendingMachine) error {
		return machine.ResetInventoryItemQty(productID, qty)
	})
}

// SetLineCost changes a line's unit cost.
func (s *Service) SetLineCost(ctx context.Context, machineID, productID string, cost decimal.Decimal) (*domain.VendingMachine, error) {
	return s.mutateLine(ctx, machineID, func(machine *domain.VendingMachine) error {
		return machine.UpdateInventoryItemCost(productID, cost)
	})
}

func (s *Service) mutateLine(ctx context.Context, machineID string, mutate func(*domain.VendingMachine) error) (*domain.VendingMachine, error) {
	machine, found, err := s.machines.GetByID(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "vending machine %s not found", machineID)
	}
	if err := mutate(machine); err != nil {
		return nil, err
	}
	return s.machines.Insert(ctx, machine)
}
