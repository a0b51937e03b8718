package vending

import (
	"fmt"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/mapping"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db/models"
)

// NewMapper builds the mapper for the vending machine aggregate: the
// machine record pair plus its inventory line child pair.
func NewMapper() *mapping.Mapper {
	registry := mapping.NewRegistry()
	registry.Register(machineBinding())
	registry.Register(lineBinding())
	return mapping.NewMapper(registry)
}

func machineBinding() mapping.Binding {
	return mapping.Binding{
		EntityKind:   domain.KindVendingMachine,
		RecordKind:   (*models.VendingMachine)(nil).RecordKind(),
		Columns:      []string{"name", "model_number", "location"},
		Associations: []string{"Inventory"},
		NewRecord:    func() mapping.Record { return &models.VendingMachine{} },
		FillRecord: func(e domain.Entity, rec mapping.Record, m *mapping.Mapper) error {
			machine, ok := e.(*domain.VendingMachine)
			if !ok {
				return fmt.Errorf("expected *domain.VendingMachine, got %T", e)
			}
			out := rec.(*models.VendingMachine)
			out.ID = machine.ID
			out.Name = machine.Name
			out.ModelNumber = machine.ModelNumber
			out.Location = machine.Location
			out.Inventory = make([]models.InventoryLine, 0, len(machine.Inventory))
			for _, line := range machine.Inventory {
				converted, err := m.ToRecord(line)
				if err != nil {
					return err
				}
				lineRec := converted.(*models.InventoryLine)
				lineRec.VendingMachineID = machine.ID
				out.Inventory = append(out.Inventory, *lineRec)
			}
			return nil
		},
		ToEntity: func(rec mapping.Record, _ *mapping.Mapper) (domain.Entity, error) {
			in, ok := rec.(*models.VendingMachine)
			if !ok {
				return nil, fmt.Errorf("expected *models.VendingMachine, got %T", rec)
			}
			machine := &domain.VendingMachine{
				Base:        domain.Base{ID: in.ID},
				Name:        in.Name,
				ModelNumber: in.ModelNumber,
				Location:    in.Location,
				Inventory:   make([]*domain.InventoryLine, 0, len(in.Inventory)),
			}
			for i := range in.Inventory {
				line, err := lineToEntity(&in.Inventory[i])
				if err != nil {
					return nil, err
				}
				machine.Inventory = append(machine.Inventory, line)
			}
			return machine, nil
		},
	}
}

func lineBinding() mapping.Binding {
	return mapping.Binding{
		EntityKind: domain.KindInventoryLine,
		RecordKind: (*models.InventoryLine)(nil).RecordKind(),
		Columns:    []string{"vending_machine_id", "product_id", "seller_id", "amount_available", "cost"},
		NewRecord:  func() mapping.Record { return &models.InventoryLine{} },
		FillRecord: func(e domain.Entity, rec mapping.Record, _ *mapping.Mapper) error {
			line, ok := e.(*domain.InventoryLine)
			if !ok {
				return fmt.Errorf("expected *domain.InventoryLine, got %T", e)
			}
			out := rec.(*models.InventoryLine)
			out.ID = line.ID
			out.VendingMachineID = line.VendingMachineID
			out.ProductID = line.ProductID
			out.SellerID = line.SellerID
			out.AmountAvailable = line.AmountAvailable
			out.Cost = line.Cost
			return nil
		},
		ToEntity: func(rec mapping.Record, _ *mapping.Mapper) (domain.Entity, error) {
			in, ok := rec.(*models.InventoryLine)
			if !ok {
				return nil, fmt.Errorf("expected *models.InventoryLine, got %T", rec)
			}
			return lineToEntity(in)
		},
	}
}

// lineToEntity runs the domain constructor so a stored row that lost its
// required references fails hydration instead of producing an invalid line.
func lineToEntity(in *models.InventoryLine) (*domain.InventoryLine, error) {
	line, err := domain.NewInventoryLine(in.ProductID, in.SellerID, in.AmountAvailable, in.Cost)
	if err != nil {
		return nil, err
	}
	line.ID = in.ID
	line.VendingMachineID = in.VendingMachineID
	return line, nil
}
