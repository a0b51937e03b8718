package vending

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafaelortiz/vendtrack-backend/pkg/db/models"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.VendingMachine{}, &models.InventoryLine{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	repo, err := NewRepository(conn)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	return NewService(repo, nil)
}

func TestCreateMachineStartsEmpty(t *testing.T) {
	svc := newTestService(t)

	machine, err := svc.CreateMachine(context.Background(), "snacks", "VM-1", "lobby")
	if err != nil {
		t.Fatalf("CreateMachine: %v", err)
	}
	if machine.ID == "" {
		t.Fatal("expected machine id assigned")
	}
	if len(machine.Inventory) != 0 {
		t.Fatalf("expected empty inventory, got %d lines", len(machine.Inventory))
	}
}

func TestAddInventoryLineRejectsDuplicateProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	machine, err := svc.CreateMachine(ctx, "snacks", "VM-1", "lobby")
	if err != nil {
		t.Fatalf("CreateMachine: %v", err)
	}

	stocked, err := svc.AddInventoryLine(ctx, machine.ID, "p1", "s1", 10, decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("AddInventoryLine: %v", err)
	}
	if len(stocked.Inventory) != 1 {
		t.Fatalf("expected one line, got %d", len(stocked.Inventory))
	}

	_, err = svc.AddInventoryLine(ctx, machine.ID, "p1", "s1", 5, decimal.NewFromInt(3))
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate product, got %v", err)
	}
}

func TestAddInventoryLineUnknownMachine(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddInventoryLine(context.Background(), "no-such-machine", "p1", "s1", 10, decimal.NewFromInt(2))
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLineMutationsPersist(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	machine, err := svc.CreateMachine(ctx, "snacks", "VM-1", "lobby")
	if err != nil {
		t.Fatalf("CreateMachine: %v", err)
	}
	if _, err := svc.AddInventoryLine(ctx, machine.ID, "p1", "s1", 10, decimal.NewFromInt(2)); err != nil {
		t.Fatalf("AddInventoryLine: %v", err)
	}

	updated, err := svc.RestockLine(ctx, machine.ID, "p1", 5)
	if err != nil {
		t.Fatalf("RestockLine: %v", err)
	}
	line, _ := updated.ProductLine("p1")
	if line.AmountAvailable != 15 {
		t.Fatalf("expected 15 after restock, got %d", line.AmountAvailable)
	}

	updated, err = svc.ResetLineQty(ctx, machine.ID, "p1", 3)
	if err != nil {
		t.Fatalf("ResetLineQty: %v", err)
	}
	line, _ = updated.ProductLine("p1")
	if line.AmountAvailable != 3 {
		t.Fatalf("expected 3 after reset, got %d", line.AmountAvailable)
	}

	updated, err = svc.SetLineCost(ctx, machine.ID, "p1", decimal.NewFromInt(4))
	if err != nil {
		t.Fatalf("SetLineCost: %v", err)
	}
	line, _ = updated.ProductLine("p1")
	if !line.Cost.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("expected cost 4, got %s", line.Cost)
	}
}

func TestLineMutationUnknownProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	machine, err := svc.CreateMachine(ctx, "snacks", "VM-1", "lobby")
	if err != nil {
		t.Fatalf("CreateMachine: %v", err)
	}

	_, err = svc.RestockLine(ctx, machine.ID, "p-missing", 5)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
