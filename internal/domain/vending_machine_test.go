package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
)

func machineWithLine(t *testing.T, productID string, amount int) *VendingMachine {
	t.Helper()
	m := NewVendingMachine("snacks", "VM-100", "lobby")
	line, err := NewInventoryLine(productID, "seller-1", amount, decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("NewInventoryLine: %v", err)
	}
	m.CreateInventoryLine(line)
	return m
}

func TestNewInventoryLineRequiresReferences(t *testing.T) {
	if _, err := NewInventoryLine("", "seller-1", 0, decimal.Zero); err == nil {
		t.Fatal("expected missing product_id to fail")
	}
	if _, err := NewInventoryLine("p1", "", 0, decimal.Zero); err == nil {
		t.Fatal("expected missing seller_id to fail")
	}
	line, err := NewInventoryLine("p1", "seller-1", 0, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.AmountAvailable != 0 || !line.Cost.IsZero() {
		t.Fatalf("expected zero defaults, got %d / %s", line.AmountAvailable, line.Cost)
	}
}

func TestProductLineLookup(t *testing.T) {
	m := machineWithLine(t, "p1", 10)

	if _, ok := m.ProductLine("p1"); !ok {
		t.Fatal("expected line for p1")
	}
	if _, ok := m.ProductLine("missing"); ok {
		t.Fatal("expected absence for unknown product")
	}
}

func TestSellItemLeavesAtLeastOneUnit(t *testing.T) {
	m := machineWithLine(t, "p1", 10)

	if err := m.SellItem("p1", 9); err != nil {
		t.Fatalf("expected sale of 9 to succeed: %v", err)
	}
	line, _ := m.ProductLine("p1")
	if line.AmountAvailable != 1 {
		t.Fatalf("expected 1 remaining, got %d", line.AmountAvailable)
	}
}

func TestSellItemRejectsExhaustionToZero(t *testing.T) {
	m := machineWithLine(t, "p1", 10)

	err := m.SellItem("p1", 10)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	line, _ := m.ProductLine("p1")
	if line.AmountAvailable != 10 {
		t.Fatalf("failed sale must not mutate stock, got %d", line.AmountAvailable)
	}
}

func TestSellItemRejectsOverdraw(t *testing.T) {
	m := machineWithLine(t, "p1", 10)

	err := m.SellItem("p1", 11)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	line, _ := m.ProductLine("p1")
	if line.AmountAvailable != 10 {
		t.Fatalf("failed sale must not mutate stock, got %d", line.AmountAvailable)
	}
}

func TestSellItemUnknownProduct(t *testing.T) {
	m := machineWithLine(t, "p1", 10)
	if err := m.SellItem("nope", 1); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestockOperations(t *testing.T) {
	m := machineWithLine(t, "p1", 10)

	if err := m.ResetInventoryItemQty("p1", 3); err != nil {
		t.Fatalf("reset: %v", err)
	}
	line, _ := m.ProductLine("p1")
	if line.AmountAvailable != 3 {
		t.Fatalf("expected reset to 3, got %d", line.AmountAvailable)
	}

	if err := m.UpdateInventoryItemQty("p1", -5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if line.AmountAvailable != -2 {
		t.Fatalf("restock path does not clamp; expected -2, got %d", line.AmountAvailable)
	}

	if err := m.UpdateInventoryItemCost("p1", decimal.NewFromInt(7)); err != nil {
		t.Fatalf("cost: %v", err)
	}
	if !line.Cost.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected cost 7, got %s", line.Cost)
	}

	if err := m.ResetInventoryItemQty("missing", 1); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddRoleIsIdempotentPerName(t *testing.T) {
	u := &User{Base: Base{ID: "u1"}, Name: "amal"}
	u.AddRole(RoleSeller)
	u.AddRole(RoleSeller)

	var sellers int
	for _, r := range u.Roles {
		if r.Name == RoleSeller {
			sellers++
		}
	}
	if sellers != 1 {
		t.Fatalf("expected exactly one Seller role, got %d", sellers)
	}
	if u.Roles[0].UserID != "u1" {
		t.Fatalf("expected role to reference its owner, got %q", u.Roles[0].UserID)
	}
}
