package domain

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
)

const (
	KindVendingMachine = "vending_machine"
	KindInventoryLine  = "inventory_line"
)

// VendingMachine is the aggregate root over its inventory lines. All line
// operations resolve by product id; at most one line per product is valid,
// enforced by callers checking ProductLine before CreateInventoryLine.
type VendingMachine struct {
	Base
	Name        string
	ModelNumber string
	Location    string
	Inventory   []*InventoryLine
}

// NewVendingMachine builds a machine with an empty, non-nil inventory.
func NewVendingMachine(name, modelNumber, location string) *VendingMachine {
	return &VendingMachine{
		Name:        name,
		ModelNumber: modelNumber,
		Location:    location,
		Inventory:   []*InventoryLine{},
	}
}

func (*VendingMachine) EntityKind() string { return KindVendingMachine }

func (m *VendingMachine) Children() []Collection {
	return []Collection{{Name: "inventory", Kind: KindInventoryLine, Items: collect(m.Inventory)}}
}

// ProductLine returns the inventory line stocking the given product, with a
// found flag rather than an error.
func (m *VendingMachine) ProductLine(productID string) (*InventoryLine, bool) {
	for _, line := range m.Inventory {
		if line.ProductID == productID {
			return line, true
		}
	}
	return nil, false
}

// CreateInventoryLine appends a line. It does not de-duplicate: callers
// must first confirm via ProductLine that the product is not stocked yet.
func (m *VendingMachine) CreateInventoryLine(line *InventoryLine) {
	m.Inventory = append(m.Inventory, line)
}

// ResetInventoryItemQty sets the line's available amount outright, with no
// lower bound. Restocking may legitimately zero a line.
func (m *VendingMachine) ResetInventoryItemQty(productID string, qty int) error {
	line, ok := m.ProductLine(productID)
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not stocked in machine %s", productID, m.ID)
	}
	line.AmountAvailable = qty
	return nil
}

// UpdateInventoryItemQty adjusts the available amount by delta. This is the
// restock/administrative path; it does not guard against going negative.
func (m *VendingMachine) UpdateInventoryItemQty(productID string, delta int) error {
	line, ok := m.ProductLine(productID)
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not stocked in machine %s", productID, m.ID)
	}
	line.AmountAvailable += delta
	return nil
}

// UpdateInventoryItemCost sets the line's unit cost.
func (m *VendingMachine) UpdateInventoryItemCost(productID string, cost decimal.Decimal) error {
	line, ok := m.ProductLine(productID)
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not stocked in machine %s", productID, m.ID)
	}
	line.Cost = cost
	return nil
}

// SellItem removes qty units from the product's line. A sale that would
// leave zero or fewer units is rejected and the line is left untouched;
// exhausting stock to exactly zero counts as a failure.
func (m *VendingMachine) SellItem(productID string, qty int) error {
	line, ok := m.ProductLine(productID)
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not stocked in machine %s", productID, m.ID)
	}
	remaining := line.AmountAvailable - qty
	if remaining <= 0 {
		return pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
			"product %s cannot cover sale: available %d, requested %d", productID, line.AmountAvailable, qty).
			WithDetails(map[string]any{
				"product_id": productID,
				"available":  line.AmountAvailable,
				"requested":  qty,
			})
	}
	line.AmountAvailable = remaining
	return nil
}

// InventoryLine stocks one product in one machine. ProductID and SellerID
// are required; both reference other aggregates by identifier only.
type InventoryLine struct {
	Base
	VendingMachineID string
	ProductID        string
	SellerID         string
	AmountAvailable  int
	Cost             decimal.Decimal
}

// NewInventoryLine validates the required cross-references.
func NewInventoryLine(productID, sellerID string, amountAvailable int, cost decimal.Decimal) (*InventoryLine, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id can't be null")
	}
	if sellerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller_id can't be null")
	}
	return &InventoryLine{
		ProductID:       productID,
		SellerID:        sellerID,
		AmountAvailable: amountAvailable,
		Cost:            cost,
	}, nil
}

func (*InventoryLine) EntityKind() string { return KindInventoryLine }

func (*InventoryLine) Children() []Collection { return nil }
