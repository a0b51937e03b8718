package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendingMachine owns its inventory lines; deleting a machine cascades to
// the lines.
type VendingMachine struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:text;not null"`
	ModelNumber string          `gorm:"column:model_number;type:text;not null"`
	Location    string          `gorm:"type:text;not null"`
	Inventory   []InventoryLine `gorm:"foreignKey:VendingMachineID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (*VendingMachine) RecordKind() string { return "vending_machines" }

func (m *VendingMachine) GetID() string { return m.ID }

// InventoryLine stocks one product inside one machine. ProductID and
// SellerID are plain cross-aggregate references, not associations.
type InventoryLine struct {
	ID               string          `gorm:"type:uuid;primaryKey"`
	VendingMachineID string          `gorm:"column:vending_machine_id;type:uuid;not null;index"`
	ProductID        string          `gorm:"column:product_id;type:uuid;not null"`
	SellerID         string          `gorm:"column:seller_id;type:uuid;not null"`
	AmountAvailable  int             `gorm:"column:amount_available;not null;default:0"`
	Cost             decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (*InventoryLine) RecordKind() string { return "inventory_lines" }

func (l *InventoryLine) GetID() string { return l.ID }
