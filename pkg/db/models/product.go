package models

import "time"

// Product is the catalog entry referenced by inventory lines.
type Product struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:text;not null"`
	CountryOfOrigin string    `gorm:"column:country_of_origin;type:text;not null"`
	Calories        float64   `gorm:"not null;default:0"`
	Flavor          string    `gorm:"type:text;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (*Product) RecordKind() string { return "products" }

func (p *Product) GetID() string { return p.ID }
