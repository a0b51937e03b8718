package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the store-shaped projection of a user. PasswordHash is owned by
// the auth layer and is never mapped onto the domain entity.
type User struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash *string         `gorm:"column:password_hash"`
	Deposit      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	IsAdmin      bool            `gorm:"column:is_admin;not null;default:false"`
	Roles        []Role          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (*User) RecordKind() string { return "users" }

func (u *User) GetID() string { return u.ID }

// Role grants a named capability to a user.
type Role struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (*Role) RecordKind() string { return "roles" }

func (r *Role) GetID() string { return r.ID }
