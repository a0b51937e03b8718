package domain

import "github.com/shopspring/decimal"

const (
	KindUser = "user"
	KindRole = "role"

	RoleBuyer  = "Buyer"
	RoleSeller = "Seller"
)

// User accumulates a deposit balance and holds a set of named roles.
type User struct {
	Base
	Name    string
	Deposit decimal.Decimal
	IsAdmin bool
	Roles   []*Role
}

func (*User) EntityKind() string { return KindUser }

func (u *User) Children() []Collection {
	return []Collection{{Name: "roles", Kind: KindRole, Items: collect(u.Roles)}}
}

// HasRole reports whether the user carries a role with the given name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// AddRole grants the named role. Role membership is a set by name: adding a
// role the user already holds is a no-op.
func (u *User) AddRole(name string) {
	if u.HasRole(name) {
		return
	}
	u.Roles = append(u.Roles, &Role{Name: name, UserID: u.ID})
}

// Role names a capability granted to its owning user.
type Role struct {
	Base
	Name   string
	UserID string
}

func (*Role) EntityKind() string { return KindRole }

func (*Role) Children() []Collection { return nil }
