package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  string
	Roles   []string
	IsAdmin bool
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID  string   `json:"user_id"`
	Roles   []string `json:"roles,omitempty"`
	IsAdmin bool     `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries the named role.
func (c *AccessTokenClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
