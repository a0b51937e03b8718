package auth

// SignUpRequest captures the payload for creating an account.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=Buyer Seller"`
}

// SignInRequest captures the credentials sent to the sign-in endpoint.
type SignInRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserSummary describes the account returned after sign-up or sign-in.
type UserSummary struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Deposit string   `json:"deposit"`
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"is_admin,omitempty"`
}

// AuthResponse contains the token and user produced by a successful
// sign-up or sign-in.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        *UserSummary `json:"user"`
}
