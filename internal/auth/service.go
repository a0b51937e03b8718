package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rafaelortiz/vendtrack-backend/internal/domain"
	"github.com/rafaelortiz/vendtrack-backend/internal/users"
	pkgauth "github.com/rafaelortiz/vendtrack-backend/pkg/auth"
	"github.com/rafaelortiz/vendtrack-backend/pkg/config"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
	"github.com/rafaelortiz/vendtrack-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx          txRunner
	users       *users.Repository
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Tx             txRunner
	UserRepo       *users.Repository
	PasswordConfig config.PasswordConfig
	JWTConfig      config.JWTConfig
}

// NewService constructs a sign-up/sign-in service with the provided
// dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		tx:          params.Tx,
		users:       params.UserRepo,
		passwordCfg: params.PasswordConfig,
		jwtCfg:      params.JWTConfig,
	}, nil
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	role := req.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	if role != domain.RoleBuyer && role != domain.RoleSeller {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid role %q", req.Role)
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var stored *domain.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.users.WithTx(tx)

		if _, exists, err := repo.FindByName(ctx, name); err != nil {
			return err
		} else if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "name already registered")
		}

		user := &domain.User{Name: name}
		user.AddRole(role)

		created, err := repo.Insert(ctx, user)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "name already registered")
			}
			return err
		}
		if err := repo.SetPasswordHash(ctx, created.ID, passwordHash); err != nil {
			return err
		}
		stored = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.respond(stored)
}

func (s *service) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	hash, found, err := s.users.PasswordHashByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found || hash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(req.Password, hash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, found, err := s.users.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.respond(user)
}

func (s *service) respond(user *domain.User) (*AuthResponse, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:  user.ID,
		Roles:   roles,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &AuthResponse{
		AccessToken: token,
		User: &UserSummary{
			ID:      user.ID,
			Name:    user.Name,
			Deposit: user.Deposit.String(),
			Roles:   roles,
			IsAdmin: user.IsAdmin,
		},
	}, nil
}
