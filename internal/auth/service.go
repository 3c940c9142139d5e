package auth

import (
	"context"
	"strings"
	"time"

	pkgauth "github.com/casalia/realty-backend/pkg/auth"
	"github.com/casalia/realty-backend/pkg/config"
	"github.com/casalia/realty-backend/pkg/db/models"
	"github.com/casalia/realty-backend/pkg/enums"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/logger"
	"github.com/casalia/realty-backend/pkg/security"
	"github.com/google/uuid"
)

// Service authenticates directory members and issues access tokens.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// LoginResult carries the minted token and the identity it represents.
type LoginResult struct {
	Token     string           `json:"token"`
	UserID    uuid.UUID        `json:"user_id"`
	Email     string           `json:"email"`
	FullName  string           `json:"full_name"`
	Roles     []enums.UserRole `json:"roles"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// UserStore is the persistence surface login needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

type service struct {
	users UserStore
	jwt   config.JWTConfig
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires the login flow.
func NewService(users UserStore, jwt config.JWTConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user store required")
	}
	return &service{users: users, jwt: jwt, logg: logg, now: time.Now}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	// One failure path for bad email, bad password, and disabled accounts.
	if user == nil || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.jwt, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles.Roles(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	loginAt := now
	user.LastLoginAt = &loginAt
	if err := s.users.Save(ctx, user); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.last_login.update_failed")
	}

	return &LoginResult{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName(),
		Roles:     user.Roles.Roles(),
		ExpiresAt: now.Add(time.Duration(s.jwt.ExpirationMinutes) * time.Minute),
	}, nil
}
