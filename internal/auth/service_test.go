package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	pkgauth "github.com/casalia/realty-backend/pkg/auth"
	"github.com/casalia/realty-backend/pkg/config"
	"github.com/casalia/realty-backend/pkg/db/models"
	dbtypes "github.com/casalia/realty-backend/pkg/db/types"
	"github.com/casalia/realty-backend/pkg/enums"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/security"
	"github.com/google/uuid"
)

type stubUserStore struct {
	users map[string]*models.User
	saved *models.User
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.users[strings.ToLower(email)]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, nil
}

func (s *stubUserStore) Save(ctx context.Context, user *models.User) error {
	s.saved = user
	return nil
}

func testJWT() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-with-enough-entropy",
		Issuer:            "casalia",
		ExpirationMinutes: 30,
	}
}

func seedLoginUser(t *testing.T, password string) (*stubUserStore, *models.User) {
	t.Helper()

	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        "alex@casalia.test",
		Phone:        "+15551230000",
		PasswordHash: hash,
		FirstName:    "Alex",
		LastName:     "Agent",
		Roles:        dbtypes.RoleArray{enums.UserRoleAdmin},
		IsActive:     true,
	}
	return &stubUserStore{users: map[string]*models.User{user.Email: user}}, user
}

func TestLoginIssuesParsableToken(t *testing.T) {
	store, user := seedLoginUser(t, "correct horse battery")
	svc, err := NewService(store, testJWT(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Login(context.Background(), " ALEX@casalia.test ", "correct horse battery")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.UserID != user.ID || result.FullName != "Alex Agent" {
		t.Fatalf("unexpected identity: %+v", result)
	}

	claims, err := pkgauth.ParseAccessToken(testJWT(), result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token subject mismatch")
	}
	if !claims.HasRole(enums.UserRoleAdmin) {
		t.Fatalf("token lost the roles")
	}
	if result.ExpiresAt.Before(time.Now()) {
		t.Fatalf("token already expired")
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	store, _ := seedLoginUser(t, "correct horse battery")
	svc, err := NewService(store, testJWT(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Login(context.Background(), "alex@casalia.test", "correct horse battery"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if store.saved == nil || store.saved.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	store, user := seedLoginUser(t, "correct horse battery")
	svc, err := NewService(store, testJWT(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	// Wrong password.
	_, err = svc.Login(ctx, user.Email, "wrong password")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("wrong password: expected UNAUTHORIZED, got %v", err)
	}

	// Unknown email.
	_, err = svc.Login(ctx, "nobody@casalia.test", "correct horse battery")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unknown email: expected UNAUTHORIZED, got %v", err)
	}

	// Deactivated account.
	user.IsActive = false
	store.users[user.Email] = user
	_, err = svc.Login(ctx, user.Email, "correct horse battery")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("inactive account: expected UNAUTHORIZED, got %v", err)
	}
}

func TestLoginRequiresEmailAndPassword(t *testing.T) {
	store, _ := seedLoginUser(t, "correct horse battery")
	svc, err := NewService(store, testJWT(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), "", "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}
