package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/casalia/realty-backend/pkg/config"
	"github.com/casalia/realty-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "casalia",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID: userID,
		Email:  "agent@casalia.test",
		Roles:  []enums.UserRole{enums.UserRoleAdmin},
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != payload.Email {
		t.Fatalf("email not preserved: %q", claims.Email)
	}
	if !claims.HasRole(enums.UserRoleAdmin) {
		t.Fatalf("role not preserved: %v", claims.Roles)
	}
	if claims.HasRole(enums.UserRoleSuperAdmin) {
		t.Fatalf("unexpected role present")
	}

	// RegisteredClaims is embedded, so access fields directly.
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "casalia",
		ExpirationMinutes: 10,
	}
	now := time.Now()
	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Roles:  []enums.UserRole{enums.UserRoleUser},
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token+"x")
	if err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "casalia",
		ExpirationMinutes: 15,
	}
	now := time.Now().Add(-time.Hour)
	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Roles:  []enums.UserRole{enums.UserRoleSuperAdmin},
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintAccessTokenInvalidRoles(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "casalia",
		ExpirationMinutes: 5,
	}
	now := time.Now()

	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected missing roles error")
	}

	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Roles:  []enums.UserRole{"OWNER"},
	}
	if _, err := MintAccessToken(cfg, now, payload); err == nil {
		t.Fatal("expected invalid role error")
	}
}

func TestHasAnyRole(t *testing.T) {
	claims := &AccessTokenClaims{Roles: []enums.UserRole{enums.UserRoleUser, enums.UserRoleAdmin}}
	if !claims.HasAnyRole(enums.UserRoleAdmin, enums.UserRoleSuperAdmin) {
		t.Fatalf("expected ADMIN to satisfy role set")
	}
	if (&AccessTokenClaims{Roles: []enums.UserRole{enums.UserRoleUser}}).HasAnyRole(enums.UserRoleAdmin) {
		t.Fatalf("USER should not satisfy admin set")
	}
}
