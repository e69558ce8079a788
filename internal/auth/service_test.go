package auth

import (
	"context"
	"testing"
	"time"

	pkgauth "github.com/amara-naturals/storefront-backend/pkg/auth"
	"github.com/amara-naturals/storefront-backend/pkg/config"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
	"github.com/amara-naturals/storefront-backend/pkg/security"
)

func newAuthService(t *testing.T, password string) Service {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Admin: config.AdminConfig{
			Email:        "owner@amaranaturals.in",
			PasswordHash: hash,
		},
		JWTConfig: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Owner@AmaraNaturals.in ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Fatal("expected future expiry")
	}

	claims, err := pkgauth.ParseAccessToken(config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Email != "owner@amaranaturals.in" {
		t.Fatalf("unexpected claim email %q", claims.Email)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	cases := []LoginRequest{
		{Email: "owner@amaranaturals.in", Password: "wrong"},
		{Email: "intruder@example.com", Password: "correct horse"},
		{Email: "", Password: "correct horse"},
		{Email: "owner@amaranaturals.in", Password: ""},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Errorf("request %+v: expected unauthorized, got %v", req, err)
		}
	}
}

func TestNewServiceValidatesConfig(t *testing.T) {
	_, err := NewService(ServiceParams{
		JWTConfig: config.JWTConfig{Secret: "secret"},
	})
	if err == nil {
		t.Fatal("expected error for missing admin config")
	}
}
