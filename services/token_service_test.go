package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akinalp/relay/models"
	"github.com/akinalp/relay/pkg"
	"github.com/akinalp/relay/services"
)

func TestTokenService_RoundTrip(t *testing.T) {
	clock := newTestClock()
	svc := services.NewTokenService("s3cret", clock.Now)

	tok, err := svc.Issue("root", models.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "root" || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}

	clock.Advance(time.Hour + time.Second)
	if _, err := svc.ValidateToken(tok); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("expired token err = %v, want ErrUnauthorized", err)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	clock := newTestClock()
	svc := services.NewTokenService("s3cret", clock.Now)

	sign := func(secret string, method jwt.SigningMethod, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	exp := jwt.NewNumericDate(t0.Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign("other", jwt.SigningMethodHS256, models.TokenClaims{
			Username: "bob", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		})},
		{"no expiry", sign("s3cret", jwt.SigningMethodHS256, models.TokenClaims{Username: "bob"})},
		{"no username", sign("s3cret", jwt.SigningMethodHS256, models.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		})},
		{"unknown role", sign("s3cret", jwt.SigningMethodHS256, models.TokenClaims{
			Username: "bob", Role: "owner", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		})},
		{"reserved handle", sign("s3cret", jwt.SigningMethodHS256, models.TokenClaims{
			Username: models.AdminHandle, Role: models.RoleUser, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(tt.token); !errors.Is(err, pkg.ErrUnauthorized) {
				t.Errorf("err = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestTokenService_DefaultsRole(t *testing.T) {
	clock := newTestClock()
	svc := services.NewTokenService("s3cret", clock.Now)

	tok, err := svc.Issue("bob", "", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("role = %q, want user", claims.Role)
	}
}
