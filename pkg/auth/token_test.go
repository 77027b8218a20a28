package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "vitalfit-auth"}
}

func signToken(t *testing.T, cfg config.JWTConfig, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return raw
}

func TestParseAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	memberID := uuid.New()
	raw := signToken(t, cfg, &Claims{
		MemberID: memberID,
		Email:    "member@example.com",
		IsMember: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ParseAccessToken(cfg, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.MemberID != memberID {
		t.Fatalf("unexpected member id %s", claims.MemberID)
	}
	if !claims.IsMember {
		t.Fatal("expected member flag to survive")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	raw := signToken(t, cfg, &Claims{
		MemberID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	if _, err := ParseAccessToken(cfg, raw); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	raw := signToken(t, cfg, &Claims{
		MemberID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := ParseAccessToken(cfg, raw); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestParseAccessTokenRequiresMemberID(t *testing.T) {
	cfg := testJWTConfig()
	raw := signToken(t, cfg, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	if _, err := ParseAccessToken(cfg, raw); err == nil {
		t.Fatal("expected missing member id to fail")
	}
}
