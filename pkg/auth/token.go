package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/pkg/config"
)

var errUnexpectedSigningMethod = errors.New("unexpected token signing method")

// ParseAccessToken validates the bearer token signature, issuer, and expiry,
// returning the embedded claims.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*Claims, error) {
	if raw == "" {
		return nil, errors.New("token is required")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return []byte(cfg.Secret), nil
	},
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing access token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}
	if claims.MemberID == uuid.Nil {
		return nil, errors.New("token missing member id")
	}
	return claims, nil
}
