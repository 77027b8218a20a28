package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the access-token payload issued by the external auth provider.
// IsMember reflects an active membership at issue time and drives member
// pricing in the checkout flow.
type Claims struct {
	MemberID uuid.UUID `json:"member_id"`
	Email    string    `json:"email"`
	IsMember bool      `json:"is_member"`
	jwt.RegisteredClaims
}
