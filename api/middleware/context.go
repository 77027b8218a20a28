package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxMemberID contextKey = "member_id"
	ctxIsMember contextKey = "is_member"
)

// MemberIDFromContext returns the authenticated member id, or uuid.Nil.
func MemberIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxMemberID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// IsMemberFromContext reports whether the token carried an active membership.
func IsMemberFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(ctxIsMember).(bool)
	return v
}

// WithMember seeds the context with the authenticated member identity.
func WithMember(ctx context.Context, memberID uuid.UUID, isMember bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxMemberID, memberID)
	return context.WithValue(ctx, ctxIsMember, isMember)
}
