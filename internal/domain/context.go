package domain

import "context"

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const (
	userIDKey contextKey = "user_id"
	adminKey  contextKey = "is_admin"
)

// WithUserID returns a context carrying the current user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext extracts the current user id, or "" if unset.
func GetUserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// WithAdmin marks the context as belonging to an admin session.
func WithAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

// IsAdminFromContext reports whether the current session is an admin one.
func IsAdminFromContext(ctx context.Context) bool {
	if v, ok := ctx.Value(adminKey).(bool); ok {
		return v
	}
	return false
}
