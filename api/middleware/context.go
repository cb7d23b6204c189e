package middleware

import "context"

type contextKey string

const (
	ctxAdminID contextKey = "admin_id"
	ctxRole    contextKey = "admin_role"
)

// AdminIDFromContext returns the authenticated admin id, or "".
func AdminIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the authenticated admin role, or "".
func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithAdmin injects the admin identity into the context. Exposed for tests.
func WithAdmin(ctx context.Context, adminID, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxAdminID, adminID)
	return context.WithValue(ctx, ctxRole, role)
}
