// Package auditcontext carries request-scoped audit metadata.
package auditcontext

import "context"

type contextKey string

const (
	actorUserIDKey contextKey = "audit.actor_user_id"
	actorRoleKey   contextKey = "audit.actor_role"
	ipAddressKey   contextKey = "audit.ip_address"
	requestIDKey   contextKey = "audit.request_id"
)

func WithActor(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, actorUserIDKey, userID)
	return context.WithValue(ctx, actorRoleKey, role)
}

func ActorFromContext(ctx context.Context) (userID, role string) {
	userID, _ = ctx.Value(actorUserIDKey).(string)
	role, _ = ctx.Value(actorRoleKey).(string)
	return userID, role
}

func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipAddressKey, ip)
}

func IPAddressFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ipAddressKey).(string)
	return ip
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
