package middleware

import (
	"context"
	"net/http"
	"strings"

	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
	"talnurt/internal/http/response"
	"talnurt/internal/security"
)

type contextKey string

const (
	ContextActorIDKey contextKey = "actor_id"
	ContextRoleKey    contextKey = "role"
)

type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate establishes the actor context from the bearer token. Every
// workflow endpoint requires it; no actor context means 401 before any
// business logic runs.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		actorID, err := common.ParseUUID(claims.ActorID)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid actor id", err))
			return
		}
		role := actor.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
		ctx := context.WithValue(r.Context(), ContextActorIDKey, actorID)
		ctx = context.WithValue(ctx, ContextRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireRole(roles ...actor.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
		})
	}
}

func ActorIDFromContext(ctx context.Context) (common.UUID, bool) {
	id, ok := ctx.Value(ContextActorIDKey).(common.UUID)
	return id, ok
}

func RoleFromContext(ctx context.Context) (actor.Role, bool) {
	role, ok := ctx.Value(ContextRoleKey).(actor.Role)
	return role, ok
}
