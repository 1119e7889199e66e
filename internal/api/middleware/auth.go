package middleware

import (
	"context"
	"net/http"

	"lenspost/internal/app/authz"
	"lenspost/internal/common"
	"lenspost/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const actorCtxKey contextKey = "actor"

// Authenticator rejects requests without a verifiable token and puts
// the resolved actor in the request context. Permission decisions stay
// with the authorization engine; this only establishes identity.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "authorization token required")
			return
		}

		ident, err := security.IdentityFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid token claims: "+err.Error())
			return
		}

		actor := authz.Actor{ID: ident.ID, Role: ident.Role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorCtxKey, actor)))
	})
}

// ActorFromContext returns the authenticated actor, or the zero
// (anonymous) actor on public routes.
func ActorFromContext(ctx context.Context) authz.Actor {
	actor, _ := ctx.Value(actorCtxKey).(authz.Actor)
	return actor
}
