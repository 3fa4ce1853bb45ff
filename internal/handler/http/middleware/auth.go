package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/salary-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type userIDKey struct{}

// AuthRequired rejects requests without a verified access token and stores
// the caller's user_id in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := jwt.UserID(claims)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// UserIDFromContext returns the authenticated caller set by AuthRequired.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}
