package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"rdhub/pkg/requestcontext"
)

// AdminClaims represents the claims we expect from the token validator.
type AdminClaims struct {
	Subject string
	Role    string
}

// TokenValidator defines the interface for validating admin tokens.
type TokenValidator interface {
	Validate(tokenString string) (*AdminClaims, error)
}

// RequireAdmin guards administrative endpoints. It validates the bearer token
// and requires the admin role before handing the subject down through the
// request context.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}
			if claims.Role != "admin" {
				logger.WarnContext(ctx, "forbidden access - missing admin role",
					"subject", claims.Subject,
					"request_id", requestID,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"forbidden","error_description":"Admin role required"}`))
				return
			}

			ctx = requestcontext.WithSubject(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
