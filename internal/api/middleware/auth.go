package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cragmatch/cragmatch/internal/api/models"
	"github.com/cragmatch/cragmatch/internal/auth"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

type subjectKey struct{}

// AdminAuth requires a valid admin bearer token.
func AdminAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeAuthProblem(w, r, models.NewUnauthorized(GetRequestID(r.Context()), "missing or malformed bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				traceID := GetRequestID(r.Context())
				switch {
				case errors.Is(err, auth.ErrNoSigningKey):
					writeAuthProblem(w, r, models.NewServiceUnavailable(traceID, "admin API is not configured"))
				case errors.Is(err, auth.ErrForbidden):
					writeAuthProblem(w, r, models.NewForbidden(traceID, "token lacks the admin role"))
				case errors.Is(err, auth.ErrTokenExpired):
					writeAuthProblem(w, r, models.NewUnauthorized(traceID, "token has expired"))
				default:
					writeAuthProblem(w, r, models.NewUnauthorized(traceID, "invalid token"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// writeAuthProblem lives here because the response package imports middleware.
func writeAuthProblem(w http.ResponseWriter, r *http.Request, p *models.Problem) {
	if p.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="cragmatch-admin"`)
	}
	p.WithInstance(r.URL.Path).Write(w)
}

// GetSubject returns the authenticated token subject, or "".
func GetSubject(ctx context.Context) string {
	if sub, ok := ctx.Value(subjectKey{}).(string); ok {
		return sub
	}
	return ""
}
