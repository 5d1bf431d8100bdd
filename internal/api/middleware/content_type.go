package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/cragmatch/cragmatch/internal/api/models"
)

// RequireContentType rejects requests carrying a body whose media type is not one of types.
// Requests without a Content-Type header are let through.
func RequireContentType(types ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[strings.ToLower(t)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Content-Type")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(header)
			if _, ok := allowed[strings.ToLower(mediaType)]; err != nil || !ok {
				models.NewUnsupportedMediaType(GetRequestID(r.Context()), "Content-Type must be one of: "+strings.Join(types, ", ")).
					WithInstance(r.URL.Path).
					Write(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
