package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/api/middleware"
	"github.com/cragmatch/cragmatch/internal/api/response"
	"github.com/cragmatch/cragmatch/internal/catalog"
)

// writeStoreError maps catalog store failures onto Problem responses.
func writeStoreError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	logger.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Msg("catalog store error")

	switch {
	case errors.Is(err, catalog.ErrStoreUnavailable):
		response.ServiceUnavailable(w, r, "catalog store is temporarily unavailable")
	case errors.Is(err, catalog.ErrUnknownCategory):
		response.InternalError(w, r, "catalog contains a route with an unrecognized difficulty or style")
	default:
		response.InternalError(w, r, "failed to read catalog")
	}
}
