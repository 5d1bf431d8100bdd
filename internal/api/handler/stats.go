package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/api/models"
	"github.com/cragmatch/cragmatch/internal/api/response"
	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/stats"
)

// StatsHandler serves catalog summaries for charts.
type StatsHandler struct {
	repo          catalog.Repository
	minStyleCount int
	logger        zerolog.Logger
}

// NewStatsHandler creates a new StatsHandler. minStyleCount is the default style bucket threshold.
func NewStatsHandler(repo catalog.Repository, minStyleCount int, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{repo: repo, minStyleCount: minStyleCount, logger: logger}
}

// GetStats handles GET /v1/stats?minStyleCount=.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	minCount := h.minStyleCount
	if raw := r.URL.Query().Get("minStyleCount"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, r, "minStyleCount must be a non-negative integer", []models.FieldError{
				{Field: "minStyleCount", Message: "must be a non-negative integer", Code: "MIN"},
			})
			return
		}
		minCount = n
	}

	routes, err := h.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}

	response.JSON(w, r, http.StatusOK, stats.Summarize(routes, minCount))
}
