package handler

import (
	"net/http"
	"time"

	"github.com/cragmatch/cragmatch/internal/api/models"
	"github.com/cragmatch/cragmatch/internal/api/response"
	"github.com/cragmatch/cragmatch/internal/recommend"
)

// ModelReporter exposes the serving model.
type ModelReporter interface {
	ModelInfo() (recommend.ModelInfo, bool)
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	model     ModelReporter
	breaker   func() string
}

// NewOpsHandler creates a new OpsHandler. breaker may be nil.
func NewOpsHandler(version, buildTime string, model ModelReporter, breaker func() string) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		model:     model,
		breaker:   breaker,
	}
}

// HealthCheck handles GET /v1/ops/health.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. It is 503 until a model has been trained.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ready := models.Readiness{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	if h.breaker != nil {
		ready.Breaker = h.breaker()
	}

	info, ok := h.model.ModelInfo()
	if !ok {
		ready.Status = models.HealthStatusFail
		response.JSON(w, r, http.StatusServiceUnavailable, ready)
		return
	}

	ready.Model = toModelInfo(info)
	if ready.Breaker == "open" {
		ready.Status = models.HealthStatusDegraded
	}
	response.JSON(w, r, http.StatusOK, ready)
}

func toModelInfo(info recommend.ModelInfo) *models.ModelInfo {
	return &models.ModelInfo{
		Version:   info.Version,
		Routes:    info.Routes,
		Labels:    info.Labels,
		TrainedAt: models.Timestamp(info.TrainedAt),
	}
}
