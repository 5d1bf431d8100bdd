package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/api/middleware"
	"github.com/cragmatch/cragmatch/internal/api/models"
	"github.com/cragmatch/cragmatch/internal/api/response"
	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/importer"
	"github.com/cragmatch/cragmatch/internal/recommend"
)

// MaxImportBytes bounds an uploaded catalog.
const MaxImportBytes = 10 << 20

// CatalogImporter replaces the catalog from CSV.
type CatalogImporter interface {
	Import(ctx context.Context, r io.Reader) (*importer.Report, error)
}

// Trainer rebuilds and describes the serving model.
type Trainer interface {
	Retrain(ctx context.Context) error
	ModelInfo() (recommend.ModelInfo, bool)
}

// AdminHandler handles catalog administration.
type AdminHandler struct {
	importer CatalogImporter
	trainer  Trainer
	logger   zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(imp CatalogImporter, trainer Trainer, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		importer: imp,
		trainer:  trainer,
		logger:   logger.With().Str("component", "admin").Logger(),
	}
}

// ImportCatalog handles POST /v1/admin/catalog:import with a text/csv body.
// The catalog is replaced, then the model is retrained.
func (h *AdminHandler) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("subject", middleware.GetSubject(r.Context())).
		Logger()

	report, err := h.importer.Import(r.Context(), http.MaxBytesReader(w, r.Body, MaxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			response.BadRequest(w, r, "catalog upload exceeds 10 MiB", nil)
		case errors.Is(err, importer.ErrMalformedHeader):
			response.BadRequest(w, r, "catalog upload has a malformed CSV header", nil)
		case errors.Is(err, catalog.ErrStoreUnavailable):
			response.ServiceUnavailable(w, r, "catalog store is temporarily unavailable")
		default:
			logger.Error().Err(err).Msg("catalog import failed")
			response.InternalError(w, r, "catalog import failed")
		}
		return
	}

	out := models.ImportReport{
		BatchID:    report.BatchID,
		Imported:   report.Imported,
		Rejected:   make([]models.RejectedRow, 0, len(report.Rejected)),
		DurationMS: report.Duration.Milliseconds(),
	}
	for _, rej := range report.Rejected {
		out.Rejected = append(out.Rejected, models.RejectedRow{
			Line:   rej.Line,
			Record: rej.Record,
			Reason: rej.Err.Error(),
		})
	}

	if err := h.trainer.Retrain(r.Context()); err != nil {
		logger.Warn().Err(err).Str("batch_id", report.BatchID).Msg("retrain after import failed")
	} else {
		out.Retrained = true
	}
	if info, ok := h.trainer.ModelInfo(); ok {
		out.Model = toModelInfo(info)
	}

	response.JSON(w, r, http.StatusOK, out)
}

// RetrainModel handles POST /v1/admin/model:retrain.
func (h *AdminHandler) RetrainModel(w http.ResponseWriter, r *http.Request) {
	if err := h.trainer.Retrain(r.Context()); err != nil {
		switch {
		case errors.Is(err, recommend.ErrEmptyCatalog):
			response.ServiceUnavailable(w, r, "catalog is empty; import routes before training")
		case errors.Is(err, catalog.ErrStoreUnavailable):
			response.ServiceUnavailable(w, r, "catalog store is temporarily unavailable")
		default:
			h.logger.Error().Err(err).Msg("retrain failed")
			response.InternalError(w, r, "retrain failed")
		}
		return
	}

	info, _ := h.trainer.ModelInfo()
	response.JSON(w, r, http.StatusOK, toModelInfo(info))
}
