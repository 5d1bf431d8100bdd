package handler_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cragmatch/cragmatch/internal/api/handler"
	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/importer"
	"github.com/cragmatch/cragmatch/internal/recommend"
)

type stubImporter struct {
	report *importer.Report
	err    error
}

func (s stubImporter) Import(_ context.Context, r io.Reader) (*importer.Report, error) {
	_, _ = io.Copy(io.Discard, r)
	return s.report, s.err
}

type stubTrainer struct {
	err  error
	info *recommend.ModelInfo
}

func (s stubTrainer) Retrain(context.Context) error { return s.err }

func (s stubTrainer) ModelInfo() (recommend.ModelInfo, bool) {
	if s.info == nil {
		return recommend.ModelInfo{}, false
	}
	return *s.info, true
}

func TestAdminHandler_ImportErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"store unavailable", fmt.Errorf("replace catalog: %w", catalog.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"store failure", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewAdminHandler(stubImporter{err: tt.err}, stubTrainer{}, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/v1/admin/catalog:import", strings.NewReader("name,difficulty,style\n"))
			rec := httptest.NewRecorder()
			h.ImportCatalog(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestAdminHandler_ImportRetrainFailureStillReports(t *testing.T) {
	report := &importer.Report{BatchID: "b1", Imported: 2, Duration: 3 * time.Millisecond}
	h := handler.NewAdminHandler(stubImporter{report: report}, stubTrainer{err: errors.New("boom")}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/catalog:import", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.ImportCatalog(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"retrained":false`)
	assert.Contains(t, rec.Body.String(), `"batchId":"b1"`)
	assert.NotContains(t, rec.Body.String(), `"model"`)
}

func TestAdminHandler_RetrainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty catalog", recommend.ErrEmptyCatalog, http.StatusServiceUnavailable},
		{"store unavailable", fmt.Errorf("list catalog: %w", catalog.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"bad catalog", &catalog.CategoryError{Field: "style", Value: "Aid"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewAdminHandler(stubImporter{}, stubTrainer{err: tt.err}, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/v1/admin/model:retrain", nil)
			rec := httptest.NewRecorder()
			h.RetrainModel(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
