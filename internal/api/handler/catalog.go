package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/api/models"
	"github.com/cragmatch/cragmatch/internal/api/response"
	"github.com/cragmatch/cragmatch/internal/catalog"
)

// CatalogHandler serves the route catalog and its enumerations.
type CatalogHandler struct {
	repo   catalog.Repository
	logger zerolog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(repo catalog.Repository, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{repo: repo, logger: logger}
}

// ListRoutes handles GET /v1/routes.
func (h *CatalogHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, r, h.logger, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.RouteList{
		Items: toRoutes(routes),
		Total: len(routes),
	})
}

// GetEnums handles GET /v1/metadata/enums.
func (h *CatalogHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		Difficulties: make([]string, 0, len(catalog.Difficulties)),
		Styles:       make([]string, 0, len(catalog.Styles)),
	}
	for _, d := range catalog.Difficulties {
		enums.Difficulties = append(enums.Difficulties, d.String())
	}
	for _, s := range catalog.Styles {
		enums.Styles = append(enums.Styles, s.String())
	}
	response.JSON(w, r, http.StatusOK, enums)
}

func toRoutes(routes []catalog.Route) []models.Route {
	out := make([]models.Route, 0, len(routes))
	for _, rt := range routes {
		out = append(out, models.Route{
			ID:         rt.ID,
			Name:       rt.Name,
			Difficulty: rt.Difficulty.String(),
			Style:      rt.Style.String(),
		})
	}
	return out
}
