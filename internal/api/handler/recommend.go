package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/api/models"
	"github.com/cragmatch/cragmatch/internal/api/response"
	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/recommend"
)

// maxRecommendBody bounds the JSON request body.
const maxRecommendBody = 4 << 10

// Recommender answers recommendation queries.
type Recommender interface {
	Recommend(ctx context.Context, q recommend.Query, n int) (*recommend.Result, error)
}

// RecommendHandler handles recommendation endpoints.
type RecommendHandler struct {
	recommender Recommender
	logger      zerolog.Logger
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(recommender Recommender, logger zerolog.Logger) *RecommendHandler {
	return &RecommendHandler{recommender: recommender, logger: logger}
}

// Recommend handles POST /v1/recommendations.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var input models.RecommendationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecommendBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	h.serve(w, r, input)
}

// RecommendQuery handles GET /v1/recommendations?skillLevel=&preferredStyle=&count=.
func (h *RecommendHandler) RecommendQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := models.RecommendationRequest{
		SkillLevel:     q.Get("skillLevel"),
		PreferredStyle: q.Get("preferredStyle"),
	}

	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, r, "count must be an integer", []models.FieldError{
				{Field: "count", Message: "must be an integer", Code: "TYPE"},
			})
			return
		}
		input.Count = &n
	}

	h.serve(w, r, input)
}

func (h *RecommendHandler) serve(w http.ResponseWriter, r *http.Request, input models.RecommendationRequest) {
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, r, "request validation failed", fieldErrors(err))
		return
	}

	count := 0
	if input.Count != nil {
		count = *input.Count
	}

	result, err := h.recommender.Recommend(r.Context(), recommend.Query{
		SkillLevel:     input.SkillLevel,
		PreferredStyle: input.PreferredStyle,
	}, count)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := models.RecommendationResponse{
		Items:            toRoutes(result.Routes),
		PredictedRouteID: result.PredictedID,
		Matched:          result.Matched,
		Supplemented:     result.Supplemented,
	}
	for _, warning := range result.Warnings {
		resp.Warnings = append(resp.Warnings, warning.Error())
	}
	response.JSON(w, r, http.StatusOK, resp)
}

func (h *RecommendHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var catErr *catalog.CategoryError
	switch {
	case errors.As(err, &catErr):
		response.UnknownCategory(w, r, queryField(catErr.Field), catErr.Value)
	case errors.Is(err, recommend.ErrModelNotReady):
		response.ServiceUnavailable(w, r, "recommendation model is not trained yet")
	default:
		h.logger.Error().Err(err).Msg("recommendation failed")
		response.InternalError(w, r, "failed to compute recommendations")
	}
}

// queryField maps a catalog field to its request field name.
func queryField(field string) string {
	switch field {
	case "difficulty":
		return "skillLevel"
	case "style":
		return "preferredStyle"
	default:
		return field
	}
}
