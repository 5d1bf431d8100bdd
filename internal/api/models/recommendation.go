package models

// RecommendationRequest is the body of POST /v1/recommendations.
type RecommendationRequest struct {
	SkillLevel     string `json:"skillLevel" validate:"required"`
	PreferredStyle string `json:"preferredStyle" validate:"required"`
	Count          *int   `json:"count,omitempty" validate:"omitempty,min=1,max=50"`
}

// RecommendationResponse is one recommendation set.
type RecommendationResponse struct {
	Items            []Route  `json:"items"`
	PredictedRouteID int64    `json:"predictedRouteId"`
	Matched          int      `json:"matched"`
	Supplemented     int      `json:"supplemented"`
	Warnings         []string `json:"warnings,omitempty"`
}
