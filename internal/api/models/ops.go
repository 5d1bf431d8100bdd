package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Readiness reports whether the recommender can serve and which model it uses.
type Readiness struct {
	Status  HealthStatus `json:"status"`
	Time    Timestamp    `json:"time"`
	Model   *ModelInfo   `json:"model,omitempty"`
	Breaker string       `json:"breaker,omitempty"`
}

// ModelInfo describes the serving recommendation model.
type ModelInfo struct {
	Version   string    `json:"version"`
	Routes    int       `json:"routes"`
	Labels    int       `json:"labels"`
	TrainedAt Timestamp `json:"trainedAt"`
}
