package models

// RejectedRow is an import row that was skipped.
type RejectedRow struct {
	Line   int      `json:"line"`
	Record []string `json:"record,omitempty"`
	Reason string   `json:"reason"`
}

// ImportReport is returned by POST /v1/admin/catalog:import.
type ImportReport struct {
	BatchID    string        `json:"batchId"`
	Imported   int           `json:"imported"`
	Rejected   []RejectedRow `json:"rejected"`
	DurationMS int64         `json:"durationMs"`
	Retrained  bool          `json:"retrained"`
	Model      *ModelInfo    `json:"model,omitempty"`
}
