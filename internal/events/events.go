// Package events announces catalog changes over Cloud Pub/Sub so every API
// instance can retrain after an import.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/cragmatch/cragmatch/internal/importer"
)

// TypeCatalogChanged is the event type published after a successful import.
const TypeCatalogChanged = "catalog.changed"

// Message attributes.
const (
	AttrType   = "type"
	AttrOrigin = "origin"
)

// ErrMalformedEvent is returned for payloads that cannot be decoded.
var ErrMalformedEvent = errors.New("malformed event")

// CatalogChanged is the payload of a catalog.changed event.
type CatalogChanged struct {
	Type       string    `json:"type"`
	BatchID    string    `json:"batch_id"`
	Imported   int       `json:"imported"`
	Rejected   int       `json:"rejected"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewCatalogChanged builds the event for an import report.
func NewCatalogChanged(report *importer.Report, now time.Time) CatalogChanged {
	return CatalogChanged{
		Type:       TypeCatalogChanged,
		BatchID:    report.BatchID,
		Imported:   report.Imported,
		Rejected:   len(report.Rejected),
		OccurredAt: now.UTC(),
	}
}

// Encode serializes an event.
func Encode(ev CatalogChanged) ([]byte, error) {
	return json.Marshal(ev)
}

// Decode parses an event payload.
func Decode(data []byte) (CatalogChanged, error) {
	var ev CatalogChanged
	if err := json.Unmarshal(data, &ev); err != nil {
		return CatalogChanged{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if ev.Type == "" {
		return CatalogChanged{}, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}
	return ev, nil
}
