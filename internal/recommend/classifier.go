package recommend

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyCatalog is returned when training is attempted with no routes.
var ErrEmptyCatalog = errors.New("catalog is empty")

// modelNamespace scopes model version fingerprints.
var modelNamespace = uuid.MustParse("6f1c3a52-8d0e-4b7a-9a35-2c41d5e0b8f7")

// Model maps feature vectors to route IDs.
// Each distinct vector keeps the label of the first route seen with it; later
// routes sharing that vector are shadowed and only reachable through supplementation.
// A Model is immutable once trained.
type Model struct {
	entries   []entry
	index     map[Features]int64
	records   int
	trainedAt time.Time
	version   string
}

type entry struct {
	features Features
	label    int64
}

// Train builds a model from encoded routes in catalog order.
func Train(records []EncodedRoute) (*Model, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	m := &Model{
		index:     make(map[Features]int64, len(records)),
		records:   len(records),
		trainedAt: time.Now().UTC(),
	}

	buf := make([]byte, 0, len(records)*24)
	for _, rec := range records {
		buf = binary.BigEndian.AppendUint64(buf, uint64(rec.RouteID))
		buf = binary.BigEndian.AppendUint64(buf, uint64(rec.Features[0]))
		buf = binary.BigEndian.AppendUint64(buf, uint64(rec.Features[1]))

		if _, seen := m.index[rec.Features]; seen {
			continue
		}
		m.index[rec.Features] = rec.RouteID
		m.entries = append(m.entries, entry{features: rec.Features, label: rec.RouteID})
	}
	m.version = uuid.NewSHA1(modelNamespace, buf).String()

	return m, nil
}

// Predict returns the route ID for a feature vector.
// An exact match wins; otherwise the vector at the smallest Manhattan distance is
// used, ties going to the one seen first during training.
// A Model not built by Train predicts 0, which is never a route ID.
func (m *Model) Predict(f Features) int64 {
	if len(m.entries) == 0 {
		return 0
	}
	if label, ok := m.index[f]; ok {
		return label
	}

	best := m.entries[0]
	bestDist := distance(f, best.features)
	for _, e := range m.entries[1:] {
		if d := distance(f, e.features); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best.label
}

// Size returns the number of routes the model was trained on.
func (m *Model) Size() int { return m.records }

// Labels returns the number of distinct feature vectors the model can predict from.
func (m *Model) Labels() int { return len(m.entries) }

// TrainedAt returns when the model was built.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Version fingerprints the training data. Identical catalogs give identical versions.
func (m *Model) Version() string { return m.version }

func distance(a, b Features) int {
	return abs(a[0]-b[0]) + abs(a[1]-b[1])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
