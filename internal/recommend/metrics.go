package recommend

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/cragmatch/cragmatch/internal/recommend"

// Metrics holds the recommender's OpenTelemetry instruments.
type Metrics struct {
	requests            metric.Int64Counter
	supplemented        metric.Int64Counter
	insufficientCatalog metric.Int64Counter
	retrainDuration     metric.Float64Histogram
}

// NewMetrics creates the recommender instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsFromMeter(otel.Meter(meterName))
}

// NewMetricsFromMeter creates the recommender instruments on meter.
func NewMetricsFromMeter(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter(
		"recommend.requests",
		metric.WithDescription("Total number of recommendation requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	supplemented, err := meter.Int64Counter(
		"recommend.supplemented",
		metric.WithDescription("Routes added by random supplementation"),
		metric.WithUnit("{route}"),
	)
	if err != nil {
		return nil, err
	}

	insufficient, err := meter.Int64Counter(
		"recommend.insufficient_catalog",
		metric.WithDescription("Requests answered with fewer routes than asked for"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	retrain, err := meter.Float64Histogram(
		"recommend.retrain.duration",
		metric.WithDescription("Duration of model retraining in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests:            requests,
		supplemented:        supplemented,
		insufficientCatalog: insufficient,
		retrainDuration:     retrain,
	}, nil
}

func (m *Metrics) recordRequest(ctx context.Context, outcome string, supplemented int, insufficient bool) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if supplemented > 0 {
		m.supplemented.Add(ctx, int64(supplemented))
	}
	if insufficient {
		m.insufficientCatalog.Add(ctx, 1)
	}
}

func (m *Metrics) recordRetrain(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.retrainDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.Bool("error", err != nil)))
}
