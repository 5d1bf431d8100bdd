package events

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/importer"
)

// Publisher publishes catalog.changed events. It implements importer.Notifier.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topic     string
	origin    string
	logger    zerolog.Logger
}

// PublisherConfig holds configuration for the Publisher.
type PublisherConfig struct {
	ProjectID string
	Topic     string

	// Origin tags published messages so the sender's own subscriber can skip them.
	Origin string

	Logger zerolog.Logger
}

// NewPublisher creates a Pub/Sub client and publisher for cfg.Topic.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.Topic),
		topic:     cfg.Topic,
		origin:    cfg.Origin,
		logger:    cfg.Logger.With().Str("component", "events").Logger(),
	}, nil
}

// CatalogChanged publishes the event for report and waits for the server ack.
func (p *Publisher) CatalogChanged(ctx context.Context, report *importer.Report) error {
	data, err := Encode(NewCatalogChanged(report, time.Now()))
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	attrs := map[string]string{AttrType: TypeCatalogChanged}
	if p.origin != "" {
		attrs[AttrOrigin] = p.origin
	}

	id, err := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", p.topic, err)
	}

	p.logger.Debug().
		Str("message_id", id).
		Str("batch_id", report.BatchID).
		Msg("published catalog change")
	return nil
}

// Close flushes pending messages and closes the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

// Ensure Publisher implements importer.Notifier.
var _ importer.Notifier = (*Publisher)(nil)
