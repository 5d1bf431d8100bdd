package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/cragmatch/cragmatch/internal/recommend"
)

// Retrainer rebuilds the recommendation model from the catalog store.
type Retrainer interface {
	Retrain(ctx context.Context) error
}

// Subscriber retrains the local model whenever another instance imports a catalog.
type Subscriber struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	handler          *Handler
	logger           zerolog.Logger
}

// SubscriberConfig holds configuration for the Subscriber.
type SubscriberConfig struct {
	ProjectID        string
	SubscriptionName string
	Origin           string
	Retrainer        Retrainer
	Logger           zerolog.Logger
}

// NewSubscriber creates a Pub/Sub client bound to cfg.SubscriptionName.
func NewSubscriber(ctx context.Context, cfg SubscriberConfig) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// One retrain at a time.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 1
	subscriber.ReceiveSettings.MaxExtension = 5 * time.Minute

	logger := cfg.Logger.With().Str("component", "events").Logger()
	return &Subscriber{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		handler:          NewHandler(cfg.Retrainer, cfg.Origin, logger),
		logger:           logger,
	}, nil
}

// Start receives messages until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info().
		Str("subscription", s.subscriptionName).
		Msg("starting catalog change subscriber")

	return s.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		logger := s.logger.With().
			Str("message_id", msg.ID).
			Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
			Logger()

		if err := s.handler.Handle(ctx, msg.Data, msg.Attributes); err != nil {
			logger.Error().Err(err).Msg("catalog change handling failed")
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Close closes the Pub/Sub client.
func (s *Subscriber) Close() error {
	return s.client.Close()
}

// Handler decides what a delivered message means for the local model.
// A nil error acknowledges the message; an error requests redelivery.
type Handler struct {
	retrainer Retrainer
	origin    string
	logger    zerolog.Logger
}

// NewHandler creates a Handler. Messages tagged with origin are skipped.
func NewHandler(retrainer Retrainer, origin string, logger zerolog.Logger) *Handler {
	return &Handler{retrainer: retrainer, origin: origin, logger: logger}
}

// Handle processes one message payload.
func (h *Handler) Handle(ctx context.Context, data []byte, attrs map[string]string) error {
	if h.origin != "" && attrs[AttrOrigin] == h.origin {
		h.logger.Debug().Msg("skipping own catalog change")
		return nil
	}

	ev, err := Decode(data)
	if err != nil {
		// Redelivery cannot fix a bad payload.
		h.logger.Error().Err(err).Msg("dropping malformed event")
		return nil
	}

	if ev.Type != TypeCatalogChanged {
		h.logger.Warn().Str("type", ev.Type).Msg("unknown event type")
		return nil
	}

	start := time.Now()
	if err := h.retrainer.Retrain(ctx); err != nil {
		if errors.Is(err, recommend.ErrEmptyCatalog) {
			h.logger.Warn().Str("batch_id", ev.BatchID).Msg("catalog changed to empty; recommendations unavailable")
			return nil
		}
		return fmt.Errorf("retrain after batch %s: %w", ev.BatchID, err)
	}

	h.logger.Info().
		Str("batch_id", ev.BatchID).
		Dur("duration", time.Since(start)).
		Msg("retrained after catalog change")
	return nil
}
