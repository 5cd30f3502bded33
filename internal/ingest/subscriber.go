package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// Subscriber pulls telemetry envelopes from a Pub/Sub subscription and
// feeds them to the applier.
type Subscriber struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	applier          *Applier
	logger           zerolog.Logger
}

// SubscriberConfig holds configuration for the subscriber.
type SubscriberConfig struct {
	ProjectID        string
	SubscriptionName string
	Applier          *Applier
	Logger           zerolog.Logger
}

// NewSubscriber creates a new Pub/Sub subscriber.
func NewSubscriber(ctx context.Context, cfg SubscriberConfig) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Telemetry events are small and frequent.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 100
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &Subscriber{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		applier:          cfg.Applier,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing messages. It blocks until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info().
		Str("subscription", s.subscriptionName).
		Msg("starting telemetry subscriber")

	return s.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (s *Subscriber) Close() error {
	return s.client.Close()
}

func (s *Subscriber) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := s.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	var env Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		logger.Error().Err(err).Msg("failed to parse envelope")
		msg.Nack()
		return
	}

	if err := s.applier.Apply(ctx, env); err != nil {
		if errors.Is(err, ErrUnknownType) {
			// Redelivery will not help an envelope we do not understand.
			logger.Warn().Str("type", env.Type).Msg("unknown envelope type")
			msg.Ack()
			return
		}
		logger.Error().Err(err).Str("type", env.Type).Msg("failed to apply envelope")
		msg.Nack()
		return
	}

	logger.Info().
		Str("type", env.Type).
		Str("device_id", env.DeviceID).
		Dur("duration", time.Since(startTime)).
		Msg("envelope applied")

	msg.Ack()
}
