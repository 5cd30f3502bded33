// Package ingest consumes telemetry envelopes published by monitored devices
// and persists them through the telemetry repository.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// Envelope types understood by the applier.
const (
	TypeDevice       = "device"
	TypeContact      = "contact"
	TypeCall         = "call"
	TypeSMS          = "sms"
	TypeLocation     = "location"
	TypeApplication  = "application"
	TypeProcess      = "process_activity"
	TypeNotification = "notification"
)

// ErrUnknownType is returned for envelope types the applier cannot handle.
var ErrUnknownType = fmt.Errorf("unknown envelope type")

// Envelope is the wire format a device agent publishes for each telemetry event.
type Envelope struct {
	Type     string          `json:"type"`
	DeviceID string          `json:"deviceId"`
	Payload  json.RawMessage `json:"payload"`
}

// ApplierConfig holds configuration for the applier.
type ApplierConfig struct {
	Repository telemetry.Repository
	Logger     zerolog.Logger

	// MaxRetries bounds the retry attempts per write. Default: 3.
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff interval. Default: 5s.
	MaxInterval time.Duration

	// Breaker configures the circuit breaker guarding repository writes.
	// If nil, defaults are used.
	Breaker *gobreaker.Settings
}

// Applier decodes envelopes and writes them to storage with retry and
// circuit breaker protection around the repository.
type Applier struct {
	repo            telemetry.Repository
	breaker         *gobreaker.CircuitBreaker[struct{}]
	logger          zerolog.Logger
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewApplier creates a new applier.
func NewApplier(cfg ApplierConfig) *Applier {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "telemetry-store",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	}
	if cfg.Breaker != nil {
		settings = *cfg.Breaker
	}

	return &Applier{
		repo:            cfg.Repository,
		breaker:         gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:          cfg.Logger,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
	}
}

// Apply decodes and persists a single envelope. Unknown envelope types
// return ErrUnknownType so the caller can ack them without redelivery.
func (a *Applier) Apply(ctx context.Context, env Envelope) error {
	if env.DeviceID == "" && env.Type != TypeDevice {
		return fmt.Errorf("envelope missing deviceId")
	}

	write, err := a.decode(env)
	if err != nil {
		return err
	}

	return a.withResilience(ctx, env.Type, write)
}

// decode maps an envelope to a repository write closure.
func (a *Applier) decode(env Envelope) (func(ctx context.Context) error, error) {
	switch env.Type {
	case TypeDevice:
		var d telemetry.Device
		if err := json.Unmarshal(env.Payload, &d); err != nil {
			return nil, fmt.Errorf("decoding device payload: %w", err)
		}
		if d.DeviceID == "" {
			d.DeviceID = env.DeviceID
		}
		return func(ctx context.Context) error { return a.repo.UpsertDevice(ctx, &d) }, nil
	case TypeContact:
		var c telemetry.Contact
		if err := json.Unmarshal(env.Payload, &c); err != nil {
			return nil, fmt.Errorf("decoding contact payload: %w", err)
		}
		c.DeviceID = env.DeviceID
		return func(ctx context.Context) error { return a.repo.AddContact(ctx, &c) }, nil
	case TypeCall:
		var rec telemetry.CallRecord
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			return nil, fmt.Errorf("decoding call payload: %w", err)
		}
		rec.DeviceID = env.DeviceID
		return func(ctx context.Context) error { return a.repo.AddCall(ctx, &rec) }, nil
	case TypeSMS:
		var rec telemetry.SMSRecord
		if err := json.Unmarshal(env.Payload, &rec); err != nil {
			return nil, fmt.Errorf("decoding sms payload: %w", err)
		}
		rec.DeviceID = env.DeviceID
		return func(ctx context.Context) error { return a.repo.AddSMS(ctx, &rec) }, nil
	case TypeLocation:
		var loc telemetry.Location
		if err := json.Unmarshal(env.Payload, &loc); err != nil {
			return nil, fmt.Errorf("decoding location payload: %w", err)
		}
		loc.DeviceID = env.DeviceID
		return func(ctx context.Context) error { return a.repo.AddLocation(ctx, &loc) }, nil
	case TypeApplication:
		var app telemetry.Application
		if err := json.Unmarshal(env.Payload, &app); err != nil {
			return nil, fmt.Errorf("decoding application payload: %w", err)
		}
		app.DeviceID = env.DeviceID
		return func(ctx context.Context) error { return a.repo.AddApplication(ctx, &app) }, nil
	case TypeProcess:
		var p telemetry.ProcessActivity
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decoding process payload: %w", err)
		}
		p.DeviceID = env.DeviceID
		return func(ctx context.Context) error { return a.repo.AddProcessActivity(ctx, &p) }, nil
	case TypeNotification:
		var n telemetry.Notification
		if err := json.Unmarshal(env.Payload, &n); err != nil {
			return nil, fmt.Errorf("decoding notification payload: %w", err)
		}
		n.DeviceID = env.DeviceID
		return func(ctx context.Context) error { return a.repo.AddNotification(ctx, &n) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// withResilience runs the write through the circuit breaker with
// exponential backoff retries.
func (a *Applier) withResilience(ctx context.Context, kind string, write func(ctx context.Context) error) error {
	_, err := a.breaker.Execute(func() (struct{}, error) {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = a.initialInterval
		bo.MaxInterval = a.maxInterval

		retryErr := backoff.Retry(func() error {
			if err := write(ctx); err != nil {
				a.logger.Warn().Err(err).Str("type", kind).Msg("telemetry write failed, retrying")
				return err
			}
			return nil
		}, backoff.WithContext(backoff.WithMaxRetries(bo, a.maxRetries), ctx))

		return struct{}{}, retryErr
	})
	if err != nil {
		return fmt.Errorf("persisting %s: %w", kind, err)
	}
	return nil
}
