package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/ingest"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// flakyRepo fails the first n AddCall attempts, then delegates.
type flakyRepo struct {
	telemetry.Repository
	failures int
	attempts int
}

func (r *flakyRepo) AddCall(ctx context.Context, call *telemetry.CallRecord) error {
	r.attempts++
	if r.attempts <= r.failures {
		return errors.New("transient store error")
	}
	return r.Repository.AddCall(ctx, call)
}

func newApplier(repo telemetry.Repository) *ingest.Applier {
	return ingest.NewApplier(ingest.ApplierConfig{
		Repository:      repo,
		Logger:          zerolog.Nop(),
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	})
}

func envelope(t *testing.T, typ, deviceID string, payload any) ingest.Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return ingest.Envelope{Type: typ, DeviceID: deviceID, Payload: raw}
}

func TestApplier_AppliesCall(t *testing.T) {
	repo := telemetry.NewMemoryRepository()
	applier := newApplier(repo)
	ctx := context.Background()

	env := envelope(t, ingest.TypeCall, "DEV-1", telemetry.CallRecord{
		ID:        "c1",
		Caller:    "+15551230001",
		Type:      "incoming",
		Duration:  30,
		Timestamp: time.Now(),
	})
	require.NoError(t, applier.Apply(ctx, env))

	calls, total, err := repo.ListCalls(ctx, "DEV-1", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, calls, 1)
	assert.Equal(t, "c1", calls[0].ID)
	assert.Equal(t, "DEV-1", calls[0].DeviceID, "device id comes from the envelope")
}

func TestApplier_UpsertsDevice(t *testing.T) {
	repo := telemetry.NewMemoryRepository()
	applier := newApplier(repo)
	ctx := context.Background()

	env := envelope(t, ingest.TypeDevice, "DEV-1", telemetry.Device{
		DeviceName: "Alex's Phone",
		Status:     "online",
	})
	require.NoError(t, applier.Apply(ctx, env))

	got, err := repo.GetDevice(ctx, "DEV-1")
	require.NoError(t, err)
	assert.Equal(t, "Alex's Phone", got.DeviceName)
}

func TestApplier_RetriesTransientFailures(t *testing.T) {
	repo := &flakyRepo{Repository: telemetry.NewMemoryRepository(), failures: 2}
	applier := newApplier(repo)
	ctx := context.Background()

	env := envelope(t, ingest.TypeCall, "DEV-1", telemetry.CallRecord{ID: "c1"})
	require.NoError(t, applier.Apply(ctx, env))
	assert.Equal(t, 3, repo.attempts, "two failures then success")
}

func TestApplier_GivesUpAfterMaxRetries(t *testing.T) {
	repo := &flakyRepo{Repository: telemetry.NewMemoryRepository(), failures: 100}
	applier := newApplier(repo)

	env := envelope(t, ingest.TypeCall, "DEV-1", telemetry.CallRecord{ID: "c1"})
	err := applier.Apply(context.Background(), env)
	require.Error(t, err)
	assert.Equal(t, 4, repo.attempts, "initial attempt plus three retries")
}

func TestApplier_UnknownType(t *testing.T) {
	applier := newApplier(telemetry.NewMemoryRepository())

	env := ingest.Envelope{Type: "screenshot", DeviceID: "DEV-1", Payload: []byte(`{}`)}
	err := applier.Apply(context.Background(), env)
	assert.ErrorIs(t, err, ingest.ErrUnknownType)
}

func TestApplier_MissingDeviceID(t *testing.T) {
	applier := newApplier(telemetry.NewMemoryRepository())

	env := envelope(t, ingest.TypeCall, "", telemetry.CallRecord{ID: "c1"})
	err := applier.Apply(context.Background(), env)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ingest.ErrUnknownType)
}

func TestApplier_MalformedPayload(t *testing.T) {
	applier := newApplier(telemetry.NewMemoryRepository())

	env := ingest.Envelope{Type: ingest.TypeSMS, DeviceID: "DEV-1", Payload: []byte(`{broken`)}
	err := applier.Apply(context.Background(), env)
	require.Error(t, err)
}
