package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kidwatch/kidwatch/internal/auth"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// seedDevData populates the in-memory repositories with a usable local
// dataset: one admin, one parent scoped to a single device, two devices
// and a little telemetry on each.
func seedDevData(ctx context.Context, users *auth.MemoryRepository, store *telemetry.MemoryRepository) error {
	now := time.Now()

	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}
	parentHash, err := auth.HashPassword("parent123")
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	seedUsers := []*auth.User{
		{
			ID:           uuid.NewString(),
			Name:         "Admin",
			Email:        "admin@kidwatch.local",
			Role:         "admin",
			PasswordHash: adminHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:             uuid.NewString(),
			Name:           "Pat Parent",
			Email:          "parent@kidwatch.local",
			Role:           "parent",
			AllowedDevices: []string{"DEV-001"},
			PasswordHash:   parentHash,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
	for _, u := range seedUsers {
		if err := users.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seeding user %s: %w", u.Email, err)
		}
	}

	devices := []*telemetry.Device{
		{
			ID:           uuid.NewString(),
			DeviceID:     "DEV-001",
			DeviceName:   "Alex's Phone",
			DeviceType:   "smartphone",
			OSVersion:    "Android 14",
			Manufacturer: "Samsung",
			Status:       "online",
			BatteryLevel: 82,
			LastSeen:     now,
		},
		{
			ID:           uuid.NewString(),
			DeviceID:     "DEV-002",
			DeviceName:   "Sam's Tablet",
			DeviceType:   "tablet",
			OSVersion:    "Android 13",
			Manufacturer: "Lenovo",
			Status:       "offline",
			BatteryLevel: 17,
			LastSeen:     now.Add(-6 * time.Hour),
		},
	}
	for _, d := range devices {
		if err := store.UpsertDevice(ctx, d); err != nil {
			return fmt.Errorf("seeding device %s: %w", d.DeviceID, err)
		}
	}

	if err := store.AddContact(ctx, &telemetry.Contact{
		ID:           uuid.NewString(),
		DeviceID:     "DEV-001",
		Name:         "Mom",
		PhoneNumbers: []string{"+15551230001"},
		IsFavorite:   true,
		LastUpdated:  now,
	}); err != nil {
		return err
	}

	calls := []*telemetry.CallRecord{
		{
			ID:        uuid.NewString(),
			DeviceID:  "DEV-001",
			Caller:    "+15551230001",
			Receiver:  "+15551239999",
			Duration:  184,
			Type:      "incoming",
			Status:    "completed",
			Timestamp: now.Add(-30 * time.Minute),
			Metadata: &telemetry.CallMetadata{
				ContactName: "Mom",
				Category:    "family",
			},
		},
		{
			ID:        uuid.NewString(),
			DeviceID:  "DEV-001",
			Caller:    "+15557770000",
			Receiver:  "+15551239999",
			Duration:  12,
			Type:      "incoming",
			Status:    "completed",
			Timestamp: now.Add(-2 * time.Hour),
			Metadata: &telemetry.CallMetadata{
				IsSpam:   true,
				Category: "spam",
			},
		},
	}
	for _, c := range calls {
		if err := store.AddCall(ctx, c); err != nil {
			return err
		}
	}

	if err := store.AddSMS(ctx, &telemetry.SMSRecord{
		ID:        uuid.NewString(),
		DeviceID:  "DEV-001",
		Sender:    "+15551230001",
		Receiver:  "+15551239999",
		Message:   "Dinner at 6!",
		Type:      "incoming",
		Status:    "received",
		Timestamp: now.Add(-time.Hour),
		Metadata:  &telemetry.SMSMetadata{ContactName: "Mom", Category: "family"},
	}); err != nil {
		return err
	}

	if err := store.AddLocation(ctx, &telemetry.Location{
		ID:           uuid.NewString(),
		DeviceID:     "DEV-001",
		Latitude:     52.3702,
		Longitude:    4.8952,
		Accuracy:     12,
		Address:      "Museumplein, Amsterdam",
		BatteryLevel: 82,
		NetworkType:  "wifi",
		Timestamp:    now.Add(-10 * time.Minute),
	}); err != nil {
		return err
	}

	if err := store.AddApplication(ctx, &telemetry.Application{
		ID:          uuid.NewString(),
		DeviceID:    "DEV-001",
		AppName:     "YouTube",
		PackageName: "com.google.android.youtube",
		IsActive:    true,
		StartTime:   now.Add(-45 * time.Minute),
		LastUsed:    now.Add(-5 * time.Minute),
		UsageCount:  23,
		Category:    "video",
	}); err != nil {
		return err
	}

	if err := store.AddProcessActivity(ctx, &telemetry.ProcessActivity{
		ID:          uuid.NewString(),
		DeviceID:    "DEV-001",
		ProcessName: "com.google.android.youtube",
		PackageName: "com.google.android.youtube",
		CPUUsage:    7.5,
		MemoryUsage: 312.4,
		IsActive:    true,
		Priority:    "foreground",
		ProcessID:   4120,
		StartTime:   now.Add(-45 * time.Minute),
	}); err != nil {
		return err
	}

	return store.AddNotification(ctx, &telemetry.Notification{
		ID:         uuid.NewString(),
		DeviceID:   "DEV-001",
		AppName:    "Messages",
		AppPackage: "com.google.android.apps.messaging",
		Title:      "Mom",
		Text:       "Dinner at 6!",
		Category:   "msg",
		Priority:   "high",
		Timestamp:  now.Add(-time.Hour),
	})
}
