package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
)

type seedUser struct {
	email, password, name string
	role                  domain.Role
}

var defaultUsers = []seedUser{
	{email: "admin@example.com", password: "admin123", name: "Admin", role: domain.RoleAdmin},
	{email: "trainer@example.com", password: "trainer123", name: "Trainer", role: domain.RoleTrainer},
	{email: "member@example.com", password: "member123", name: "Member", role: domain.RoleMember},
}

var defaultDevices = []domain.Device{
	{Code: "DEV-001", Name: "Chest Press", Location: "Zone A", Active: true},
	{Code: "DEV-002", Name: "Treadmill 1", Location: "Cardio", Active: true},
	{Code: "DEV-003", Name: "Squat Rack", Location: "Zone B", Active: true},
}

// SeedDefaults installs the demo accounts and devices. Existing accounts are
// left untouched, so running it on every start is safe.
func SeedDefaults(ctx context.Context, store ports.Store, hasher ports.PasswordHasher, logger zerolog.Logger) error {
	acc := accounts{
		users:  store.Users(),
		hasher: hasher,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}

	for _, u := range defaultUsers {
		_, err := store.Users().FindByEmail(ctx, u.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if _, err := acc.create(ctx, u.email, u.password, u.name, u.role); err != nil && !errors.Is(err, domain.ErrConflict) {
			return err
		}
		logger.Info().Str("email", u.email).Str("role", string(u.role)).Msg("seeded user")
	}

	for _, d := range defaultDevices {
		device := d
		device.ID = uuid.NewString()
		if err := store.Devices().Upsert(ctx, &device); err != nil {
			return err
		}
	}
	logger.Info().Int("devices", len(defaultDevices)).Msg("seeded devices")
	return nil
}
