package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mz310/FitProof/internal/core/domain"
)

var deviceColumns = []string{"id", "code", "name", "location", "is_active"}

// DeviceRepository implements ports.DeviceRepository on the devices table.
type DeviceRepository struct {
	db *DB
}

func (r *DeviceRepository) FindActiveByCode(ctx context.Context, code string) (*domain.Device, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := r.db.sb.
		Select(deviceColumns...).
		From("devices").
		Where(sq.Eq{"code": code, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find device: %w", err)
	}

	var d domain.Device
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&d.ID, &d.Code, &d.Name, &d.Location, &d.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("device", code)
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	return &d, nil
}

func (r *DeviceRepository) ListActive(ctx context.Context) ([]domain.Device, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := r.db.sb.
		Select(deviceColumns...).
		From("devices").
		Where(sq.Eq{"is_active": true}).
		OrderBy("code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list devices: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	devices := []domain.Device{}
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.Location, &d.Active); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

// Upsert inserts the device, or refreshes name, location and active flag of
// the existing row with the same code. The existing id is kept.
func (r *DeviceRepository) Upsert(ctx context.Context, device *domain.Device) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := r.db.sb.
		Insert("devices").
		Columns(deviceColumns...).
		Values(device.ID, device.Code, device.Name, device.Location, device.Active).
		Suffix("ON CONFLICT (code) DO UPDATE SET name = excluded.name, location = excluded.location, is_active = excluded.is_active").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert device: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	return nil
}
