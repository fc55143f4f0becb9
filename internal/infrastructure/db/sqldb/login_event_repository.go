package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mz310/FitProof/internal/core/domain"
)

var loginEventColumns = []string{"id", "user_id", "success", "ip", "user_agent", "created_at"}

// LoginEventRepository implements ports.LoginEventRepository.
type LoginEventRepository struct {
	db *DB
}

func (r *LoginEventRepository) Record(ctx context.Context, e *domain.LoginEvent) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var userID sql.NullString
	if e.UserID != nil {
		userID = sql.NullString{String: *e.UserID, Valid: true}
	}

	query, args, err := r.db.sb.
		Insert("login_events").
		Columns(loginEventColumns...).
		Values(e.ID, userID, e.Success, e.IP, e.UserAgent, e.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert login event: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert login event: %w", err)
	}
	return nil
}

func (r *LoginEventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.LoginEvent, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := r.db.sb.
		Select(loginEventColumns...).
		From("login_events").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "seq DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list login events: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list login events: %w", err)
	}
	defer rows.Close()

	events := []domain.LoginEvent{}
	for rows.Next() {
		var (
			e   domain.LoginEvent
			uid sql.NullString
		)
		if err := rows.Scan(&e.ID, &uid, &e.Success, &e.IP, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan login event: %w", err)
		}
		if uid.Valid {
			id := uid.String
			e.UserID = &id
		}
		e.CreatedAt = e.CreatedAt.UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list login events: %w", err)
	}
	return events, nil
}
