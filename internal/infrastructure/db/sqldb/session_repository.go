package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mz310/FitProof/internal/core/domain"
)

var (
	sessionColumns = []string{"id", "user_id", "device_id", "device_code", "started_at", "status"}
	setColumns     = []string{"id", "session_id", "type", "exercise_name", "weight", "reps", "sets", "distance", "duration_sec", "volume", "created_at"}
)

// SessionRepository implements ports.SessionRepository on the sessions and
// session_sets tables. Set order is the auto-incrementing seq column.
type SessionRepository struct {
	db *DB
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := r.db.sb.
		Insert("sessions").
		Columns(sessionColumns...).
		Values(s.ID, s.UserID, s.DeviceID, s.DeviceCode, s.StartedAt, string(s.Status)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := r.db.sb.
		Select(sessionColumns...).
		From("sessions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find session: %w", err)
	}

	var (
		s      domain.Session
		status string
	)
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.UserID, &s.DeviceID, &s.DeviceCode, &s.StartedAt, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFound("session", id)
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	s.Status = domain.SessionStatus(status)
	s.StartedAt = s.StartedAt.UTC()
	s.Sets = []domain.Set{}
	return &s, nil
}

func (r *SessionRepository) AppendSet(ctx context.Context, set *domain.Set) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := r.db.sb.
		Insert("session_sets").
		Columns(setColumns...).
		Values(set.ID, set.SessionID, string(set.Type), set.ExerciseName,
			set.Weight, set.Reps, set.Sets, set.Distance, set.DurationSec, set.Volume, set.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert set: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListSets(ctx context.Context, sessionID string) ([]domain.Set, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args, err := r.db.sb.
		Select(setColumns...).
		From("session_sets").
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sets: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	sets := []domain.Set{}
	for rows.Next() {
		var (
			s       domain.Set
			setType string
		)
		if err := rows.Scan(&s.ID, &s.SessionID, &setType, &s.ExerciseName,
			&s.Weight, &s.Reps, &s.Sets, &s.Distance, &s.DurationSec, &s.Volume, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		s.Type = domain.SetType(setType)
		s.CreatedAt = s.CreatedAt.UTC()
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}
