package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
	"github.com/mz310/FitProof/internal/pkg/metrics"
)

// SessionService owns the session lifecycle and set volume aggregation.
type SessionService struct {
	devices  ports.DeviceRepository
	sessions ports.SessionRepository
	serial   ports.KeyedExecutor
	dedup    ports.IdempotencyStore
	events   ports.EventPublisher
	logger   zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewSessionService wires the aggregator. serial, dedup and events may be nil:
// mutations then run inline, Idempotency-Key is ignored and no events are sent.
func NewSessionService(
	devices ports.DeviceRepository,
	sessions ports.SessionRepository,
	serial ports.KeyedExecutor,
	dedup ports.IdempotencyStore,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *SessionService {
	if serial == nil {
		serial = inline{}
	}
	return &SessionService{
		devices:  devices,
		sessions: sessions,
		serial:   serial,
		dedup:    dedup,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Start opens an active session against the device named by the QR code or,
// failing that, the manually entered code.
func (s *SessionService) Start(ctx context.Context, actor domain.Actor, input ports.StartSessionInput) (*domain.Session, *domain.Device, error) {
	code := strings.TrimSpace(input.QRCode)
	if code == "" {
		code = strings.TrimSpace(input.DeviceCode)
	}
	if code == "" {
		return nil, nil, &domain.ValidationError{
			Message: "please provide a QR or device code",
			Issues:  []domain.FieldIssue{{Field: "deviceCode", Message: "qrCode or deviceCode is required"}},
		}
	}

	device, err := s.devices.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	session := domain.NewSession(s.newID(), actor.UserID, device, s.now())
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Str("device_code", code).Msg("failed to create session")
		return nil, nil, err
	}

	metrics.SessionsStartedTotal.Inc()
	s.logger.Info().Str("session_id", session.ID).Str("user_id", actor.UserID).Str("device_code", device.Code).Msg("session started")

	publish(ctx, s.events, s.logger, ports.TopicSessionStarted, session.ID, sessionStartedEvent{
		SessionID:  session.ID,
		UserID:     session.UserID,
		DeviceID:   session.DeviceID,
		DeviceCode: session.DeviceCode,
		StartedAt:  session.StartedAt,
	})

	return session, device, nil
}

// LogSet appends one set and returns the session with totals recomputed from
// the full set list. All mutations of one session run on a single worker; the
// set_logged event is sent after the worker is released.
func (s *SessionService) LogSet(ctx context.Context, actor domain.Actor, sessionID string, input domain.SetInput, idempotencyKey string) (*domain.Session, error) {
	if _, err := domain.ParseSetType(string(input.Type)); err != nil {
		return nil, err
	}

	var (
		result *domain.Session
		event  *setLoggedEvent
	)
	err := s.serial.Do(ctx, sessionID, func(ctx context.Context) error {
		session, err := s.load(ctx, actor, sessionID)
		if err != nil {
			return err
		}

		if idempotencyKey != "" && s.dedup != nil {
			first, err := s.dedup.Claim(ctx, sessionID, idempotencyKey)
			switch {
			case err != nil:
				s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("idempotency check failed, appending anyway")
			case !first:
				s.logger.Info().Str("session_id", sessionID).Str("idempotency_key", idempotencyKey).Msg("idempotent replay")
				metrics.IdempotentReplaysTotal.Inc()
				result, err = s.withSets(ctx, session)
				return err
			}
		}

		set := domain.NewSet(s.newID(), session.ID, input, s.now())
		if err := s.sessions.AppendSet(ctx, &set); err != nil {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to append set")
			s.release(ctx, sessionID, idempotencyKey)
			return err
		}

		metrics.SetsLoggedTotal.WithLabelValues(string(set.Type)).Inc()
		metrics.SetVolume.WithLabelValues(string(set.Type)).Observe(set.Volume)

		result, err = s.withSets(ctx, session)
		if err != nil {
			return err
		}

		event = &setLoggedEvent{
			SessionID:     session.ID,
			SetID:         set.ID,
			UserID:        session.UserID,
			LoggedBy:      actor.UserID,
			Type:          set.Type,
			Volume:        set.Volume,
			TotalVolume:   result.TotalVolume,
			TotalDuration: result.TotalDuration,
			LoggedAt:      set.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		publish(ctx, s.events, s.logger, ports.TopicSetLogged, event.SessionID, *event)
	}
	return result, nil
}

// Get returns the session aggregate if the actor may see it.
func (s *SessionService) Get(ctx context.Context, actor domain.Actor, sessionID string) (*domain.Session, error) {
	session, err := s.load(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	return s.withSets(ctx, session)
}

// ListDevices returns the active devices ordered by code.
func (s *SessionService) ListDevices(ctx context.Context) ([]domain.Device, error) {
	return s.devices.ListActive(ctx)
}

func (s *SessionService) load(ctx context.Context, actor domain.Actor, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessSession(session, actor.UserID, actor.Role) {
		return nil, domain.ErrSessionAccess
	}
	return session, nil
}

func (s *SessionService) withSets(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	sets, err := s.sessions.ListSets(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return session.WithSets(sets), nil
}

func (s *SessionService) release(ctx context.Context, sessionID, key string) {
	if key == "" || s.dedup == nil {
		return
	}
	if err := s.dedup.Release(ctx, sessionID, key); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to release idempotency key")
	}
}

// inline runs mutations on the calling goroutine.
type inline struct{}

func (inline) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
