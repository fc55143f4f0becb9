package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mz310/FitProof/internal/core/domain"
)

type SessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(collectionSessions)}
}

type sessionDoc struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	DeviceID   string    `bson:"device_id"`
	DeviceCode string    `bson:"device_code"`
	StartedAt  time.Time `bson:"started_at"`
	Status     string    `bson:"status"`
	Sets       []setDoc  `bson:"sets"`
}

type setDoc struct {
	ID           string    `bson:"id"`
	Type         string    `bson:"type"`
	ExerciseName string    `bson:"exercise_name"`
	Weight       float64   `bson:"weight"`
	Reps         float64   `bson:"reps"`
	Sets         float64   `bson:"sets"`
	Distance     float64   `bson:"distance"`
	DurationSec  float64   `bson:"duration_sec"`
	Volume       float64   `bson:"volume"`
	CreatedAt    time.Time `bson:"created_at"`
}

func newSetDoc(s *domain.Set) setDoc {
	return setDoc{
		ID:           s.ID,
		Type:         string(s.Type),
		ExerciseName: s.ExerciseName,
		Weight:       s.Weight,
		Reps:         s.Reps,
		Sets:         s.Sets,
		Distance:     s.Distance,
		DurationSec:  s.DurationSec,
		Volume:       s.Volume,
		CreatedAt:    s.CreatedAt,
	}
}

func (d setDoc) toDomain(sessionID string) domain.Set {
	return domain.Set{
		ID:           d.ID,
		SessionID:    sessionID,
		Type:         domain.SetType(d.Type),
		ExerciseName: d.ExerciseName,
		Weight:       d.Weight,
		Reps:         d.Reps,
		Sets:         d.Sets,
		Distance:     d.Distance,
		DurationSec:  d.DurationSec,
		Volume:       d.Volume,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := sessionDoc{
		ID:         s.ID,
		UserID:     s.UserID,
		DeviceID:   s.DeviceID,
		DeviceCode: s.DeviceCode,
		StartedAt:  s.StartedAt,
		Status:     string(s.Status),
		Sets:       []setDoc{},
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d sessionDoc
	opts := options.FindOne().SetProjection(bson.M{"sets": 0})
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFound("session", id)
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &domain.Session{
		ID:         d.ID,
		UserID:     d.UserID,
		DeviceID:   d.DeviceID,
		DeviceCode: d.DeviceCode,
		StartedAt:  d.StartedAt.UTC(),
		Status:     domain.SessionStatus(d.Status),
		Sets:       []domain.Set{},
	}, nil
}

// AppendSet pushes the set onto the session document in one atomic update.
func (r *SessionRepository) AppendSet(ctx context.Context, set *domain.Set) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": set.SessionID},
		bson.M{"$push": bson.M{"sets": newSetDoc(set)}},
	)
	if err != nil {
		return fmt.Errorf("append set: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound("session", set.SessionID)
	}
	return nil
}

func (r *SessionRepository) ListSets(ctx context.Context, sessionID string) ([]domain.Set, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d sessionDoc
	opts := options.FindOne().SetProjection(bson.M{"sets": 1})
	if err := r.coll.FindOne(ctx, bson.M{"_id": sessionID}, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.Set{}, nil
		}
		return nil, fmt.Errorf("list sets: %w", err)
	}

	sets := make([]domain.Set, 0, len(d.Sets))
	for _, s := range d.Sets {
		sets = append(sets, s.toDomain(sessionID))
	}
	return sets, nil
}
