package mongo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mz310/FitProof/internal/core/domain"
)

type LoginEventRepository struct {
	coll *mongo.Collection
	seq  atomic.Int64
}

func NewLoginEventRepository(db *mongo.Database) *LoginEventRepository {
	r := &LoginEventRepository{coll: db.Collection(collectionLoginEvents)}
	r.seq.Store(time.Now().UnixNano())
	return r
}

type loginEventDoc struct {
	ID        string    `bson:"_id"`
	Seq       int64     `bson:"seq"`
	UserID    *string   `bson:"user_id"`
	Success   bool      `bson:"success"`
	IP        string    `bson:"ip"`
	UserAgent string    `bson:"user_agent"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *LoginEventRepository) Record(ctx context.Context, e *domain.LoginEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := loginEventDoc{
		ID:        e.ID,
		Seq:       r.seq.Add(1),
		UserID:    e.UserID,
		Success:   e.Success,
		IP:        e.IP,
		UserAgent: e.UserAgent,
		CreatedAt: e.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login event: %w", err)
	}
	return nil
}

func (r *LoginEventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.LoginEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list login events: %w", err)
	}
	var docs []loginEventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode login events: %w", err)
	}

	events := make([]domain.LoginEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, domain.LoginEvent{
			ID:        d.ID,
			UserID:    d.UserID,
			Success:   d.Success,
			IP:        d.IP,
			UserAgent: d.UserAgent,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return events, nil
}
