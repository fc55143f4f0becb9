// Package mongo is the document store. Each session is one document and its
// sets live in an embedded array appended with $push.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mz310/FitProof/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers       = "users"
	collectionDevices     = "devices"
	collectionSessions    = "sessions"
	collectionLoginEvents = "login_events"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Store bundles the Mongo repositories behind ports.Store.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *UserRepository
	devices  *DeviceRepository
	sessions *SessionRepository
	logins   *LoginEventRepository
}

var _ ports.Store = (*Store)(nil)

// Open connects and ensures the indexes the repositories rely on.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	client, db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := NewStore(client, db)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("connected to mongo")
	return s, nil
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:   client,
		db:       db,
		users:    NewUserRepository(db),
		devices:  NewDeviceRepository(db),
		sessions: NewSessionRepository(db),
		logins:   NewLoginEventRepository(db),
	}
}

func (s *Store) Users() ports.UserRepository             { return s.users }
func (s *Store) Devices() ports.DeviceRepository         { return s.devices }
func (s *Store) Sessions() ports.SessionRepository       { return s.sessions }
func (s *Store) LoginEvents() ports.LoginEventRepository { return s.logins }

func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx, nil) }

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// EnsureIndexes creates the unique and lookup indexes on every collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionDevices: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionSessions: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionLoginEvents: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}},
		},
	}

	for coll, indexes := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("%s: %w", coll, err)
		}
	}
	return nil
}
