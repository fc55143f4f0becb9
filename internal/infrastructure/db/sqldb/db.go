// Package sqldb is the relational store: Postgres through pgx's database/sql
// driver or SQLite through go-sqlite3, with queries built by squirrel.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/core/ports"
	"github.com/mz310/FitProof/internal/infrastructure/db/sqldb/migrations"
)

const defaultTimeout = 10 * time.Second

// Dialects understood by Open.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Config selects the dialect and the data source. For SQLite the DSN is a
// file path (":memory:" for a throwaway database).
type Config struct {
	Dialect string
	DSN     string
	Timeout time.Duration
}

// DB is an open relational store. It satisfies ports.Store.
type DB struct {
	*sql.DB
	dialect string
	sb      sq.StatementBuilderType
	log     zerolog.Logger

	users    *UserRepository
	devices  *DeviceRepository
	sessions *SessionRepository
	logins   *LoginEventRepository
}

var _ ports.Store = (*DB)(nil)

// Open connects, pings and migrates the database.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var (
		conn *sql.DB
		err  error
	)
	switch cfg.Dialect {
	case DialectPostgres:
		conn, err = sql.Open("pgx", cfg.DSN)
	case DialectSQLite:
		conn, err = openSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("sqldb: unsupported dialect %q", cfg.Dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("sqldb open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqldb ping: %w", err)
	}

	if err := migrations.Migrate(conn, cfg.Dialect); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Info().Str("dialect", cfg.Dialect).Msg("connected to database")
	return New(conn, cfg.Dialect, log), nil
}

// New wraps an already open connection. It does not migrate.
func New(conn *sql.DB, dialect string, log zerolog.Logger) *DB {
	db := &DB{
		DB:      conn,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(placeholder(dialect)),
		log:     log,
	}
	db.users = &UserRepository{db: db}
	db.devices = &DeviceRepository{db: db}
	db.sessions = &SessionRepository{db: db}
	db.logins = &LoginEventRepository{db: db}
	return db
}

func (db *DB) Users() ports.UserRepository             { return db.users }
func (db *DB) Devices() ports.DeviceRepository         { return db.devices }
func (db *DB) Sessions() ports.SessionRepository       { return db.sessions }
func (db *DB) LoginEvents() ports.LoginEventRepository { return db.logins }

func (db *DB) Ping(ctx context.Context) error { return db.DB.PingContext(ctx) }

func (db *DB) Close(context.Context) error { return db.DB.Close() }

func openSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
	}
	conn, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases alive across queries.
	conn.SetMaxOpenConns(1)
	return conn, nil
}

func placeholder(dialect string) sq.PlaceholderFormat {
	if dialect == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// isUniqueViolation recognises unique-constraint failures from either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultTimeout)
}
