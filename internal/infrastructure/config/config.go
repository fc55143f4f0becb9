package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const defaultJWTSecret = "dev-secret-change-me"

// Storage backends accepted by STORE_DRIVER.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`
	SeedDefaults    bool          `env:"SEED_DEFAULTS,    default=true"`
	SessionShards   int           `env:"SESSION_SHARDS,   default=16"`

	Auth      AuthConfig
	Store     StoreConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Events    EventsConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET,  default=dev-secret-change-me"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=12h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath  string `env:"SQLITE_PATH,  default=data/fitproof.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	MongoURI    string `env:"MONGO_URI,    default=mongodb://localhost:27017"`
	MongoDB     string `env:"MONGO_DB,     default=fitproof"`
}

// RedisConfig is optional: an empty Addr disables idempotency keys and moves
// rate limiting in-process.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	Capacity int           `env:"RATE_LIMIT_CAPACITY, default=10"`
	Refill   int           `env:"RATE_LIMIT_REFILL,   default=1"`
	Interval time.Duration `env:"RATE_LIMIT_INTERVAL, default=6s"`
}

type EventsConfig struct {
	Driver       string   `env:"EVENTS_DRIVER, default=none"`
	KafkaBrokers []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	AMQPURL      string   `env:"AMQP_URL"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Load reads a .env file when present, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

// MustLoad is Load for main: it panics on error.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreSQLite, StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite, postgres or mongo, got %q", c.Store.Driver)
	}
	if c.Store.Driver == StorePostgres && c.Store.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORE_DRIVER=postgres")
	}
	switch c.Events.Driver {
	case "none", "kafka", "amqp":
	default:
		return fmt.Errorf("EVENTS_DRIVER must be none, kafka or amqp, got %q", c.Events.Driver)
	}
	if c.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.RateLimit.Capacity <= 0 {
		return errors.New("RATE_LIMIT_CAPACITY must be positive")
	}
	if c.SessionShards <= 0 {
		return errors.New("SESSION_SHARDS must be positive")
	}
	return nil
}
