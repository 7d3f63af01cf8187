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

type Config struct {
	Port       string        `env:"PORT,        default=5000"`
	Env        string        `env:"ENV,         default=development"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL,     default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	MySQL   MySQLConfig
	Redis   RedisConfig
	Session SessionConfig
	Events  EventsConfig
}

type MySQLConfig struct {
	Host            string        `env:"MYSQL_HOST,              default=localhost"`
	Port            int           `env:"MYSQL_PORT,              default=3306"`
	User            string        `env:"MYSQL_USER,              default=root"`
	Password        string        `env:"MYSQL_PASSWORD"`
	Database        string        `env:"MYSQL_DB,                default=ejemplo"`
	MaxOpenConns    int           `env:"MYSQL_MAX_OPEN_CONNS,    default=10"`
	MaxIdleConns    int           `env:"MYSQL_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"MYSQL_CONN_MAX_LIFETIME, default=30m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	DB       int    `env:"REDIS_DB,        default=0"`
	Password string `env:"REDIS_PASSWORD"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE, default=session-id"`
	TTL        time.Duration `env:"SESSION_TTL,    default=24h"`
}

// EventsConfig enables user event publishing when Brokers is non-empty.
type EventsConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC,   default=users.events"`
	Workers int      `env:"EVENT_WORKERS, default=4"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
