package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Cache     CacheConfig     `json:"cache"`
	Worker    WorkerConfig    `json:"worker"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	CORS      CORSConfig      `json:"cors"`
}

type ServerConfig struct {
	Host         string        `json:"host" env:"HOST" env-default:"localhost"`
	Port         string        `json:"port" env:"PORT" env-default:"8080"`
	ReadTimeout  time.Duration `json:"read_timeout" env:"READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `json:"write_timeout" env:"WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `json:"idle_timeout" env:"IDLE_TIMEOUT" env-default:"60s"`
	Environment  string        `json:"environment" env:"ENVIRONMENT" env-default:"development"`
}

type DatabaseConfig struct {
	Driver          string        `json:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host            string        `json:"host" env:"DB_HOST" env-default:"localhost"`
	Port            string        `json:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `json:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `json:"password" env:"DB_PASSWORD"`
	Name            string        `json:"name" env:"DB_NAME" env-default:"todo_tracker"`
	SSLMode         string        `json:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	Path            string        `json:"path" env:"DB_PATH" env-default:"todos.db"`
	AutoMigrate     bool          `json:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	MaxOpenConns    int           `json:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME" env-default:"30m"`
}

type RedisConfig struct {
	Enabled      bool          `json:"enabled" env:"REDIS_ENABLED" env-default:"true"`
	Host         string        `json:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port         string        `json:"port" env:"REDIS_PORT" env-default:"6379"`
	Password     string        `json:"password" env:"REDIS_PASSWORD"`
	DB           int           `json:"db" env:"REDIS_DB" env-default:"0"`
	PoolSize     int           `json:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns int           `json:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"5"`
	MaxRetries   int           `json:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `json:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `json:"read_timeout" env:"REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `json:"write_timeout" env:"REDIS_WRITE_TIMEOUT" env-default:"3s"`
}

type CacheConfig struct {
	TodoTTL time.Duration `json:"todo_ttl" env:"CACHE_TODO_TTL" env-default:"30m"`
	ListTTL time.Duration `json:"list_ttl" env:"CACHE_LIST_TTL" env-default:"10m"`
}

type WorkerConfig struct {
	Concurrency  int           `json:"concurrency" env:"WORKER_CONCURRENCY" env-default:"2"`
	PollInterval time.Duration `json:"poll_interval" env:"WORKER_POLL_INTERVAL" env-default:"5s"`
	Queues       []string      `json:"queues"`
}

type RateLimitConfig struct {
	Enabled         bool          `json:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"true"`
	RequestsPerMin  int           `json:"requests_per_minute" env:"RATE_LIMIT_RPM" env-default:"100"`
	BurstSize       int           `json:"burst_size" env:"RATE_LIMIT_BURST" env-default:"10"`
	CleanupInterval time.Duration `json:"cleanup_interval" env:"RATE_LIMIT_CLEANUP" env-default:"10m"`
}

type CORSConfig struct {
	AllowedOrigins OriginList `json:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

// OriginList parses a comma separated env value, trimming spaces and
// dropping blank entries.
type OriginList []string

func (o *OriginList) SetValue(s string) error {
	var out OriginList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fmt.Errorf("no origins in %q", s)
	}
	*o = out
	return nil
}

// LoadConfig reads the environment. A value that does not parse is an
// error rather than a silent fallback to the default.
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	config.Worker.Queues = []string{"cache_warmup", "retry_queue"}

	switch config.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Database.Driver == "postgres" && config.Database.Password == "" && config.Server.Environment == "production" {
		return nil, fmt.Errorf("database password is required in production")
	}

	return config, nil
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
