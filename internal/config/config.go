package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CLINICS_DATABASE_HOST or
// CLINICS_DATABASE_MAX_OPEN_CONNS. Unprefixed variables are never read.
const EnvPrefix = "clinics"

// Store backends
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongodb"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server" split_words:"true"`
	Store     StoreConfig     `mapstructure:"store" split_words:"true"`
	Database  DatabaseConfig  `mapstructure:"database" split_words:"true"`
	Mongo     MongoConfig     `mapstructure:"mongo" split_words:"true"`
	Redis     RedisConfig     `mapstructure:"redis" split_words:"true"`
	API       APIConfig       `mapstructure:"api" split_words:"true"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" split_words:"true"`
	Security  SecurityConfig  `mapstructure:"security" split_words:"true"`
	Log       LogConfig       `mapstructure:"log" split_words:"true"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" split_words:"true"`
	// Zero disables the corresponding http.Server timeout.
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" split_words:"true"`
	Port     int    `mapstructure:"port" split_words:"true"`
	User     string `mapstructure:"user" split_words:"true"`
	Password string `mapstructure:"password" split_words:"true"`
	Name     string `mapstructure:"name" split_words:"true"`
	SSLMode  string `mapstructure:"sslmode" split_words:"true"`
	// Path is the database file for the sqlite backend.
	Path         string `mapstructure:"path" split_words:"true"`
	MaxOpenConns int    `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" split_words:"true"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri" split_words:"true"`
	Database       string        `mapstructure:"database" split_words:"true"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" split_words:"true"`
}

// RedisConfig enables event publishing and the shared rate limiter when URL is set.
type RedisConfig struct {
	URL          string        `mapstructure:"url" split_words:"true"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int           `mapstructure:"min_idle_conns" split_words:"true"`
}

type APIConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" split_words:"true"`
	MaxPageSize     int `mapstructure:"max_page_size" split_words:"true"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled" split_words:"true"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" split_words:"true"`
	Burst             int           `mapstructure:"burst" split_words:"true"`
	Window            time.Duration `mapstructure:"window" split_words:"true"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
	AllowedMethods []string `mapstructure:"allowed_methods" split_words:"true"`
	AllowedHeaders []string `mapstructure:"allowed_headers" split_words:"true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" split_words:"true"`
	Format string `mapstructure:"format" split_words:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 0)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("store.backend", BackendPostgres)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "clinics")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "data/clinics.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017/")
	v.SetDefault("mongo.database", "cmd_telehealth")
	v.SetDefault("mongo.connect_timeout", 10*time.Second)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 0)

	v.SetDefault("api.default_page_size", 10)
	v.SetDefault("api.max_page_size", 100)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20.0)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("rate_limit.window", time.Second)

	v.SetDefault("security.allowed_origins", []string{"*"})
	v.SetDefault("security.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.allowed_headers", []string{"Origin", "Content-Type", "Accept", "X-Request-ID"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// LoadConfig reads the yaml file at path, or config.yaml from . and ./config
// when path is empty, then applies CLINICS_* environment overrides. A missing
// default file is not an error; a missing explicit path is.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendPostgres, BackendSQLite, BackendMongo:
	default:
		return fmt.Errorf("invalid config: unknown store backend %q", c.Store.Backend)
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("invalid config: api.default_page_size must be positive")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("invalid config: api.max_page_size must be at least api.default_page_size")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Window < time.Second || c.RateLimit.Window%time.Second != 0) {
		return fmt.Errorf("invalid config: rate_limit.window must be a whole number of seconds")
	}
	if c.Store.Backend == BackendSQLite && c.Database.Path == "" {
		return fmt.Errorf("invalid config: database.path is required for the sqlite backend")
	}
	return nil
}
