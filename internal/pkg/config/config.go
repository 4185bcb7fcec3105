package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is the configuration of the portal server.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AllowedOrigins lists the browser origins allowed to call the portal.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:3000"`
	// SessionIdle unmounts a browser workspace after this much inactivity.
	SessionIdle time.Duration `env:"SESSION_IDLE, default=30m"`

	Backend BackendConfig
	Cookie  CookieConfig
	Storage StorageConfig
	Login   LoginConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	URL string `env:"BACKEND_URL, default=http://localhost:8000/api/v1"`
	// Timeout of zero leaves backend calls unbounded.
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=0s"`
}

type CookieConfig struct {
	Name   string        `env:"COOKIE_NAME,    default=work21_sid"`
	Secret string        `env:"COOKIE_SECRET"`
	Secure bool          `env:"COOKIE_SECURE,  default=false"`
	MaxAge time.Duration `env:"COOKIE_MAX_AGE, default=720h"`
}

type StorageConfig struct {
	// Driver is one of memory, redis or mongo.
	Driver string        `env:"STORAGE_DRIVER, default=memory"`
	TTL    time.Duration `env:"STORAGE_TTL,    default=720h"`
}

type LoginConfig struct {
	// Rate is the sustained login/register attempts per second per client IP.
	Rate  float64 `env:"LOGIN_RATE,  default=0.2"`
	Burst int     `env:"LOGIN_BURST, default=5"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=work21_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis, DriverMongo:
	default:
		return fmt.Errorf("STORAGE_DRIVER %q: want memory, redis or mongo", c.Storage.Driver)
	}
	if c.Backend.URL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.IsProduction() && len(c.Cookie.Secret) < 32 {
		return errors.New("COOKIE_SECRET must hold at least 32 bytes in production")
	}
	if c.Login.Rate <= 0 || c.Login.Burst <= 0 {
		return errors.New("LOGIN_RATE and LOGIN_BURST must be positive")
	}
	return nil
}

// Load reads configuration from a .env file, when present, and the
// environment. It panics on invalid configuration.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves the portal configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CLIConfig is the configuration of the work21 command line client.
type CLIConfig struct {
	BackendURL string        `env:"WORK21_BACKEND_URL, default=http://localhost:8000/api/v1"`
	Timeout    time.Duration `env:"WORK21_TIMEOUT,     default=30s"`
	LogLevel   string        `env:"WORK21_LOG_LEVEL,   default=warn"`
	// Home holds storage.json. Defaults to ~/.work21.
	Home       string `env:"WORK21_HOME"`
	Passphrase string `env:"WORK21_PASSPHRASE"`
}

// StoragePath is the file holding the CLI token and theme.
func (c *CLIConfig) StoragePath() string {
	return filepath.Join(c.Home, "storage.json")
}

// LoadCLI resolves the CLI configuration from l, filling Home from the user
// home directory when unset.
func LoadCLI(ctx context.Context, l envconfig.Lookuper) (*CLIConfig, error) {
	var cfg CLIConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.Home = filepath.Join(home, ".work21")
	}
	return &cfg, nil
}
