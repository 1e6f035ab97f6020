// Package config loads the service configuration and builds the logger.
package config

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultAddr        = "0.0.0.0:8000"
	defaultDatabaseURL = "sqlite://food_delivery.db"

	// DefaultJWTSecret is only meant for local development.
	DefaultJWTSecret = "food_delivery_super_secret_2024"
)

// Config holds the complete application configuration, loadable from
// environment variables (FOOD_ prefix) or YAML config files.
type Config struct {
	Addr         string        `default:"0.0.0.0:8000" usage:"API server listen address"`
	DatabaseURL  string        `usage:"sqlite://path or mongodb:// URL (FOOD_DATABASE_URL or DATABASE_URL)"`
	DatabaseName string        `usage:"MongoDB database name (FOOD_DATABASE_NAME or DATABASE_NAME)"`
	JWTSecret    string        `env:"JWT_SECRET" yaml:"jwt_secret" default:"food_delivery_super_secret_2024" usage:"HMAC secret for session tokens"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" yaml:"token_ttl" default:"24h" usage:"Session token lifetime"`
	AdminAuth    bool          `default:"false" usage:"Require an admin session on /admin routes"`
	LogLevel     string        `default:"info" usage:"debug, info, warn or error"`
	GinMode      string        `default:"release" usage:"gin mode: debug, release or test"`
	Redis        RedisConfig
	Graceful     GracefulConfig
}

// RedisConfig enables the catalog cache when Addr is set.
type RedisConfig struct {
	Addr     string        `usage:"Redis address (host:port); empty disables caching"`
	Password string        `usage:"Redis password"`
	DB       int           `default:"0" usage:"Redis database number"`
	CacheTTL time.Duration `env:"CACHE_TTL" yaml:"cache_ttl" default:"5m" usage:"Catalog cache entry lifetime"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	return load("config.yaml", "/etc/food-delivery/config.yaml")
}

func load(files ...string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:        "FOOD",
		SkipFlags:        true,
		AllowUnknownEnvs: true,
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	return &cfg, nil
}

// applyPlatformDefaults maps the unprefixed DATABASE_URL, DATABASE_NAME and
// PORT variables that hosting platforms provide.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = defaultDatabaseURL
	}
	if c.DatabaseName == "" {
		c.DatabaseName = os.Getenv("DATABASE_NAME")
	}
	if c.DatabaseName == "" {
		c.DatabaseName = "food_delivery"
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

// NewLogger builds a JSON production logger at the given level, or a
// console development logger for "debug".
func NewLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
