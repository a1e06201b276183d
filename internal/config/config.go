package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	StoreDriver      string        `mapstructure:"STORE_DRIVER"`
	MongoURI         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	MongoHost        string        `mapstructure:"MONGO_HOST"`
	DBUser           string        `mapstructure:"DB_USER"`
	DBPassword       string        `mapstructure:"DB_PASSWORD"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32         `mapstructure:"DB_MIN_CONNS"`
	AccessToken      string        `mapstructure:"ACCESS_TOKEN"`
	TokenTTL         time.Duration `mapstructure:"TOKEN_TTL"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	LockTTL          time.Duration `mapstructure:"LOCK_TTL"`
	StrictTreatments bool          `mapstructure:"STRICT_TREATMENTS"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	TokenRateRPS     float64       `mapstructure:"TOKEN_RATE_RPS"`
	TokenRateBurst   int           `mapstructure:"TOKEN_RATE_BURST"`
	StoreTimeout     time.Duration `mapstructure:"STORE_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENV", "STORE_DRIVER",
	"MONGO_URI", "MONGO_DATABASE", "MONGO_HOST", "DB_USER", "DB_PASSWORD",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"ACCESS_TOKEN", "TOKEN_TTL",
	"REDIS_URL", "LOCK_TTL", "STRICT_TREATMENTS",
	"CORS_ORIGINS", "TOKEN_RATE_RPS", "TOKEN_RATE_BURST", "STORE_TIMEOUT",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "production")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_DATABASE", "dentalPortal")
	v.SetDefault("MONGO_HOST", "cluster0.ptacj7j.mongodb.net")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("TOKEN_TTL", time.Hour)
	v.SetDefault("LOCK_TTL", 5*time.Second)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("TOKEN_RATE_RPS", 5)
	v.SetDefault("TOKEN_RATE_BURST", 10)
	v.SetDefault("STORE_TIMEOUT", 10*time.Second)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the selected store is reachable by configuration and
// that a token-signing secret is present.
func (c *Config) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("ACCESS_TOKEN is required")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" && (c.DBUser == "" || c.DBPassword == "") {
			return fmt.Errorf("MONGO_URI or DB_USER/DB_PASSWORD is required for the mongo store")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverPostgres, c.StoreDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// ResolvedMongoURI returns MONGO_URI when set, otherwise an Atlas SRV URI
// assembled from DB_USER, DB_PASSWORD and MONGO_HOST.
func (c *Config) ResolvedMongoURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword), c.MongoHost)
}
