package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Capacity      CapacityConfig
	Uploads       UploadsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NAILSBYABRI_APP_ENV" required:"true"`
	Port         string `envconfig:"NAILSBYABRI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NAILSBYABRI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NAILSBYABRI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NAILSBYABRI_DB_DSN"`
	Driver string `envconfig:"NAILSBYABRI_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"NAILSBYABRI_DB_HOST"`
	Port     int    `envconfig:"NAILSBYABRI_DB_PORT" default:"5432"`
	User     string `envconfig:"NAILSBYABRI_DB_USER"`
	Password string `envconfig:"NAILSBYABRI_DB_PASSWORD"`
	Name     string `envconfig:"NAILSBYABRI_DB_NAME"`
	SSLMode  string `envconfig:"NAILSBYABRI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NAILSBYABRI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NAILSBYABRI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NAILSBYABRI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NAILSBYABRI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db config: either NAILSBYABRI_DB_DSN or host/user/name must be set")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"NAILSBYABRI_REDIS_URL" required:"true"`
	Password     string        `envconfig:"NAILSBYABRI_REDIS_PASSWORD"`
	DB           int           `envconfig:"NAILSBYABRI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NAILSBYABRI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NAILSBYABRI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NAILSBYABRI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NAILSBYABRI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NAILSBYABRI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ParseURL validates the configured redis URL.
func (r RedisConfig) ParseURL() (*url.URL, error) {
	parsed, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return parsed, nil
}

type JWTConfig struct {
	Secret                 string `envconfig:"NAILSBYABRI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"NAILSBYABRI_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"NAILSBYABRI_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"NAILSBYABRI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"NAILSBYABRI_AUTH_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"NAILSBYABRI_AUTH_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"NAILSBYABRI_AUTH_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"NAILSBYABRI_AUTH_REGISTER_WINDOW" default:"15m"`
	RegisterIPLimit    int           `envconfig:"NAILSBYABRI_AUTH_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"NAILSBYABRI_AUTH_REGISTER_EMAIL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NAILSBYABRI_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"NAILSBYABRI_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"NAILSBYABRI_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"NAILSBYABRI_STRIPE_ENV" default:"test"`
}

// Environment reports the configured stripe environment.
func (s StripeConfig) Environment() string {
	return s.Env
}

type CapacityConfig struct {
	WeeklySetLimit    int           `envconfig:"NAILSBYABRI_CAPACITY_WEEKLY_SET_LIMIT" default:"12"`
	ReconcileInterval time.Duration `envconfig:"NAILSBYABRI_CAPACITY_RECONCILE_INTERVAL" default:"1h"`
}

type UploadsConfig struct {
	MaxBytes int `envconfig:"NAILSBYABRI_UPLOAD_MAX_BYTES" default:"5242880"`
}
