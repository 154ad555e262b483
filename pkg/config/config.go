package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SHOPCART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Persistence backend identifiers for the cart blob store.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendDatabase = "database"
)

type Config struct {
	App          AppConfig
	Persistence  PersistenceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	OrderAPI     OrderAPIConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Persistence.validate(); err != nil {
		return nil, err
	}
	if cfg.Persistence.Backend == BackendDatabase && !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPCART_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type PersistenceConfig struct {
	Backend string `envconfig:"SHOPCART_PERSISTENCE_BACKEND" default:"memory"`
	FileDir string `envconfig:"SHOPCART_PERSISTENCE_FILE_DIR" default:"./data/carts"`
}

func (p PersistenceConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(p.Backend)) {
	case BackendMemory, BackendFile, BackendRedis, BackendDatabase:
		return nil
	}
	return fmt.Errorf("unknown persistence backend %q", p.Backend)
}

// Normalized returns the lowercased backend identifier.
func (p PersistenceConfig) Normalized() string {
	return strings.ToLower(strings.TrimSpace(p.Backend))
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPCART_DB_DSN"`
	Driver string `envconfig:"SHOPCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPCART_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPCART_DB_USER"`
	LegacyPassword string `envconfig:"SHOPCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPCART_REDIS_URL"`
	Address      string        `envconfig:"SHOPCART_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPCART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPCART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPCART_JWT_EXPIRATION_MINUTES" default:"43200"`
}

type OrderAPIConfig struct {
	BaseURL string        `envconfig:"SHOPCART_ORDER_API_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"SHOPCART_ORDER_API_KEY"`
	Timeout time.Duration `envconfig:"SHOPCART_ORDER_API_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPCART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"SHOPCART_DB_HOST": db.LegacyHost,
		"SHOPCART_DB_USER": db.LegacyUser,
		"SHOPCART_DB_NAME": db.LegacyName,
	}
	for _, env := range []string{"SHOPCART_DB_HOST", "SHOPCART_DB_USER", "SHOPCART_DB_NAME"} {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either SHOPCART_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
