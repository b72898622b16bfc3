package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cache        CacheConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"FRUITEE_APP_ENV" required:"true"`
	Port         string `envconfig:"FRUITEE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRUITEE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRUITEE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRUITEE_DB_DSN"`
	Driver string `envconfig:"FRUITEE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRUITEE_DB_HOST"`
	LegacyPort     int    `envconfig:"FRUITEE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRUITEE_DB_USER"`
	LegacyPassword string `envconfig:"FRUITEE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRUITEE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRUITEE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRUITEE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRUITEE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRUITEE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRUITEE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRUITEE_REDIS_URL"`
	Address      string        `envconfig:"FRUITEE_REDIS_ADDR"`
	Password     string        `envconfig:"FRUITEE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRUITEE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRUITEE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRUITEE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRUITEE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRUITEE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRUITEE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured at all; the listing
// cache is optional and the API degrades to plain DB reads without it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"FRUITEE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FRUITEE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FRUITEE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CacheConfig struct {
	OpenGroupOrdersTTL time.Duration `envconfig:"FRUITEE_CACHE_OPEN_GROUP_ORDERS_TTL" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FRUITEE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
