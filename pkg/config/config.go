package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "REALTY_DB_DSN"
	EnvDBHost = "REALTY_DB_HOST"
	EnvDBUser = "REALTY_DB_USER"
	EnvDBName = "REALTY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	SMTP          SMTPConfig
	Cache         CacheConfig
	Booking       BookingConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"REALTY_APP_ENV" required:"true"`
	Port         string `envconfig:"REALTY_APP_PORT" required:"true"`
	FrontendURL  string `envconfig:"REALTY_FRONTEND_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"REALTY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REALTY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"REALTY_DB_DSN"`
	Driver string `envconfig:"REALTY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REALTY_DB_HOST"`
	LegacyPort     int    `envconfig:"REALTY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REALTY_DB_USER"`
	LegacyPassword string `envconfig:"REALTY_DB_PASSWORD"`
	LegacyName     string `envconfig:"REALTY_DB_NAME"`
	LegacySSLMode  string `envconfig:"REALTY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REALTY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REALTY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REALTY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REALTY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REALTY_REDIS_URL"`
	Address      string        `envconfig:"REALTY_REDIS_ADDR"`
	Password     string        `envconfig:"REALTY_REDIS_PASSWORD"`
	DB           int           `envconfig:"REALTY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REALTY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REALTY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REALTY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REALTY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REALTY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"REALTY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"REALTY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"REALTY_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REALTY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REALTY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REALTY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REALTY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REALTY_ARGON_KEY_LEN" default:"32"`
}

type SMTPConfig struct {
	Host string `envconfig:"REALTY_SMTP_HOST" default:"localhost"`
	Port string `envconfig:"REALTY_SMTP_PORT" default:"1025"`
	From string `envconfig:"REALTY_SMTP_FROM" default:"no-reply@casalia.local"`
}

type CacheConfig struct {
	PropertyListTTL time.Duration `envconfig:"REALTY_CACHE_PROPERTY_LIST_TTL" default:"30s"`
}

// BookingConfig tunes the per-agent serialization lease taken around the
// conflict-check-then-write pair.
type BookingConfig struct {
	LockTTL       time.Duration `envconfig:"REALTY_BOOKING_LOCK_TTL" default:"5s"`
	LockRetry     time.Duration `envconfig:"REALTY_BOOKING_LOCK_RETRY" default:"25ms"`
	LockWaitLimit time.Duration `envconfig:"REALTY_BOOKING_LOCK_WAIT_LIMIT" default:"2s"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"REALTY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"REALTY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"REALTY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"REALTY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"REALTY_AUTO_MIGRATE" default:"false"`
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
