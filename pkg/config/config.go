package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the platform.
const EnvPrefix = "FUNDHUB"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Canonical env var names, used by tests and error messages.
const (
	EnvAppEnv                 = "FUNDHUB_APP_ENV"
	EnvPort                   = "FUNDHUB_APP_PORT"
	EnvDBDSN                  = "FUNDHUB_DB_DSN"
	EnvDBHost                 = "FUNDHUB_DB_HOST"
	EnvDBUser                 = "FUNDHUB_DB_USER"
	EnvDBName                 = "FUNDHUB_DB_NAME"
	EnvRedisURL               = "FUNDHUB_REDIS_URL"
	EnvJWTSecret              = "FUNDHUB_JWT_SECRET"
	EnvJWTIssuer              = "FUNDHUB_JWT_ISSUER"
	EnvJWTExpMins             = "FUNDHUB_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FUNDHUB_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
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
	Env          string `envconfig:"FUNDHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"FUNDHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FUNDHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUNDHUB_LOG_WARN_STACK" default:"false"`
	PublicURL    string `envconfig:"FUNDHUB_PUBLIC_APP_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FUNDHUB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FUNDHUB_DB_DSN"`
	Driver string `envconfig:"FUNDHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FUNDHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"FUNDHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FUNDHUB_DB_USER"`
	LegacyPassword string `envconfig:"FUNDHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"FUNDHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"FUNDHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUNDHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUNDHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUNDHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUNDHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FUNDHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FUNDHUB_REDIS_ADDR"`
	Password     string        `envconfig:"FUNDHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUNDHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUNDHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUNDHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUNDHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUNDHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUNDHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FUNDHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FUNDHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FUNDHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FUNDHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FUNDHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FUNDHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FUNDHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FUNDHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FUNDHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FUNDHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FUNDHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FUNDHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FUNDHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FUNDHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FUNDHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FUNDHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FUNDHUB_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FUNDHUB_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"FUNDHUB_CRON_LOCK_TTL" default:"55m"`
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
