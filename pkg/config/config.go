package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "VENDTRACK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "VENDTRACK_APP_ENV"
	EnvDBDSN  = "VENDTRACK_DB_DSN"
	EnvDBHost = "VENDTRACK_DB_HOST"
	EnvDBUser = "VENDTRACK_DB_USER"
	EnvDBName = "VENDTRACK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Migrate       MigrateConfig
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
	Env          string `envconfig:"VENDTRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDTRACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VENDTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENDTRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VENDTRACK_DB_DSN"`

	LegacyHost     string `envconfig:"VENDTRACK_DB_HOST"`
	LegacyPort     int    `envconfig:"VENDTRACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENDTRACK_DB_USER"`
	LegacyPassword string `envconfig:"VENDTRACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENDTRACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENDTRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENDTRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDTRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDTRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDTRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDTRACK_REDIS_URL"`
	Address      string        `envconfig:"VENDTRACK_REDIS_ADDR"`
	Password     string        `envconfig:"VENDTRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDTRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDTRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDTRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDTRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDTRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDTRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VENDTRACK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VENDTRACK_JWT_ISSUER" default:"vendtrack"`
	ExpirationMinutes int    `envconfig:"VENDTRACK_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VENDTRACK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VENDTRACK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VENDTRACK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VENDTRACK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VENDTRACK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"VENDTRACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginNameLimit  int           `envconfig:"VENDTRACK_AUTH_RATE_LIMIT_LOGIN_NAME_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"VENDTRACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow    time.Duration `envconfig:"VENDTRACK_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupNameLimit int           `envconfig:"VENDTRACK_AUTH_RATE_LIMIT_SIGNUP_NAME_LIMIT" default:"3"`
	SignupIPLimit   int           `envconfig:"VENDTRACK_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type MigrateConfig struct {
	AutoRun bool   `envconfig:"VENDTRACK_AUTO_MIGRATE" default:"false"`
	Dir     string `envconfig:"VENDTRACK_MIGRATIONS_DIR" default:"pkg/migrate/migrations"`
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
