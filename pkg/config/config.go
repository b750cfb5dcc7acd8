package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "brewhub"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BREWHUB_DB_DSN"
	EnvDBHost = "BREWHUB_DB_HOST"
	EnvDBUser = "BREWHUB_DB_USER"
	EnvDBName = "BREWHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
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
	Env          string   `envconfig:"BREWHUB_APP_ENV" required:"true"`
	Port         string   `envconfig:"BREWHUB_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"BREWHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"BREWHUB_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"BREWHUB_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BREWHUB_DB_DSN"`

	LegacyHost     string `envconfig:"BREWHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"BREWHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BREWHUB_DB_USER"`
	LegacyPassword string `envconfig:"BREWHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"BREWHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"BREWHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BREWHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BREWHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BREWHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BREWHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BREWHUB_REDIS_URL"`
	Address      string        `envconfig:"BREWHUB_REDIS_ADDR"`
	Password     string        `envconfig:"BREWHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"BREWHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BREWHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BREWHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BREWHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BREWHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BREWHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BREWHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BREWHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BREWHUB_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"BREWHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BREWHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BREWHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BREWHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BREWHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BREWHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BREWHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BREWHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BREWHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BREWHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BREWHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BREWHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BREWHUB_AUTO_MIGRATE" default:"false"`
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
