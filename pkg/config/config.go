package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Feed          FeedConfig
	Orders        OrdersConfig
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
	Env          string `envconfig:"FOODPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOODPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODPOS_DB_DSN"`
	Driver string `envconfig:"FOODPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODPOS_DB_USER"`
	LegacyPassword string `envconfig:"FOODPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FOODPOS_REDIS_ADDR"`
	Password     string        `envconfig:"FOODPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FOODPOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FOODPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FOODPOS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FOODPOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOODPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOODPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOODPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOODPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOODPOS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow    time.Duration `envconfig:"FOODPOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit int           `envconfig:"FOODPOS_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit   int           `envconfig:"FOODPOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FOODPOS_AUTO_MIGRATE" default:"false"`
}

// FeedConfig configures the Redis channel the dashboard order feed uses.
type FeedConfig struct {
	OrdersChannel string `envconfig:"FOODPOS_FEED_ORDERS_CHANNEL" default:"foodpos:orders:feed"`
}

type OrdersConfig struct {
	NumberPrefix         string `envconfig:"FOODPOS_ORDER_NUMBER_PREFIX" default:"ORD"`
	DeliveryNumberPrefix string `envconfig:"FOODPOS_DELIVERY_NUMBER_PREFIX" default:"DEL"`
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
