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
	OTP           OTPConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
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
	Env          string `envconfig:"BLUSHMART_APP_ENV" required:"true"`
	Port         string `envconfig:"BLUSHMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BLUSHMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLUSHMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BLUSHMART_DB_DSN"`
	Driver string `envconfig:"BLUSHMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BLUSHMART_DB_HOST"`
	LegacyPort     int    `envconfig:"BLUSHMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BLUSHMART_DB_USER"`
	LegacyPassword string `envconfig:"BLUSHMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"BLUSHMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"BLUSHMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLUSHMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLUSHMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLUSHMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLUSHMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BLUSHMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BLUSHMART_REDIS_ADDR"`
	Password     string        `envconfig:"BLUSHMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLUSHMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLUSHMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLUSHMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLUSHMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLUSHMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLUSHMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BLUSHMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BLUSHMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BLUSHMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BLUSHMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BLUSHMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BLUSHMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BLUSHMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BLUSHMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BLUSHMART_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	TTL        time.Duration `envconfig:"BLUSHMART_OTP_TTL" default:"5m"`
	Digits     int           `envconfig:"BLUSHMART_OTP_DIGITS" default:"6"`
	EchoInDev  bool          `envconfig:"BLUSHMART_OTP_ECHO_IN_DEV" default:"true"`
	MaxAttempt int           `envconfig:"BLUSHMART_OTP_MAX_ATTEMPTS" default:"5"`
}

type AuthRateLimitConfig struct {
	OTPWindow     time.Duration `envconfig:"BLUSHMART_AUTH_RATE_LIMIT_OTP_WINDOW" default:"1m"`
	OTPPhoneLimit int           `envconfig:"BLUSHMART_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"3"`
	OTPIPLimit    int           `envconfig:"BLUSHMART_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"10"`
}

type CartConfig struct {
	QuantityCacheTTL time.Duration `envconfig:"BLUSHMART_CART_QTY_CACHE_TTL" default:"24h"`
	StaleAfter       time.Duration `envconfig:"BLUSHMART_CART_STALE_AFTER" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BLUSHMART_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"BLUSHMART_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"BLUSHMART_CRON_LOCK_TTL" default:"1h"`
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
