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

	EnvDBDSN  = "AUDIOHAUS_DB_DSN"
	EnvDBHost = "AUDIOHAUS_DB_HOST"
	EnvDBUser = "AUDIOHAUS_DB_USER"
	EnvDBName = "AUDIOHAUS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Pricing      PricingConfig
	Checkout     CheckoutConfig
	Cart         CartConfig
	Square       SquareConfig
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
	Env          string `envconfig:"AUDIOHAUS_APP_ENV" required:"true"`
	Port         string `envconfig:"AUDIOHAUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AUDIOHAUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AUDIOHAUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AUDIOHAUS_DB_DSN"`
	Driver string `envconfig:"AUDIOHAUS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUDIOHAUS_DB_HOST"`
	LegacyPort     int    `envconfig:"AUDIOHAUS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUDIOHAUS_DB_USER"`
	LegacyPassword string `envconfig:"AUDIOHAUS_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUDIOHAUS_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUDIOHAUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUDIOHAUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUDIOHAUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUDIOHAUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUDIOHAUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUDIOHAUS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUDIOHAUS_REDIS_ADDR"`
	Password     string        `envconfig:"AUDIOHAUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUDIOHAUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUDIOHAUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUDIOHAUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUDIOHAUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUDIOHAUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUDIOHAUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AUDIOHAUS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AUDIOHAUS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AUDIOHAUS_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AUDIOHAUS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AUDIOHAUS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AUDIOHAUS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AUDIOHAUS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AUDIOHAUS_ARGON_KEY_LEN" default:"32"`
}

// PricingConfig holds the single source of truth for the checkout pricing
// policy. Call sites must not duplicate these literals.
type PricingConfig struct {
	FreeShippingThresholdCents int64 `envconfig:"AUDIOHAUS_FREE_SHIPPING_THRESHOLD_CENTS" default:"50000"`
	FlatShippingFeeCents       int64 `envconfig:"AUDIOHAUS_FLAT_SHIPPING_FEE_CENTS" default:"4900"`
	TaxRateBasisPoints         int64 `envconfig:"AUDIOHAUS_TAX_RATE_BASIS_POINTS" default:"0"`
}

type CheckoutConfig struct {
	OrderNumberPrefix      string `envconfig:"AUDIOHAUS_ORDER_NUMBER_PREFIX" default:"AH"`
	OrderNumberMaxAttempts int    `envconfig:"AUDIOHAUS_ORDER_NUMBER_MAX_ATTEMPTS" default:"5"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"AUDIOHAUS_CART_TTL" default:"720h"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"AUDIOHAUS_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"AUDIOHAUS_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"AUDIOHAUS_SQUARE_LOCATION_ID"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AUDIOHAUS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AUDIOHAUS_AUTO_MIGRATE" default:"false"`
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
