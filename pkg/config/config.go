package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Admin        AdminConfig
	Password     PasswordConfig
	Order        OrderConfig
	Bucket       BucketConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AMARA_APP_ENV" required:"true"`
	Port         string `envconfig:"AMARA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AMARA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AMARA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"AMARA_DB_DSN"`
	SQLitePath string `envconfig:"AMARA_DB_SQLITE_PATH" default:"amara.db"`

	MaxOpenConns    int           `envconfig:"AMARA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AMARA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AMARA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AMARA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate(useSQLite bool) error {
	if useSQLite {
		if db.SQLitePath == "" {
			return fmt.Errorf("%s is required when sqlite is enabled", EnvDBSQLitePath)
		}
		return nil
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"AMARA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AMARA_REDIS_ADDR"`
	Password     string        `envconfig:"AMARA_REDIS_PASSWORD"`
	DB           int           `envconfig:"AMARA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AMARA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AMARA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AMARA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AMARA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AMARA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AMARA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AMARA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AMARA_JWT_EXPIRATION_MINUTES" default:"120"`
}

// AccessTokenTTL returns the configured token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// AdminConfig identifies the single administrator account. The password
// is stored as an Argon2id hash produced by pkg/security.
type AdminConfig struct {
	Email        string `envconfig:"AMARA_ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"AMARA_ADMIN_PASSWORD_HASH" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AMARA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AMARA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AMARA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AMARA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AMARA_ARGON_KEY_LEN" default:"32"`
}

// OrderConfig describes the outbound messaging hand-off.
type OrderConfig struct {
	MessagingBase  string `envconfig:"AMARA_ORDER_MESSAGING_BASE" default:"https://wa.me"`
	WhatsAppNumber string `envconfig:"AMARA_ORDER_WHATSAPP_NUMBER" required:"true"`
}

// BucketConfig points at the object bucket holding product images.
type BucketConfig struct {
	Name            string `envconfig:"AMARA_BUCKET_NAME" required:"true"`
	CredentialsJSON string `envconfig:"AMARA_BUCKET_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"AMARA_BUCKET_CREDENTIALS_FILE"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AMARA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AMARA_AUTO_MIGRATE" default:"false"`
}
