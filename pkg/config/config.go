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
	Core         CoreAPIConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Receipts     ReceiptsConfig
	Checkout     CheckoutConfig
	Cron         CronConfig
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
	Env          string `envconfig:"VITALFIT_APP_ENV" required:"true"`
	Port         string `envconfig:"VITALFIT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VITALFIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VITALFIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VITALFIT_DB_DSN"`
	Driver string `envconfig:"VITALFIT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"VITALFIT_DB_HOST"`
	Port     int    `envconfig:"VITALFIT_DB_PORT" default:"5432"`
	User     string `envconfig:"VITALFIT_DB_USER"`
	Password string `envconfig:"VITALFIT_DB_PASSWORD"`
	Name     string `envconfig:"VITALFIT_DB_NAME"`
	SSLMode  string `envconfig:"VITALFIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VITALFIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VITALFIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VITALFIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VITALFIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Driver == "sqlite" {
		if d.Name == "" {
			return fmt.Errorf("sqlite database name is required")
		}
		d.DSN = d.Name
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either VITALFIT_DB_DSN or host/user/name must be provided")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"VITALFIT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VITALFIT_REDIS_ADDR"`
	Password     string        `envconfig:"VITALFIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"VITALFIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VITALFIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VITALFIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VITALFIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VITALFIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VITALFIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"VITALFIT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"VITALFIT_JWT_ISSUER" required:"true"`
}

// CoreAPIConfig points at the VitalFit core billing/catalog backend.
type CoreAPIConfig struct {
	BaseURL       string        `envconfig:"VITALFIT_CORE_BASE_URL" required:"true"`
	APIKey        string        `envconfig:"VITALFIT_CORE_API_KEY" required:"true"`
	Timeout       time.Duration `envconfig:"VITALFIT_CORE_TIMEOUT" default:"15s"`
	DefaultLocale string        `envconfig:"VITALFIT_CORE_DEFAULT_LOCALE" default:"es"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VITALFIT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VITALFIT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VITALFIT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"VITALFIT_GCS_BUCKET"`
	PublicHost string `envconfig:"VITALFIT_GCS_PUBLIC_HOST" default:"https://storage.googleapis.com"`
}

type ReceiptsConfig struct {
	MaxSizeBytes int64  `envconfig:"VITALFIT_RECEIPT_MAX_SIZE_BYTES" default:"10485760"`
	KeyPrefix    string `envconfig:"VITALFIT_RECEIPT_KEY_PREFIX" default:"receipts"`
}

type CheckoutConfig struct {
	SessionTTL     time.Duration `envconfig:"VITALFIT_CHECKOUT_SESSION_TTL" default:"2h"`
	ServicePageLen int           `envconfig:"VITALFIT_CHECKOUT_SERVICE_PAGE_LEN" default:"12"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"VITALFIT_CRON_INTERVAL" default:"15m"`
	LockTTL  time.Duration `envconfig:"VITALFIT_CRON_LOCK_TTL" default:"14m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VITALFIT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VITALFIT_AUTO_MIGRATE" default:"false"`
}
