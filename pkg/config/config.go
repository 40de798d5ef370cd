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
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	EuPago       EuPagoConfig
	Admin        AdminConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"JOCRIL_APP_ENV" required:"true"`
	Port         string `envconfig:"JOCRIL_APP_PORT" required:"true"`
	SiteURL      string `envconfig:"JOCRIL_SITE_URL" default:"https://jocril-store.vercel.app"`
	LogLevel     string `envconfig:"JOCRIL_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"JOCRIL_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"JOCRIL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"JOCRIL_DB_DSN"`
	Driver string `envconfig:"JOCRIL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JOCRIL_DB_HOST"`
	LegacyPort     int    `envconfig:"JOCRIL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JOCRIL_DB_USER"`
	LegacyPassword string `envconfig:"JOCRIL_DB_PASSWORD"`
	LegacyName     string `envconfig:"JOCRIL_DB_NAME"`
	LegacySSLMode  string `envconfig:"JOCRIL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JOCRIL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JOCRIL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JOCRIL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JOCRIL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JOCRIL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"JOCRIL_REDIS_ADDR"`
	Password     string        `envconfig:"JOCRIL_REDIS_PASSWORD"`
	DB           int           `envconfig:"JOCRIL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JOCRIL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JOCRIL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JOCRIL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JOCRIL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JOCRIL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"JOCRIL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"JOCRIL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"JOCRIL_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"JOCRIL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"JOCRIL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"JOCRIL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"JOCRIL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"JOCRIL_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	PublicWindow time.Duration `envconfig:"JOCRIL_RATE_LIMIT_PUBLIC_WINDOW" default:"1m"`
	PublicLimit  int           `envconfig:"JOCRIL_RATE_LIMIT_PUBLIC_LIMIT" default:"30"`
	AdminWindow  time.Duration `envconfig:"JOCRIL_RATE_LIMIT_ADMIN_WINDOW" default:"1m"`
	AdminLimit   int           `envconfig:"JOCRIL_RATE_LIMIT_ADMIN_LIMIT" default:"100"`
	LoginWindow  time.Duration `envconfig:"JOCRIL_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"JOCRIL_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginEmail   int           `envconfig:"JOCRIL_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
}

type EuPagoConfig struct {
	APIKey         string        `envconfig:"JOCRIL_EUPAGO_API_KEY"`
	BaseURL        string        `envconfig:"JOCRIL_EUPAGO_BASE_URL" default:"https://clientes.eupago.pt"`
	RequestTimeout time.Duration `envconfig:"JOCRIL_EUPAGO_REQUEST_TIMEOUT" default:"15s"`
	DeadlineHours  int           `envconfig:"JOCRIL_EUPAGO_DEADLINE_HOURS" default:"24"`
}

// WebhookURL builds the callback EuPago invokes after a payment event.
func (e EuPagoConfig) WebhookURL(siteURL string) string {
	return strings.TrimRight(siteURL, "/") + "/api/webhooks/eupago"
}

type AdminConfig struct {
	// Emails is a comma-separated allowlist granting admin access
	// ahead of the database role check.
	Emails string `envconfig:"JOCRIL_ADMIN_EMAILS"`
}

// EmailAllowlist returns the normalized admin email set.
func (a AdminConfig) EmailAllowlist() map[string]struct{} {
	out := map[string]struct{}{}
	for _, raw := range strings.Split(a.Emails, ",") {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email != "" {
			out[email] = struct{}{}
		}
	}
	return out
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"JOCRIL_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"JOCRIL_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"JOCRIL_PUBSUB_ORDERS_TOPIC" default:"jocril-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"JOCRIL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"JOCRIL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"JOCRIL_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
