package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the envconfig prefix shared by every binary.
	EnvPrefix = "qurandist"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "QURANDIST_DB_DSN"
	EnvDBHost = "QURANDIST_DB_HOST"
	EnvDBUser = "QURANDIST_DB_USER"
	EnvDBName = "QURANDIST_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Orders        OrdersConfig
	Settings      SettingsConfig
	Notifier      NotifierConfig
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
	Env          string `envconfig:"QURANDIST_APP_ENV" required:"true"`
	Port         string `envconfig:"QURANDIST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QURANDIST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QURANDIST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QURANDIST_DB_DSN"`
	Driver string `envconfig:"QURANDIST_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"QURANDIST_DB_HOST"`
	Port     int    `envconfig:"QURANDIST_DB_PORT" default:"5432"`
	User     string `envconfig:"QURANDIST_DB_USER"`
	Password string `envconfig:"QURANDIST_DB_PASSWORD"`
	Name     string `envconfig:"QURANDIST_DB_NAME"`
	SSLMode  string `envconfig:"QURANDIST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QURANDIST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QURANDIST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QURANDIST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QURANDIST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QURANDIST_REDIS_URL"`
	Address      string        `envconfig:"QURANDIST_REDIS_ADDR"`
	Password     string        `envconfig:"QURANDIST_REDIS_PASSWORD"`
	DB           int           `envconfig:"QURANDIST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QURANDIST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QURANDIST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QURANDIST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QURANDIST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QURANDIST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QURANDIST_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QURANDIST_JWT_ISSUER" default:"qurandist"`
	ExpirationMinutes int    `envconfig:"QURANDIST_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"QURANDIST_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"QURANDIST_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"QURANDIST_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"QURANDIST_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"QURANDIST_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"QURANDIST_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"QURANDIST_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"QURANDIST_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"QURANDIST_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"QURANDIST_AUTO_MIGRATE" default:"false"`
}

// OrdersConfig carries intake defaults applied when the request omits them.
type OrdersConfig struct {
	DefaultTranslation string `envconfig:"QURANDIST_DEFAULT_TRANSLATION" default:"english"`
	DefaultCountryCode string `envconfig:"QURANDIST_DEFAULT_COUNTRY_CODE" default:"+92"`
}

// SettingsConfig points at the YAML file backing runtime notification settings.
type SettingsConfig struct {
	Path string `envconfig:"QURANDIST_SETTINGS_PATH" default:"config/notification_settings.yml"`
}

type NotifierConfig struct {
	BatchSize      int           `envconfig:"QURANDIST_NOTIFIER_BATCH_SIZE" default:"50"`
	PollInterval   time.Duration `envconfig:"QURANDIST_NOTIFIER_POLL_INTERVAL" default:"500ms"`
	MaxAttempts    int           `envconfig:"QURANDIST_NOTIFIER_MAX_ATTEMPTS" default:"10"`
	RequestTimeout time.Duration `envconfig:"QURANDIST_NOTIFIER_REQUEST_TIMEOUT" default:"15s"`
}

type CronConfig struct {
	Interval      time.Duration `envconfig:"QURANDIST_CRON_INTERVAL" default:"24h"`
	LockKey       string        `envconfig:"QURANDIST_CRON_LOCK_KEY" default:"cron-worker"`
	LockTTL       time.Duration `envconfig:"QURANDIST_CRON_LOCK_TTL" default:"25h"`
	RetentionDays int           `envconfig:"QURANDIST_CRON_ACTIVITY_RETENTION_DAYS" default:"90"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
