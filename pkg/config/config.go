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
	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Catalog      CatalogConfig
	Export       ExportConfig
	FeatureFlags FeatureFlagsConfig
	Metrics      MetricsConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VAPEBILL_APP_ENV" required:"true"`
	Port         string `envconfig:"VAPEBILL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VAPEBILL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VAPEBILL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"VAPEBILL_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"VAPEBILL_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"VAPEBILL_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"VAPEBILL_HTTP_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type DBConfig struct {
	DSN    string `envconfig:"VAPEBILL_DB_DSN"`
	Driver string `envconfig:"VAPEBILL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VAPEBILL_DB_HOST"`
	LegacyPort     int    `envconfig:"VAPEBILL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VAPEBILL_DB_USER"`
	LegacyPassword string `envconfig:"VAPEBILL_DB_PASSWORD"`
	LegacyName     string `envconfig:"VAPEBILL_DB_NAME"`
	LegacySSLMode  string `envconfig:"VAPEBILL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VAPEBILL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VAPEBILL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VAPEBILL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VAPEBILL_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"VAPEBILL_DB_SLOW_QUERY" default:"200ms"`
}

// IsSQLite reports whether the history store runs on the embedded SQLite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"VAPEBILL_REDIS_URL"`
	Address      string        `envconfig:"VAPEBILL_REDIS_ADDR"`
	Password     string        `envconfig:"VAPEBILL_REDIS_PASSWORD"`
	DB           int           `envconfig:"VAPEBILL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VAPEBILL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VAPEBILL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VAPEBILL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VAPEBILL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VAPEBILL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type SessionConfig struct {
	Store string        `envconfig:"VAPEBILL_SESSION_STORE" default:"memory"`
	TTL   time.Duration `envconfig:"VAPEBILL_SESSION_TTL" default:"12h"`
}

// UsesRedis reports whether billing sessions are kept in Redis.
func (s SessionConfig) UsesRedis() bool {
	return strings.EqualFold(s.Store, SessionStoreRedis)
}

func (s SessionConfig) validate(redis RedisConfig) error {
	switch strings.ToLower(s.Store) {
	case SessionStoreMemory:
		return nil
	case SessionStoreRedis:
		if !redis.Enabled() {
			return fmt.Errorf("%s=redis requires %s or %s", EnvSessionStore, EnvRedisURL, EnvRedisAddr)
		}
		return nil
	default:
		return fmt.Errorf("unsupported session store %q", s.Store)
	}
}

type CatalogConfig struct {
	Path     string        `envconfig:"VAPEBILL_CATALOG_PATH"`
	CacheTTL time.Duration `envconfig:"VAPEBILL_CATALOG_CACHE_TTL" default:"24h"`
}

type ExportConfig struct {
	CompanyName     string `envconfig:"VAPEBILL_COMPANY_NAME" default:"Sierra Vape"`
	CompanyAddress  string `envconfig:"VAPEBILL_COMPANY_ADDRESS" default:"Office No. 2002-0117, Al Rigga, Dubai, UAE"`
	CompanyPhone    string `envconfig:"VAPEBILL_COMPANY_PHONE" default:"(971) 54 473 3331"`
	CompanyEmail    string `envconfig:"VAPEBILL_COMPANY_EMAIL"`
	DefaultLanguage string `envconfig:"VAPEBILL_DEFAULT_LANGUAGE" default:"en"`
	RecordHistory   bool   `envconfig:"VAPEBILL_RECORD_HISTORY" default:"true"`
	SnowflakeNode   int64  `envconfig:"VAPEBILL_SNOWFLAKE_NODE" default:"1"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VAPEBILL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VAPEBILL_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Enabled  bool          `envconfig:"VAPEBILL_CRON_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"VAPEBILL_CRON_INTERVAL" default:"10m"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"VAPEBILL_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"VAPEBILL_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
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
