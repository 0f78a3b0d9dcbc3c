package config

const (
	EnvPrefix = "VAPEBILL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
	DefaultSQLiteDSN = "file:vape-bill.db?cache=shared"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

const (
	EnvAppEnv       = "VAPEBILL_APP_ENV"
	EnvPort         = "VAPEBILL_APP_PORT"
	EnvLogLevel     = "VAPEBILL_LOG_LEVEL"
	EnvDBDSN        = "VAPEBILL_DB_DSN"
	EnvDBHost       = "VAPEBILL_DB_HOST"
	EnvDBUser       = "VAPEBILL_DB_USER"
	EnvDBName       = "VAPEBILL_DB_NAME"
	EnvRedisURL     = "VAPEBILL_REDIS_URL"
	EnvRedisAddr    = "VAPEBILL_REDIS_ADDR"
	EnvSessionStore = "VAPEBILL_SESSION_STORE"
	EnvSessionTTL   = "VAPEBILL_SESSION_TTL"
	EnvUseSQLite    = "VAPEBILL_USE_SQLITE"
	EnvCompanyName  = "VAPEBILL_COMPANY_NAME"
	EnvCatalogPath  = "VAPEBILL_CATALOG_PATH"
	EnvOrigins      = "VAPEBILL_HTTP_ALLOWED_ORIGINS"
	EnvCronEnabled  = "VAPEBILL_CRON_ENABLED"
	EnvCronInterval = "VAPEBILL_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
