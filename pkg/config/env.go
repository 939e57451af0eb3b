package config

const EnvPrefix = "SITECMS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	StorageBackendGCS    = "gcs"
	StorageBackendMemory = "memory"
)

const (
	EnvAppEnv   = "SITECMS_APP_ENV"
	EnvPort     = "SITECMS_APP_PORT"
	EnvLogLevel = "SITECMS_LOG_LEVEL"

	EnvDBDSN      = "SITECMS_DB_DSN"
	EnvDBDriver   = "SITECMS_DB_DRIVER"
	EnvDBHost     = "SITECMS_DB_HOST"
	EnvDBPort     = "SITECMS_DB_PORT"
	EnvDBUser     = "SITECMS_DB_USER"
	EnvDBPassword = "SITECMS_DB_PASSWORD"
	EnvDBName     = "SITECMS_DB_NAME"

	EnvRedisURL = "SITECMS_REDIS_URL"

	EnvGoogleCredentials = "SITECMS_GOOGLE_CREDENTIALS"
	EnvStorageBackend    = "SITECMS_STORAGE_BACKEND"
	EnvGCSBucket         = "SITECMS_GCS_BUCKET_NAME"
	EnvGCSPublicHost     = "SITECMS_GCS_PUBLIC_HOST"

	EnvMaxUploadMB    = "SITECMS_MAX_UPLOAD_MB"
	EnvCORSOrigins    = "SITECMS_CORS_ALLOWED_ORIGINS"
	EnvAutoMigrate    = "SITECMS_AUTO_MIGRATE"
	EnvIdempotencyTTL = "SITECMS_IDEMPOTENCY_TTL"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
