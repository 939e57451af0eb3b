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
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	Storage      StorageConfig
	Media        MediaConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SITECMS_APP_ENV" required:"true"`
	Port         string `envconfig:"SITECMS_APP_PORT" default:"8000"`
	Debug        bool   `envconfig:"SITECMS_DEBUG" default:"false"`
	LogLevel     string `envconfig:"SITECMS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SITECMS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SITECMS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ConsoleLogs reports whether human readable log output was requested.
func (a AppConfig) ConsoleLogs() bool {
	return strings.EqualFold(strings.TrimSpace(a.LogFormat), "console")
}

type DBConfig struct {
	DSN    string `envconfig:"SITECMS_DB_DSN"`
	Driver string `envconfig:"SITECMS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SITECMS_DB_HOST"`
	Port     int    `envconfig:"SITECMS_DB_PORT" default:"5432"`
	User     string `envconfig:"SITECMS_DB_USER"`
	Password string `envconfig:"SITECMS_DB_PASSWORD"`
	Name     string `envconfig:"SITECMS_DB_NAME"`
	SSLMode  string `envconfig:"SITECMS_DB_SSLMODE" default:"disable"`

	LogQueries bool `envconfig:"SITECMS_DB_LOG_QUERIES" default:"false"`

	// pool of 5 plus 10 overflow connections
	MaxOpenConns    int           `envconfig:"SITECMS_DB_MAX_OPEN_CONNS" default:"15"`
	MaxIdleConns    int           `envconfig:"SITECMS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SITECMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SITECMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected (local development only).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SITECMS_REDIS_URL"`
	Address      string        `envconfig:"SITECMS_REDIS_ADDR"`
	Password     string        `envconfig:"SITECMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SITECMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SITECMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SITECMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SITECMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SITECMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SITECMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool          `envconfig:"SITECMS_AUTO_MIGRATE" default:"false"`
	IdempotencyTTL time.Duration `envconfig:"SITECMS_IDEMPOTENCY_TTL" default:"24h"`
}

type GCPConfig struct {
	// CredentialsFile is the service account file path.
	CredentialsFile string `envconfig:"SITECMS_GOOGLE_CREDENTIALS"`
	CredentialsJSON string `envconfig:"SITECMS_GCP_CREDENTIALS_JSON"`
}

type StorageConfig struct {
	Backend    string `envconfig:"SITECMS_STORAGE_BACKEND" default:"gcs"`
	BucketName string `envconfig:"SITECMS_GCS_BUCKET_NAME" required:"true"`
	PublicHost string `envconfig:"SITECMS_GCS_PUBLIC_HOST" default:"storage.googleapis.com"`
}

// UsesMemory reports whether blobs are kept in process memory instead of GCS.
func (s StorageConfig) UsesMemory() bool {
	return strings.EqualFold(strings.TrimSpace(s.Backend), StorageBackendMemory)
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case StorageBackendGCS, StorageBackendMemory:
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q", EnvStorageBackend, StorageBackendGCS, StorageBackendMemory)
	}
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"SITECMS_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) * 1024 * 1024
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SITECMS_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
	}

	missing := []string{}
	partValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if partValues[env] == "" {
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
