package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "gallery"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "GALLERY_APP_ENV"
	EnvPort   = "GALLERY_APP_PORT"
	EnvDBDSN  = "GALLERY_DB_DSN"
	EnvDBHost = "GALLERY_DB_HOST"
	EnvDBUser = "GALLERY_DB_USER"
	EnvDBName = "GALLERY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Uploads      UploadsConfig
	Identity     IdentityConfig
	Redis        RedisConfig
	Sweep        SweepConfig
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
	Env          string `envconfig:"GALLERY_APP_ENV" required:"true"`
	Port         string `envconfig:"GALLERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GALLERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GALLERY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GALLERY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GALLERY_DB_DSN"`
	Driver string `envconfig:"GALLERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GALLERY_DB_HOST"`
	LegacyPort     int    `envconfig:"GALLERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GALLERY_DB_USER"`
	LegacyPassword string `envconfig:"GALLERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"GALLERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"GALLERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GALLERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GALLERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GALLERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GALLERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// UploadsConfig describes the public file area that stores gallery images.
type UploadsConfig struct {
	Root        string `envconfig:"GALLERY_UPLOADS_ROOT" default:"storage/public"`
	PublicPath  string `envconfig:"GALLERY_UPLOADS_PUBLIC_PATH" default:"/storage"`
	MaxUploadMB int    `envconfig:"GALLERY_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes returns the per-file upload cap in bytes.
func (u UploadsConfig) MaxUploadBytes() int64 {
	if u.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(u.MaxUploadMB) << 20
}

// IdentityConfig carries the acting-user identity stamped on writes until a
// real authentication collaborator is integrated.
type IdentityConfig struct {
	ActingUserID int `envconfig:"GALLERY_ACTING_USER_ID" default:"1"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GALLERY_REDIS_URL"`
	Address      string        `envconfig:"GALLERY_REDIS_ADDR"`
	Password     string        `envconfig:"GALLERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"GALLERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GALLERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GALLERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GALLERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GALLERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GALLERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SweepConfig tunes the orphaned-image sweep worker.
type SweepConfig struct {
	Interval time.Duration `envconfig:"GALLERY_SWEEP_INTERVAL" default:"24h"`
	Grace    time.Duration `envconfig:"GALLERY_SWEEP_GRACE" default:"1h"`
	DryRun   bool          `envconfig:"GALLERY_SWEEP_DRY_RUN" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GALLERY_AUTO_MIGRATE" default:"false"`
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
