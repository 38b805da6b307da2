package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Import      ImportConfig      `yaml:"import"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. LockTimeout is the
// store-level ceiling on lock waits: an import blocked longer than this fails
// with a store timeout, which the coordinator maps to a rollback.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	LockTimeout     time.Duration `yaml:"lock_timeout"       env:"DATABASE_LOCK_TIMEOUT"       env-default:"30s"`
}

// AuthConfig holds the bearer-token validation settings for the bulk import
// endpoint. Token issuance lives in a separate system; this service only
// verifies.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"cihui"`
}

// ImportConfig holds import coordinator settings.
type ImportConfig struct {
	// MaxBatchSize caps how many records one bulk request may carry.
	MaxBatchSize int `yaml:"max_batch_size" env:"IMPORT_MAX_BATCH_SIZE" env-default:"2000"`
	// ErrorDisplayLimit caps the error strings echoed back to the caller.
	// Processing is never truncated, only the response list.
	ErrorDisplayLimit int `yaml:"error_display_limit" env:"IMPORT_ERROR_DISPLAY_LIMIT" env-default:"50"`
	// ProgressInterval is how many records pass between progress log lines.
	ProgressInterval int `yaml:"progress_interval" env:"IMPORT_PROGRESS_INTERVAL" env-default:"100"`
}

// MaintenanceConfig holds cleanup-run settings.
type MaintenanceConfig struct {
	// RepairNullFields enables the placeholder rewrite pass after reclaiming.
	RepairNullFields bool `yaml:"repair_null_fields" env:"MAINTENANCE_REPAIR_NULL_FIELDS" env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings passed to the rs/cors wrapper.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   []string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int      `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
