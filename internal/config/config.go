package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"edalens/internal/errors"
)

// EnvPrefix namespaces every variable, e.g. EDA_SERVER_PORT
const EnvPrefix = "EDA"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER" validate:"required"`
	Session  SessionConfig  `envconfig:"SESSION" validate:"required"`
	Analysis AnalysisConfig `envconfig:"ANALYSIS" validate:"required"`
	Logging  LoggingConfig  `envconfig:"LOG"`
	Metrics  MetricsConfig  `envconfig:"METRICS"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8501" validate:"required,numeric"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release" validate:"oneof=debug release test"`
	MaxUploadMB     int64         `envconfig:"MAX_UPLOAD_MB" default:"200" validate:"gt=0"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"60s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	SecureCookies   bool          `envconfig:"SECURE_COOKIES" default:"false"`
}

// SessionConfig controls how long an idle session keeps its table
type SessionConfig struct {
	TTL           time.Duration `envconfig:"TTL" default:"30m" validate:"gt=0"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m" validate:"gt=0"`
}

// AnalysisConfig exposes the display heuristics as tunable constants
type AnalysisConfig struct {
	CorrelationThreshold float64 `envconfig:"CORRELATION_THRESHOLD" default:"0.5" validate:"gte=0,lte=1"`
	SkewThreshold        float64 `envconfig:"SKEW_THRESHOLD" default:"1.0" validate:"gte=0"`
	HighCardinality      int     `envconfig:"HIGH_CARDINALITY" default:"50" validate:"gte=0"`
	SkewColumns          int     `envconfig:"SKEW_COLUMNS" default:"3" validate:"gte=0"`
	MaxChartColumns      int     `envconfig:"MAX_CHART_COLUMNS" default:"6" validate:"gte=0"`
	ChartsPerRow         int     `envconfig:"CHARTS_PER_ROW" default:"3" validate:"gt=0"`
	TopCategories        int     `envconfig:"TOP_CATEGORIES" default:"10" validate:"gt=0"`
	PreviewRows          int     `envconfig:"PREVIEW_ROWS" default:"5" validate:"gte=0"`
	ReportColumns        int     `envconfig:"REPORT_COLUMNS" default:"3" validate:"gte=0"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `envconfig:"LEVEL" default:"INFO" validate:"oneof=ERROR WARN INFO DEBUG TRACE error warn info debug trace"`
	Format string `envconfig:"FORMAT" default:"console" validate:"oneof=console json"`
}

// MetricsConfig toggles the Prometheus endpoint.
// Path carries no envconfig tag so it never falls back to the shell's PATH.
type MetricsConfig struct {
	Enabled bool   `envconfig:"ENABLED" default:"true"`
	Path    string `default:"/metrics" validate:"startswith=/"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to read environment")
	}

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags on the loaded configuration
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// UploadLimitBytes converts the MB limit into bytes
func (s ServerConfig) UploadLimitBytes() int64 {
	return s.MaxUploadMB << 20
}
