package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/sides/errors"
)

// Config holds settings read from SIDES_* environment variables.
type Config struct {
	LogLevel     string  `env:"SIDES_LOG_LEVEL" envDefault:"info"`
	LogFormat    string  `env:"SIDES_LOG_FORMAT" envDefault:"console"`
	Label        string  `env:"SIDES_LABEL" envDefault:"number is"`
	OTELEndpoint string  `env:"SIDES_OTEL_ENDPOINT"`
	SampleRatio  float64 `env:"SIDES_OTEL_SAMPLE_RATIO" envDefault:"1"`
	GuestTrace   bool    `env:"SIDES_GUEST_TRACE" envDefault:"false"`
	Metrics      bool    `env:"SIDES_METRICS" envDefault:"false"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("SIDES_LOG_LEVEL").
			Value(c.LogLevel).
			Cause(err).
			Build()
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("SIDES_LOG_FORMAT").
			Value(c.LogFormat).
			Detail("want console or json, got %q", c.LogFormat).
			Build()
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("SIDES_OTEL_SAMPLE_RATIO").
			Value(c.SampleRatio).
			Detail("want a ratio between 0 and 1").
			Build()
	}
	return nil
}

// Logger builds a zap logger for the configured level and format.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var zc zap.Config
	if strings.EqualFold(c.LogFormat, "json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
