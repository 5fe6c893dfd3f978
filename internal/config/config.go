// Package config provides configuration loading and validation for the
// pyimport tool. Settings come from a config file, environment variables
// with the PYIMPORT_ prefix, and built-in defaults, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jasonmyers/PythonAutoImport/pkg/pyimport"
)

// Sentinel validation errors.
var (
	ErrInvalidStyle     = errors.New("invalid import style")
	ErrInvalidLineWidth = errors.New("max line width must be positive")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidRatio     = errors.New("sample ratio must be between 0 and 1")
)

// Default configuration values.
const (
	defaultStyle     = string(pyimport.StyleFrom)
	defaultLineWidth = pyimport.DefaultLineWidth
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultLogOutput = "stderr"
)

// Config holds all configuration for the pyimport tool.
type Config struct {
	// RootPath is the project root used to make module paths relative.
	// Empty means no rewriting: the bare module name is used.
	RootPath string `mapstructure:"root_path"`

	// Style is the default import form: "from" or "dotted".
	Style string `mapstructure:"style"`

	// MaxLineWidth is the wrap threshold for merged import statements.
	MaxLineWidth int `mapstructure:"max_line_width"`

	// ScrollToImport moves the editor view to the inserted import.
	ScrollToImport bool `mapstructure:"scroll_to_import"`

	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TelemetryConfig holds OpenTelemetry export settings for the server
// modes.
type TelemetryConfig struct {
	// OTLPEndpoint is the host:port of an OTLP gRPC collector.
	// Empty disables export.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// OTLPInsecure disables transport security on the collector link.
	OTLPInsecure bool `mapstructure:"otlp_insecure"`

	// SampleRatio is the fraction of tool calls to trace, between 0
	// and 1. Zero traces every call.
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// WriteOptions converts the configuration into writer options.
func (c *Config) WriteOptions() pyimport.WriteOptions {
	return pyimport.WriteOptions{MaxLineWidth: c.MaxLineWidth}
}

// ImportStyle returns the configured default style.
func (c *Config) ImportStyle() (pyimport.Style, error) {
	style, err := pyimport.ParseStyle(c.Style)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidStyle, c.Style)
	}

	return style, nil
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches the working directory and $HOME for
// .pyimport.yaml; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".pyimport")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix("PYIMPORT")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the built-in configuration, as if no file or
// environment overrides were present.
func Default() *Config {
	return &Config{
		Style:          defaultStyle,
		MaxLineWidth:   defaultLineWidth,
		ScrollToImport: true,
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			Output: defaultLogOutput,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("root_path", "")
	viperCfg.SetDefault("style", defaultStyle)
	viperCfg.SetDefault("max_line_width", defaultLineWidth)
	viperCfg.SetDefault("scroll_to_import", true)

	viperCfg.SetDefault("logging.level", defaultLogLevel)
	viperCfg.SetDefault("logging.format", defaultLogFormat)
	viperCfg.SetDefault("logging.output", defaultLogOutput)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	_, styleErr := pyimport.ParseStyle(config.Style)
	if styleErr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStyle, config.Style)
	}

	if config.MaxLineWidth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLineWidth, config.MaxLineWidth)
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
