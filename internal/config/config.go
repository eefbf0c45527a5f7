// Package config loads sccinspect settings: built-in defaults, overlaid by
// an optional YAML file, overlaid by SCCINSPECT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zsiec/sccinspect/internal/timecode"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full settings tree.
type Config struct {
	Inspector InspectorConfig `yaml:"inspector"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// InspectorConfig tunes document inspection.
type InspectorConfig struct {
	MaxScanDepth int `yaml:"max_scan_depth"`
	// FrameRate overrides detection when set ("23.98", "25", "29.97 NDF",
	// "29.97 DF").
	FrameRate    string `yaml:"frame_rate"`
	TooltipWidth int    `yaml:"tooltip_width"`
	Workers      int    `yaml:"workers"`
}

// ServerConfig configures the API host.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	H3Addr       string        `yaml:"h3_addr"`
	CertValidity time.Duration `yaml:"cert_validity"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Env var names used as overrides.
const (
	EnvMaxScanDepth = "SCCINSPECT_MAX_SCAN_DEPTH"
	EnvFrameRate    = "SCCINSPECT_FRAME_RATE"
	EnvTooltipWidth = "SCCINSPECT_TOOLTIP_WIDTH"
	EnvWorkers      = "SCCINSPECT_WORKERS"
	EnvAddr         = "SCCINSPECT_ADDR"
	EnvH3Addr       = "SCCINSPECT_H3_ADDR"
	EnvCertValidity = "SCCINSPECT_CERT_VALIDITY"
	EnvLogLevel     = "SCCINSPECT_LOG_LEVEL"
	EnvLogFormat    = "SCCINSPECT_LOG_FORMAT"
	EnvLogSource    = "SCCINSPECT_LOG_SOURCE"
	EnvLogFile      = "SCCINSPECT_LOG_FILE"
)

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Inspector: InspectorConfig{MaxScanDepth: 1000, TooltipWidth: 60},
		Server:    ServerConfig{Addr: ":4444", H3Addr: ":4443", CertValidity: 14 * 24 * time.Hour},
		Logging:   LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load builds the configuration. An empty path skips the file; a path that
// cannot be read or parsed is an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	normalize(&cfg)
	return cfg, cfg.Validate()
}

func normalize(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	cfg.Inspector.FrameRate = strings.TrimSpace(cfg.Inspector.FrameRate)
}

func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvMaxScanDepth, &cfg.Inspector.MaxScanDepth},
		{EnvTooltipWidth, &cfg.Inspector.TooltipWidth},
		{EnvWorkers, &cfg.Inspector.Workers},
	}
	for _, e := range ints {
		if v := strings.TrimSpace(os.Getenv(e.key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, e.key, v, err)
			}
			*e.dst = n
		}
	}

	strs := []struct {
		key string
		dst *string
	}{
		{EnvFrameRate, &cfg.Inspector.FrameRate},
		{EnvAddr, &cfg.Server.Addr},
		{EnvH3Addr, &cfg.Server.H3Addr},
		{EnvLogLevel, &cfg.Logging.Level},
		{EnvLogFormat, &cfg.Logging.Format},
		{EnvLogFile, &cfg.Logging.File},
	}
	for _, e := range strs {
		if v := strings.TrimSpace(os.Getenv(e.key)); v != "" {
			*e.dst = v
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvCertValidity)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvCertValidity, v, err)
		}
		cfg.Server.CertValidity = d
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Inspector.MaxScanDepth <= 0:
		return fmt.Errorf("%w: inspector.max_scan_depth must be positive, got %d", ErrInvalid, c.Inspector.MaxScanDepth)
	case c.Inspector.TooltipWidth < 20:
		return fmt.Errorf("%w: inspector.tooltip_width must be at least 20, got %d", ErrInvalid, c.Inspector.TooltipWidth)
	case c.Inspector.Workers < 0:
		return fmt.Errorf("%w: inspector.workers must not be negative, got %d", ErrInvalid, c.Inspector.Workers)
	case c.Server.CertValidity <= 0:
		return fmt.Errorf("%w: server.cert_validity must be positive, got %s", ErrInvalid, c.Server.CertValidity)
	}
	if _, err := c.Inspector.Rate(); err != nil {
		return fmt.Errorf("%w: inspector.frame_rate: %v", ErrInvalid, err)
	}
	switch c.Logging.Format {
	case "", "console", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// Rate returns the frame rate override, or timecode.RateUnknown when none
// is configured.
func (c InspectorConfig) Rate() (timecode.FrameRate, error) {
	if c.FrameRate == "" {
		return timecode.RateUnknown, nil
	}
	return timecode.ParseFrameRate(c.FrameRate)
}
