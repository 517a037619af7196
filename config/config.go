// Package config handles configuration loading and validation.
package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ui-lab/go-detect-eval/labels"
)

// Config holds all evaluation configuration. The category set lives here and
// only here; the matcher, aggregator, and formatter all receive it from this
// one place so the list cannot drift between them.
type Config struct {
	// Categories is the closed set of recognized tags, in report order.
	Categories []string `envconfig:"DETEVAL_CATEGORIES" yaml:"categories"`

	// IoUThreshold is the overlap a prediction must reach to match a
	// ground-truth box.
	IoUThreshold float32 `envconfig:"DETEVAL_IOU_THRESHOLD" yaml:"iou_threshold"`

	// StrictTags rejects documents containing unrecognized tags instead of
	// dropping the offending labels.
	StrictTags bool `envconfig:"DETEVAL_STRICT_TAGS" yaml:"strict_tags"`

	// Workers bounds concurrent pair matching in batch runs. 1 keeps the
	// sequential reference behavior; the aggregate is identical either way.
	Workers int `envconfig:"DETEVAL_WORKERS" yaml:"workers"`

	// ReportPath, when set, persists the structured JSON report there.
	ReportPath string `envconfig:"DETEVAL_REPORT_PATH" yaml:"report_path"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"DETEVAL_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"DETEVAL_LOG_FORMAT" yaml:"format"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Categories:   []string{"Button", "Input", "Radio", "Dropdown"},
		IoUThreshold: 0.5,
		Workers:      1,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment overrides, in that order of precedence (lowest first).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New("config: at least one category is required")
	}
	if c.IoUThreshold <= 0 || c.IoUThreshold > 1 {
		return errors.Errorf("config: iou_threshold %v outside (0, 1]", c.IoUThreshold)
	}
	if c.Workers < 1 {
		return errors.Errorf("config: workers must be >= 1, got %d", c.Workers)
	}
	return nil
}

// CategorySet returns the configured categories as a labels.CategorySet.
func (c *Config) CategorySet() labels.CategorySet {
	return labels.NewCategorySet(c.Categories...)
}
