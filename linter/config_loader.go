package linter

import (
	"io"

	"github.com/speakeasy-api/lintperf/errors"
	"github.com/speakeasy-api/lintperf/system"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads lint configuration from a YAML reader. The document is validated against
// the configuration schema before it is decoded.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrInvalidConfig.Wrapf("failed to read config: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrInvalidConfig.Wrapf("failed to parse config: %w", err)
	}
	if errs := validateConfigDocument(doc); len(errs) > 0 {
		return nil, ErrInvalidConfig.Wrap(errors.Join(errs...))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ErrInvalidConfig.Wrapf("failed to decode config: %w", err)
	}

	if len(cfg.Extends) == 0 {
		cfg.Extends = StringList{"all"}
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	if cfg.Categories == nil {
		cfg.Categories = make(map[string]CategoryConfig)
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = OutputFormatText
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigFromFile loads lint configuration from a YAML file.
func LoadConfigFromFile(fsys system.VirtualFS, path string) (*Config, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, ErrInvalidConfig.Wrapf("failed to open config file: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}
