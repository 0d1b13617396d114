package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/chargewatch/core/metrics"
	"github.com/kilianp07/chargewatch/infra/monitoring"
	"github.com/kilianp07/chargewatch/infra/mqtt"
)

// EnvPrefix prefixes environment overrides; "__" separates nested keys,
// e.g. CHARGEWATCH_NOTIFY__MODE=text.
const EnvPrefix = "CHARGEWATCH_"

type Config struct {
	API     APIConfig               `json:"api"`
	Notify  NotifyConfig            `json:"notify"`
	Logging LoggingConfig           `json:"logging"`
	Metrics metrics.Config          `json:"metrics"`
	MQTT    mqtt.Config             `json:"mqtt"`
	Sentry  monitoring.SentryConfig `json:"sentry"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.Notify.ClearScreen = true
	cfg.Notify.Color = true
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.API.SetDefaults()
	c.Notify.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Notify.Validate(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Load reads the YAML or JSON file at path, applies environment overrides and
// validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
