package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds govcore configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Audit   AuditConfig   `yaml:"audit"`
	Advisor AdvisorConfig `yaml:"advisor"`
}

type EngineConfig struct {
	Mode        string `yaml:"mode"`        // summary | detailed | full
	TopThreats  int    `yaml:"top_threats"` // cap on ranked threats, default 5
	CatalogPath string `yaml:"catalog"`     // optional YAML rule-table override
}

type AuditConfig struct {
	Sinks     []SinkConfig `yaml:"sinks"`
	QueueSize int          `yaml:"queue_size"`
	Workers   int          `yaml:"workers"`
}

type SinkConfig struct {
	Type           string            `yaml:"type"` // file_jsonl | webhook
	Path           string            `yaml:"path"` // file_jsonl only
	URL            string            `yaml:"url"`  // webhook only
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

type AdvisorConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`    // e.g. "https://api.openai.com/v1"
	APIKeyEnv      string `yaml:"api_key_env"` // e.g. "OPENAI_API_KEY"
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Mode:       "summary",
			TopThreats: 5,
		},
		Audit: AuditConfig{
			QueueSize: 1000,
			Workers:   1,
		},
		Advisor: AdvisorConfig{
			TimeoutSeconds: 30,
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.Mode == "" {
		cfg.Engine.Mode = "summary"
	}
	if cfg.Engine.TopThreats <= 0 {
		cfg.Engine.TopThreats = 5
	}

	if cfg.Audit.QueueSize <= 0 {
		cfg.Audit.QueueSize = 1000
	}
	if cfg.Audit.Workers <= 0 {
		cfg.Audit.Workers = 1
	}

	if cfg.Advisor.TimeoutSeconds <= 0 {
		cfg.Advisor.TimeoutSeconds = 30
	}
}
