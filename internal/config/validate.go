package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Engine.Mode)) {
	case "summary", "detailed", "full":
	default:
		return fmt.Errorf("engine.mode must be summary, detailed or full, got %q", cfg.Engine.Mode)
	}
	if cfg.Engine.TopThreats < 1 {
		return errors.New("engine.top_threats must be at least 1")
	}

	if err := validateAuditConfig(cfg.Audit); err != nil {
		return err
	}

	return validateAdvisorConfig(cfg.Advisor)
}

func validateAuditConfig(a AuditConfig) error {
	for i, s := range a.Sinks {
		switch strings.ToLower(strings.TrimSpace(s.Type)) {
		case "file_jsonl":
			if strings.TrimSpace(s.Path) == "" {
				return fmt.Errorf("audit sink %d (file_jsonl) missing path", i)
			}
		case "webhook":
			if strings.TrimSpace(s.URL) == "" {
				return fmt.Errorf("audit sink %d (webhook) missing url", i)
			}
			u, err := url.Parse(s.URL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("audit sink %d (webhook) has invalid url", i)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("audit sink %d (webhook) url must be http or https", i)
			}
		default:
			return fmt.Errorf("audit sink %d has unknown type %q", i, s.Type)
		}
	}
	return nil
}

func validateAdvisorConfig(a AdvisorConfig) error {
	if !a.Enabled {
		return nil
	}
	if strings.TrimSpace(a.APIKeyEnv) == "" {
		return errors.New("advisor enabled but api_key_env is empty")
	}
	if a.BaseURL != "" {
		u, err := url.Parse(a.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("advisor has invalid base_url")
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("advisor base_url must be http or https")
		}
	}
	return nil
}
