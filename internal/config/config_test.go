package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Mode != "summary" || cfg.Engine.TopThreats != 5 {
		t.Fatalf("engine defaults = %+v", cfg.Engine)
	}
	if cfg.Audit.QueueSize != 1000 || cfg.Audit.Workers != 1 {
		t.Fatalf("audit defaults = %+v", cfg.Audit)
	}
	if cfg.Advisor.Enabled {
		t.Fatalf("advisor must be off by default")
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	doc := `
engine:
  mode: full
audit:
  sinks:
    - type: file_jsonl
      path: /tmp/audit.jsonl
advisor:
  enabled: true
  api_key_env: OPENAI_API_KEY
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Mode != "full" {
		t.Fatalf("mode = %q", cfg.Engine.Mode)
	}
	if cfg.Engine.TopThreats != 5 {
		t.Fatalf("top_threats default not applied: %d", cfg.Engine.TopThreats)
	}
	if cfg.Advisor.TimeoutSeconds != 30 {
		t.Fatalf("advisor timeout default not applied: %d", cfg.Advisor.TimeoutSeconds)
	}
	if len(cfg.Audit.Sinks) != 1 || cfg.Audit.Sinks[0].Type != "file_jsonl" {
		t.Fatalf("sinks = %+v", cfg.Audit.Sinks)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("loaded config must validate: %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("engine: ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
