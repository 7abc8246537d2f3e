package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	if c.Len() != 10 {
		t.Fatalf("expected 10 default rules, got %d", c.Len())
	}
}

func TestDefaultCatalogThreatsUnique(t *testing.T) {
	seen := map[ThreatID]bool{}
	for _, id := range Default().Threats() {
		if seen[id] {
			t.Fatalf("duplicate threat id %q", id)
		}
		seen[id] = true
	}
}

func validRule() Rule {
	return Rule{
		Threat:     "test_threat",
		Name:       "Test Threat",
		AttackType: "test",
		Property:   PropertyPrivacy,
		MetricPath: "some.metric",
		Predicate:  PredicateGreater,
		Boundaries: []Boundary{
			{Severity: SeverityHigh, Value: 0.9},
			{Severity: SeverityLow, Value: 0.5},
		},
		Confidence: ConfidenceSpec{Kind: ConfidenceDistance, Scale: 2},
	}
}

func TestValidateRejectsBadRules(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Rule)
		wantSub string
	}{
		{"missing threat", func(r *Rule) { r.Threat = "" }, "missing threat id"},
		{"missing name", func(r *Rule) { r.Name = "" }, "missing name"},
		{"missing path", func(r *Rule) { r.MetricPath = "" }, "missing metric_path"},
		{"bad property", func(r *Rule) { r.Property = "safety" }, "unknown property"},
		{"bad predicate", func(r *Rule) { r.Predicate = "between" }, "unknown predicate"},
		{"no boundaries", func(r *Rule) { r.Boundaries = nil }, "no boundaries"},
		{"bad severity", func(r *Rule) { r.Boundaries[0].Severity = "fatal" }, "unknown severity"},
		{"unordered severities", func(r *Rule) {
			r.Boundaries[0].Severity = SeverityLow
			r.Boundaries[1].Severity = SeverityHigh
		}, "most severe first"},
		{"gt values not descending", func(r *Rule) {
			r.Boundaries[1].Value = 0.95
		}, "must be below"},
		{"lt values not ascending", func(r *Rule) {
			r.Predicate = PredicateLess
			r.Boundaries[0].Value = 0.5
			r.Boundaries[1].Value = 0.1
		}, "must be above"},
		{"one_of without categories", func(r *Rule) {
			r.Predicate = PredicateOneOf
		}, "needs categories"},
		{"range inverted", func(r *Rule) {
			r.Predicate = PredicateRange
			r.Boundaries = []Boundary{{Severity: SeverityHigh, Value: 0.5, Upper: 0.4}}
		}, "must exceed lower"},
		{"distance without scale", func(r *Rule) {
			r.Confidence = ConfidenceSpec{Kind: ConfidenceDistance}
		}, "positive scale"},
		{"log10 without divisor", func(r *Rule) {
			r.Confidence = ConfidenceSpec{Kind: ConfidenceLog10}
		}, "positive divisor"},
		{"tiered missing tier", func(r *Rule) {
			r.Confidence = ConfidenceSpec{Kind: ConfidenceTiered, Tiers: map[Severity]float64{SeverityHigh: 0.8}}
		}, "missing tier"},
		{"tier out of range", func(r *Rule) {
			r.Confidence = ConfidenceSpec{Kind: ConfidenceTiered, Tiers: map[Severity]float64{
				SeverityHigh: 1.2, SeverityLow: 0.3,
			}}
		}, "out of [0,1]"},
		{"unknown confidence kind", func(r *Rule) {
			r.Confidence = ConfidenceSpec{Kind: "sigmoid"}
		}, "unknown confidence kind"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRule()
			tc.mutate(&r)
			c := Catalog{Rules: []Rule{r}}
			err := c.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantSub)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.wantSub)
			}
		})
	}
}

func TestValidateRejectsDuplicateThreats(t *testing.T) {
	c := Catalog{Rules: []Rule{validRule(), validRule()}}
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate threat id") {
		t.Fatalf("expected duplicate threat error, got %v", err)
	}
}

func TestValidateRejectsEmptyCatalog(t *testing.T) {
	c := Catalog{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestLoadFile(t *testing.T) {
	doc := `
rules:
  - threat: custom_drift
    name: Custom Drift
    attack_type: fidelity
    property: utility
    description: Drift within a watched band.
    metric_path: drift.score
    predicate: range
    boundaries:
      - severity: medium
        value: 0.4
        upper: 0.8
    confidence:
      kind: tiered
      tiers:
        medium: 0.5
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 rule, got %d", c.Len())
	}
	r := c.Rules[0]
	if r.Threat != "custom_drift" || r.Predicate != PredicateRange {
		t.Fatalf("unexpected rule: %+v", r)
	}
	if r.Boundaries[0].Upper != 0.8 {
		t.Fatalf("expected upper 0.8, got %v", r.Boundaries[0].Upper)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o600); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected validation error for empty rules")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
