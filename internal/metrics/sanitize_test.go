package metrics

import (
	"math"
	"reflect"
	"testing"
)

func TestSanitizeFlattensNestedMaps(t *testing.T) {
	raw := map[string]any{
		"privacy_score": 0.85,
		"privacy_risk": map[string]any{
			"membership_inference_auc": 0.52,
			"near_duplicates_rate":     0.001,
		},
	}
	snap, issues := Sanitize(raw)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if snap.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", snap.Len())
	}
	v, ok := snap.Lookup("privacy_risk.membership_inference_auc")
	if !ok || v.Kind != KindNumber || v.Num != 0.52 {
		t.Fatalf("nested lookup failed: %+v ok=%v", v, ok)
	}
}

func TestLookupFallbacks(t *testing.T) {
	flat, _ := Sanitize(map[string]any{"membership_inference_auc": 0.9})
	if v, ok := flat.Lookup("privacy_risk.membership_inference_auc"); !ok || v.Num != 0.9 {
		t.Fatalf("flat key should satisfy nested rule path, got %+v ok=%v", v, ok)
	}

	nested, _ := Sanitize(map[string]any{
		"privacy_risk": map[string]any{"membership_inference_auc": 0.7},
	})
	if v, ok := nested.Lookup("membership_inference_auc"); !ok || v.Num != 0.7 {
		t.Fatalf("unambiguous leaf should resolve, got %+v ok=%v", v, ok)
	}

	if _, ok := nested.Lookup("utility_score"); ok {
		t.Fatalf("absent metric must not resolve")
	}
}

func TestLookupAmbiguousLeafDoesNotResolve(t *testing.T) {
	snap, _ := Sanitize(map[string]any{
		"a": map[string]any{"score": 0.1},
		"b": map[string]any{"score": 0.2},
	})
	if _, ok := snap.Lookup("score"); ok {
		t.Fatalf("ambiguous leaf must not resolve silently")
	}
}

func TestSanitizeDiscardsUnusableValues(t *testing.T) {
	raw := map[string]any{
		"nan_metric":   math.NaN(),
		"inf_metric":   math.Inf(1),
		"null_metric":  nil,
		"empty_metric": "  ",
		"weird_metric": []any{1, 2},
		"good_metric":  1.0,
	}
	snap, issues := Sanitize(raw)
	if len(issues) != 5 {
		t.Fatalf("expected 5 issues, got %d: %v", len(issues), issues)
	}
	for _, path := range []string{"nan_metric", "inf_metric", "null_metric", "empty_metric", "weird_metric"} {
		v, ok := snap.Lookup(path)
		if !ok || v.Kind != KindUnavailable {
			t.Fatalf("%s should be an unavailable marker, got %+v ok=%v", path, v, ok)
		}
	}
	if v, _ := snap.Lookup("good_metric"); v.Num != 1.0 {
		t.Fatalf("good_metric mangled: %+v", v)
	}
}

func TestIssueNoteWording(t *testing.T) {
	_, issues := Sanitize(map[string]any{"x": math.NaN()})
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	want := "metric x was non-finite, value discarded"
	if got := issues[0].Note(); got != want {
		t.Fatalf("note = %q, want %q", got, want)
	}
}

func TestSanitizeAcceptsIntegerKinds(t *testing.T) {
	snap, issues := Sanitize(map[string]any{
		"a": 5,
		"b": int64(7),
		"c": uint32(9),
		"d": float32(0.5),
	})
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	for path, want := range map[string]float64{"a": 5, "b": 7, "c": 9, "d": 0.5} {
		if v, _ := snap.Lookup(path); v.Num != want {
			t.Fatalf("%s = %v, want %v", path, v.Num, want)
		}
	}
}

func TestSanitizeDoesNotMutateCaller(t *testing.T) {
	inner := map[string]any{"auc": math.NaN()}
	raw := map[string]any{"privacy_risk": inner, "score": 0.5}
	Sanitize(raw)
	if !math.IsNaN(inner["auc"].(float64)) {
		t.Fatalf("caller's nested map was mutated")
	}
	if len(raw) != 2 {
		t.Fatalf("caller's map was mutated")
	}
}

func TestSanitizeIssueOrderIsDeterministic(t *testing.T) {
	raw := map[string]any{"z": nil, "a": nil, "m": nil}
	_, issues := Sanitize(raw)
	got := []string{issues[0].Path, issues[1].Path, issues[2].Path}
	want := []string{"a", "m", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("issue order = %v, want %v", got, want)
	}
}

func TestSanitizeIdempotence(t *testing.T) {
	raw := map[string]any{
		"privacy_score": 0.85,
		"drift":         "moderate",
		"bad":           math.Inf(-1),
	}
	first, _ := Sanitize(raw)
	second, issues := Sanitize(first.Export())
	if len(issues) != 0 {
		t.Fatalf("re-sanitizing a clean snapshot produced issues: %v", issues)
	}
	if !reflect.DeepEqual(first.Export(), second.Export()) {
		t.Fatalf("usable values changed across sanitization passes")
	}
}
