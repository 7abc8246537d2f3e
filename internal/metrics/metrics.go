// Package metrics models the sanitized metric snapshot the engine evaluates.
//
// A snapshot is built once per evaluation from the caller's raw metric
// mapping and is never mutated afterwards. Nested maps are flattened to
// dotted paths; a bare leaf name is also indexed when it is unambiguous, so
// rules can address either "privacy_risk.membership_inference_auc" or
// "membership_inference_auc".
package metrics

import "strings"

// Kind tags the type of a sanitized metric value.
type Kind int

const (
	// KindNumber is a finite numeric value.
	KindNumber Kind = iota
	// KindString is a non-empty categorical value.
	KindString
	// KindUnavailable marks a value that was present in the raw input but
	// discarded during sanitization (non-finite, wrong type, empty).
	KindUnavailable
)

// Value is a single sanitized metric value.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Number wraps a finite float as a metric value.
func Number(v float64) Value { return Value{Kind: KindNumber, Num: v} }

// String wraps a categorical value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Unavailable is the sentinel for a discarded value.
func Unavailable() Value { return Value{Kind: KindUnavailable} }

// Snapshot is an immutable flat view of the sanitized metrics.
type Snapshot struct {
	values map[string]Value
	leaves map[string]string // unambiguous leaf name -> full path
}

// Lookup resolves a dotted metric path. It tries the exact path first, then
// the path's bare leaf as a top-level key (flat input addressed by a nested
// rule path), then the leaf against the unambiguous-leaf index. The second
// return is false when the metric is entirely absent.
func (s Snapshot) Lookup(path string) (Value, bool) {
	if v, ok := s.values[path]; ok {
		return v, true
	}
	leaf := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		leaf = path[i+1:]
		if v, ok := s.values[leaf]; ok {
			return v, true
		}
	}
	if full, ok := s.leaves[leaf]; ok {
		return s.values[full], true
	}
	return Value{}, false
}

// Len reports the number of sanitized entries, including unavailable markers.
func (s Snapshot) Len() int { return len(s.values) }

// Export returns a plain mapping of the usable values (numbers and strings).
// Unavailable markers carry no data and are omitted; re-sanitizing the
// exported form yields the same usable values and zero issues.
func (s Snapshot) Export() map[string]any {
	out := make(map[string]any, len(s.values))
	for path, v := range s.values {
		switch v.Kind {
		case KindNumber:
			out[path] = v.Num
		case KindString:
			out[path] = v.Str
		}
	}
	return out
}
