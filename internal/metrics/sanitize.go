package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Issue describes one raw value that could not be used.
type Issue struct {
	Path   string
	Reason string
}

// Note renders the issue as an uncertainty note.
func (i Issue) Note() string {
	return fmt.Sprintf("metric %s %s", i.Path, i.Reason)
}

// Sanitize flattens and cleans a raw metric mapping. It never fails:
// absence of a metric is a normal state, non-finite numerics and unsupported
// types are replaced with the unavailable marker and reported as issues.
// The caller's mapping is neither retained nor mutated.
func Sanitize(raw map[string]any) (Snapshot, []Issue) {
	values := make(map[string]Value)
	var issues []Issue

	walk(raw, "", values, &issues)

	snap := Snapshot{values: values, leaves: indexLeaves(values)}
	return snap, issues
}

func walk(m map[string]any, prefix string, values map[string]Value, issues *[]Issue) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch v := m[k].(type) {
		case map[string]any:
			walk(v, path, values, issues)
		case nil:
			values[path] = Unavailable()
			*issues = append(*issues, Issue{Path: path, Reason: "was null, value discarded"})
		case string:
			if strings.TrimSpace(v) == "" {
				values[path] = Unavailable()
				*issues = append(*issues, Issue{Path: path, Reason: "was empty, value discarded"})
				continue
			}
			values[path] = String(v)
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				values[path] = Unavailable()
				*issues = append(*issues, Issue{Path: path, Reason: "was not a usable number, value discarded"})
				continue
			}
			putNumber(path, f, values, issues)
		default:
			f, ok := asFloat(v)
			if !ok {
				values[path] = Unavailable()
				*issues = append(*issues, Issue{Path: path, Reason: fmt.Sprintf("had unsupported type %T, value discarded", v)})
				continue
			}
			putNumber(path, f, values, issues)
		}
	}
}

func putNumber(path string, f float64, values map[string]Value, issues *[]Issue) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		values[path] = Unavailable()
		*issues = append(*issues, Issue{Path: path, Reason: "was non-finite, value discarded"})
		return
	}
	values[path] = Number(f)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// indexLeaves maps each bare leaf name to its full path, dropping names that
// occur more than once so an ambiguous lookup never resolves silently.
func indexLeaves(values map[string]Value) map[string]string {
	counts := make(map[string]int)
	full := make(map[string]string)
	for path := range values {
		leaf := path
		if i := strings.LastIndexByte(path, '.'); i >= 0 {
			leaf = path[i+1:]
		}
		if leaf == path {
			continue // top-level key, already addressable
		}
		counts[leaf]++
		full[leaf] = path
	}
	leaves := make(map[string]string)
	for leaf, n := range counts {
		if n == 1 {
			if _, taken := values[leaf]; !taken {
				leaves[leaf] = full[leaf]
			}
		}
	}
	return leaves
}
