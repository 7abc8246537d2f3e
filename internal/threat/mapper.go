package threat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/outsidedata/govcore/internal/catalog"
	"github.com/outsidedata/govcore/internal/metrics"
)

// Map evaluates every rule of the catalog against the snapshot. A rule whose
// metric is absent is skipped silently; a rule whose metric is present but
// unusable is reported as unresolved; a rule whose metric crosses no boundary
// produces nothing. The catalog must have passed Validate.
func Map(cat *catalog.Catalog, snap metrics.Snapshot) Outcome {
	var out Outcome
	for _, rule := range cat.Rules {
		v, present := snap.Lookup(rule.MetricPath)
		if !present {
			continue
		}
		if reason, ok := usable(rule.Predicate, v); !ok {
			out.Unresolved = append(out.Unresolved, Unresolved{
				Threat: rule.Threat,
				Name:   rule.Name,
				Reason: reason,
			})
			continue
		}
		out.Evaluated++

		b, triggered := crossedBoundary(rule, v)
		if !triggered {
			continue
		}
		out.Signals = append(out.Signals, buildSignal(rule, b, v, snap))
	}
	return out
}

// usable reports whether the sanitized value can feed the predicate.
func usable(p catalog.Predicate, v metrics.Value) (string, bool) {
	switch v.Kind {
	case metrics.KindUnavailable:
		return "value was discarded during sanitization", false
	case metrics.KindString:
		if p != catalog.PredicateOneOf {
			return "value is categorical but a numeric threshold applies", false
		}
	case metrics.KindNumber:
		if p == catalog.PredicateOneOf {
			return "value is numeric but a categorical match applies", false
		}
	}
	return "", true
}

// crossedBoundary walks the rule's boundaries most severe first and returns
// the first one the value crosses. Declaration order makes ties resolve
// toward the more severe tier.
func crossedBoundary(rule catalog.Rule, v metrics.Value) (catalog.Boundary, bool) {
	for _, b := range rule.Boundaries {
		switch rule.Predicate {
		case catalog.PredicateGreater:
			if v.Num > b.Value {
				return b, true
			}
		case catalog.PredicateGreaterEqual:
			if v.Num >= b.Value {
				return b, true
			}
		case catalog.PredicateLess:
			if v.Num < b.Value {
				return b, true
			}
		case catalog.PredicateRange:
			if v.Num >= b.Value && v.Num <= b.Upper {
				return b, true
			}
		case catalog.PredicateOneOf:
			for _, c := range b.Categories {
				if strings.EqualFold(v.Str, c) {
					return b, true
				}
			}
		}
	}
	return catalog.Boundary{}, false
}

func buildSignal(rule catalog.Rule, b catalog.Boundary, v metrics.Value, snap metrics.Snapshot) Signal {
	related := []string{rule.MetricPath}
	evidence := map[string]any{rule.MetricPath: evidenceValue(v)}
	for _, p := range rule.EvidencePaths {
		ev, ok := snap.Lookup(p)
		if !ok || ev.Kind == metrics.KindUnavailable {
			continue
		}
		related = append(related, p)
		evidence[p] = evidenceValue(ev)
	}

	return Signal{
		ThreatID:            rule.Threat,
		ThreatName:          rule.Name,
		AttackType:          rule.AttackType,
		ImpactedProperty:    rule.Property,
		Severity:            b.Severity,
		Confidence:          confidence(rule.Confidence, b, v),
		RelatedMetrics:      related,
		Evidence:            evidence,
		TriggeredConditions: []string{condition(rule, b, v)},
		Description:         rule.Description,
	}
}

func evidenceValue(v metrics.Value) any {
	if v.Kind == metrics.KindString {
		return v.Str
	}
	return v.Num
}

// confidence derives the signal's [0,1] confidence from the rule's formula.
func confidence(spec catalog.ConfidenceSpec, b catalog.Boundary, v metrics.Value) float64 {
	switch spec.Kind {
	case catalog.ConfidenceDistance:
		return clamp01(math.Abs(v.Num-spec.Baseline) * spec.Scale)
	case catalog.ConfidenceLog10:
		return clamp01(math.Log10(v.Num+1) / spec.Divisor)
	case catalog.ConfidenceTiered:
		return clamp01(spec.Tiers[b.Severity])
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// condition renders the crossed threshold as a human-readable expression.
func condition(rule catalog.Rule, b catalog.Boundary, v metrics.Value) string {
	switch rule.Predicate {
	case catalog.PredicateGreater:
		return fmt.Sprintf("%s (%s) > %s", rule.MetricPath, num(v.Num), num(b.Value))
	case catalog.PredicateGreaterEqual:
		return fmt.Sprintf("%s (%s) >= %s", rule.MetricPath, num(v.Num), num(b.Value))
	case catalog.PredicateLess:
		return fmt.Sprintf("%s (%s) < %s", rule.MetricPath, num(v.Num), num(b.Value))
	case catalog.PredicateRange:
		return fmt.Sprintf("%s (%s) within [%s, %s]", rule.MetricPath, num(v.Num), num(b.Value), num(b.Upper))
	case catalog.PredicateOneOf:
		return fmt.Sprintf("%s (%q) in {%s}", rule.MetricPath, v.Str, strings.Join(b.Categories, ", "))
	}
	return rule.MetricPath
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
