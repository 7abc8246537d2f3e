// Package threat interprets a rule table against a metric snapshot and
// produces threat signals. The interpreter is generic over the table: it
// carries no per-threat code, only the predicate and confidence families the
// table declares.
package threat

import (
	"github.com/outsidedata/govcore/internal/catalog"
)

// Signal is one detected threat. It is a pure data product: interpreting a
// snapshot twice yields byte-identical signals.
type Signal struct {
	ThreatID            catalog.ThreatID `json:"threat_id"`
	ThreatName          string           `json:"threat_name"`
	AttackType          string           `json:"attack_type"`
	ImpactedProperty    catalog.Property `json:"impacted_property"`
	Severity            catalog.Severity `json:"severity"`
	Confidence          float64          `json:"confidence"`
	RelatedMetrics      []string         `json:"related_metrics"`
	Evidence            map[string]any   `json:"evidence"`
	TriggeredConditions []string         `json:"triggered_conditions"`
	Description         string           `json:"description"`
}

// Unresolved records a rule whose metric was present in the input but could
// not be evaluated (discarded during sanitization or of the wrong kind).
type Unresolved struct {
	Threat catalog.ThreatID
	Name   string
	Reason string
}

// Outcome is the full interpretation result for one snapshot.
type Outcome struct {
	// Signals holds the triggered threats in catalog declaration order.
	Signals []Signal
	// Evaluated counts the rules whose metric was present and usable,
	// whether or not they triggered.
	Evaluated int
	// Unresolved lists the rules that had data but could not use it.
	Unresolved []Unresolved
}
