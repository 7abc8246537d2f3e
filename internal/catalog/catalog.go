// Package catalog defines the declarative threat rule table.
//
// Each rule binds one threat kind to one metric path, a threshold predicate
// with severity boundaries, and a confidence formula. The table is read-only
// process-wide configuration: it is validated once at engine construction
// and evaluated by the generic interpreter in internal/threat, so adding a
// threat means adding one table row.
package catalog

// ThreatID is a stable, human-readable threat identifier.
type ThreatID string

const (
	ThreatMembershipInference      ThreatID = "membership_inference"
	ThreatNearDuplicate            ThreatID = "near_duplicate"
	ThreatRecordLinkage            ThreatID = "record_linkage"
	ThreatAttributeInference       ThreatID = "attribute_inference"
	ThreatPrivacyLeakage           ThreatID = "privacy_leakage"
	ThreatSemanticViolation        ThreatID = "semantic_violation"
	ThreatSchemaViolation          ThreatID = "schema_violation"
	ThreatDistributionDrift        ThreatID = "distribution_drift"
	ThreatCorrelationInconsistency ThreatID = "correlation_inconsistency"
	ThreatUtilityDegradation       ThreatID = "utility_degradation"
)

// Severity is the per-signal tier.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities for escalation and sorting (higher is worse).
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Property names the dataset property a threat impacts.
type Property string

const (
	PropertyPrivacy     Property = "privacy"
	PropertyUtility     Property = "utility"
	PropertyConsistency Property = "consistency"
)

// Weight is the deterministic tie-break priority of the property.
func (p Property) Weight() int {
	switch p {
	case PropertyPrivacy:
		return 3
	case PropertyUtility:
		return 2
	case PropertyConsistency:
		return 1
	}
	return 0
}

// Predicate selects the threshold family a rule evaluates.
type Predicate string

const (
	// PredicateGreater triggers when value > boundary.
	PredicateGreater Predicate = "gt"
	// PredicateGreaterEqual triggers when value >= boundary.
	PredicateGreaterEqual Predicate = "gte"
	// PredicateLess triggers when value < boundary.
	PredicateLess Predicate = "lt"
	// PredicateRange triggers when boundary.Value <= value <= boundary.Upper.
	PredicateRange Predicate = "range"
	// PredicateOneOf triggers when the categorical value is listed in the
	// boundary's categories (case-insensitive).
	PredicateOneOf Predicate = "one_of"
)

// Boundary maps one threshold crossing to a severity tier. Boundaries are
// declared most severe first and evaluated in that order, so equality and
// overlap resolve toward the more severe tier.
type Boundary struct {
	Severity   Severity `yaml:"severity"`
	Value      float64  `yaml:"value"`
	Upper      float64  `yaml:"upper,omitempty"`      // range only
	Categories []string `yaml:"categories,omitempty"` // one_of only
}

// Confidence formula kinds.
const (
	// ConfidenceDistance scales the distance from a baseline:
	// clamp(|value-baseline| * scale).
	ConfidenceDistance = "distance"
	// ConfidenceLog10 compresses unbounded counts:
	// clamp(log10(value+1) / divisor).
	ConfidenceLog10 = "log10"
	// ConfidenceTiered assigns a fixed confidence per severity tier.
	ConfidenceTiered = "tiered"
)

// ConfidenceSpec declares how a rule derives its [0,1] confidence score.
// All kinds are monotone in the distance past the triggering boundary.
type ConfidenceSpec struct {
	Kind     string               `yaml:"kind"`
	Baseline float64              `yaml:"baseline,omitempty"`
	Scale    float64              `yaml:"scale,omitempty"`
	Divisor  float64              `yaml:"divisor,omitempty"`
	Tiers    map[Severity]float64 `yaml:"tiers,omitempty"`
}

// Rule is one row of the threat table.
type Rule struct {
	Threat        ThreatID       `yaml:"threat"`
	Name          string         `yaml:"name"`
	AttackType    string         `yaml:"attack_type"`
	Property      Property       `yaml:"property"`
	Description   string         `yaml:"description"`
	MetricPath    string         `yaml:"metric_path"`
	EvidencePaths []string       `yaml:"evidence_paths,omitempty"`
	Predicate     Predicate      `yaml:"predicate"`
	Boundaries    []Boundary     `yaml:"boundaries"`
	Confidence    ConfidenceSpec `yaml:"confidence"`
}

// Catalog is an ordered rule table. Declaration order fixes the reported
// signal sequence and the final sorting tie-break.
type Catalog struct {
	Rules []Rule `yaml:"rules"`
}

// Len reports the number of rules.
func (c *Catalog) Len() int { return len(c.Rules) }

// Threats lists the threat IDs in declaration order.
func (c *Catalog) Threats() []ThreatID {
	out := make([]ThreatID, 0, len(c.Rules))
	for _, r := range c.Rules {
		out = append(out, r.Threat)
	}
	return out
}
