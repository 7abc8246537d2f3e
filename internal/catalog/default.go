package catalog

// Default returns the built-in threat table. Callers own the returned value
// and may append or replace rules before handing it to the engine.
//
// Boundary values are tuned so that benign metric profiles (privacy_score
// above 0.85, utility above 0.88, membership AUC near chance) cross nothing
// and therefore emit nothing.
func Default() *Catalog {
	return &Catalog{Rules: []Rule{
		{
			Threat:      ThreatMembershipInference,
			Name:        "Membership Inference Exposure",
			AttackType:  "membership_inference",
			Property:    PropertyPrivacy,
			Description: "An attacker can determine whether a specific record was part of the training data.",
			MetricPath:  "privacy_risk.membership_inference_auc",
			EvidencePaths: []string{
				"privacy_risk.membership_inference_accuracy",
			},
			Predicate: PredicateGreater,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 0.70},
				{Severity: SeverityMedium, Value: 0.60},
				{Severity: SeverityLow, Value: 0.55},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceDistance, Baseline: 0.5, Scale: 2.5},
		},
		{
			Threat:      ThreatNearDuplicate,
			Name:        "Near-Duplicate Leakage",
			AttackType:  "reconstruction",
			Property:    PropertyPrivacy,
			Description: "Synthetic records are near-copies of real records, exposing their contents.",
			MetricPath:  "privacy_risk.near_duplicates_rate",
			EvidencePaths: []string{
				"privacy_risk.exact_duplicates_rate",
			},
			Predicate: PredicateGreater,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 0.02},
				{Severity: SeverityMedium, Value: 0.01},
				{Severity: SeverityLow, Value: 0.005},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceDistance, Baseline: 0, Scale: 50},
		},
		{
			Threat:      ThreatRecordLinkage,
			Name:        "Record Linkage Exposure",
			AttackType:  "linkage",
			Property:    PropertyPrivacy,
			Description: "Synthetic records sit close enough to real records to be linked back to individuals.",
			MetricPath:  "privacy_risk.min_nn_distance",
			EvidencePaths: []string{
				"privacy_risk.mean_nn_distance",
			},
			Predicate: PredicateLess,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 0.1},
				{Severity: SeverityMedium, Value: 0.5},
				{Severity: SeverityLow, Value: 1.0},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceDistance, Baseline: 1.0, Scale: 1.0},
		},
		{
			Threat:      ThreatAttributeInference,
			Name:        "Attribute Inference Exposure",
			AttackType:  "attribute_inference",
			Property:    PropertyPrivacy,
			Description: "Sensitive attributes of real individuals can be predicted from the synthetic data.",
			MetricPath:  "privacy_risk.attribute_inference_accuracy",
			Predicate:   PredicateGreater,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 0.85},
				{Severity: SeverityMedium, Value: 0.75},
				{Severity: SeverityLow, Value: 0.65},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceTiered, Tiers: map[Severity]float64{
				SeverityHigh:   0.9,
				SeverityMedium: 0.6,
				SeverityLow:    0.3,
			}},
		},
		{
			Threat:      ThreatPrivacyLeakage,
			Name:        "Aggregate Privacy Degradation",
			AttackType:  "composite",
			Property:    PropertyPrivacy,
			Description: "The composite privacy score indicates elevated overall disclosure risk.",
			MetricPath:  "privacy_score",
			Predicate:   PredicateLess,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 0.60},
				{Severity: SeverityMedium, Value: 0.80},
				{Severity: SeverityLow, Value: 0.85},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceDistance, Baseline: 1.0, Scale: 2.5},
		},
		{
			Threat:      ThreatSemanticViolation,
			Name:        "Semantic Rule Violations",
			AttackType:  "integrity",
			Property:    PropertyConsistency,
			Description: "Generated records break domain rules that always hold in real data.",
			MetricPath:  "semantic_violations",
			Predicate:   PredicateGreaterEqual,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 100},
				{Severity: SeverityMedium, Value: 10},
				{Severity: SeverityLow, Value: 1},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceLog10, Divisor: 3},
		},
		{
			Threat:      ThreatSchemaViolation,
			Name:        "Schema Invariant Violations",
			AttackType:  "integrity",
			Property:    PropertyConsistency,
			Description: "Generated records violate structural invariants of the source schema.",
			MetricPath:  "semantic_invariants.schema_violations",
			EvidencePaths: []string{
				"semantic_invariants.invariants_checked",
			},
			Predicate: PredicateGreaterEqual,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 50},
				{Severity: SeverityMedium, Value: 5},
				{Severity: SeverityLow, Value: 1},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceLog10, Divisor: 3},
		},
		{
			Threat:      ThreatDistributionDrift,
			Name:        "Distributional Drift",
			AttackType:  "fidelity",
			Property:    PropertyUtility,
			Description: "Synthetic marginal distributions have drifted away from the source data.",
			MetricPath:  "statistical_drift",
			Predicate:   PredicateOneOf,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Categories: []string{"high", "severe"}},
				{Severity: SeverityMedium, Categories: []string{"moderate"}},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceTiered, Tiers: map[Severity]float64{
				SeverityHigh:   0.85,
				SeverityMedium: 0.6,
			}},
		},
		{
			Threat:      ThreatCorrelationInconsistency,
			Name:        "Correlation Structure Mismatch",
			AttackType:  "fidelity",
			Property:    PropertyUtility,
			Description: "Pairwise correlations in the synthetic data diverge from the source structure.",
			MetricPath:  "statistical_fidelity.correlation_frobenius_norm",
			Predicate:   PredicateGreater,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 2.0},
				{Severity: SeverityMedium, Value: 1.0},
				{Severity: SeverityLow, Value: 0.5},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceTiered, Tiers: map[Severity]float64{
				SeverityHigh:   0.8,
				SeverityMedium: 0.55,
				SeverityLow:    0.3,
			}},
		},
		{
			Threat:      ThreatUtilityDegradation,
			Name:        "Downstream Utility Degradation",
			AttackType:  "utility",
			Property:    PropertyUtility,
			Description: "Models trained on the synthetic data are expected to underperform on real tasks.",
			MetricPath:  "utility_score",
			Predicate:   PredicateLess,
			Boundaries: []Boundary{
				{Severity: SeverityHigh, Value: 0.70},
				{Severity: SeverityMedium, Value: 0.85},
				{Severity: SeverityLow, Value: 0.88},
			},
			Confidence: ConfidenceSpec{Kind: ConfidenceTiered, Tiers: map[Severity]float64{
				SeverityHigh:   0.85,
				SeverityMedium: 0.6,
				SeverityLow:    0.35,
			}},
		},
	}}
}
