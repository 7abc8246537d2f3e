// Package risk folds threat signals into a single dataset risk summary.
// Aggregation is pure: the same outcome always folds to the same summary,
// and signals pass through unmodified.
package risk

import (
	"fmt"
	"sort"

	"github.com/outsidedata/govcore/internal/catalog"
	"github.com/outsidedata/govcore/internal/metrics"
	"github.com/outsidedata/govcore/internal/threat"
)

// Level is the dataset-wide risk classification.
type Level string

const (
	LevelLow      Level = "low"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
	LevelUnknown  Level = "unknown"
)

// DefaultTopThreats caps the ranked threat list when no cap is configured.
const DefaultTopThreats = 5

// ConfidenceStats summarizes signal confidences when at least one threat
// was detected.
type ConfidenceStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Summary is the aggregate view of one evaluation.
type Summary struct {
	OverallRiskLevel  Level                        `json:"overall_risk_level"`
	TotalThreats      int                          `json:"total_threats"`
	SeverityBreakdown map[catalog.Severity]int     `json:"severity_breakdown"`
	PropertyBreakdown map[catalog.Property]int     `json:"property_breakdown"`
	TopThreats        []threat.Signal              `json:"top_threats"`
	EscalationReasons []string                     `json:"escalation_reasons,omitempty"`
	Confidence        *ConfidenceStats             `json:"confidence,omitempty"`
	Summary           string                       `json:"summary"`
	Recommendation    string                       `json:"recommendation"`
}

var recommendations = map[Level]string{
	LevelCritical: "Escalate for human review before any further use of this dataset.",
	LevelWarning:  "Review the flagged threats and consider regenerating with stronger privacy settings.",
	LevelLow:      "No blocking threats detected; routine review is sufficient.",
	LevelUnknown:  "Provide evaluation metrics to obtain a risk assessment.",
}

// Aggregate folds an interpretation outcome into a dataset summary and the
// ordered uncertainty notes. Notes carry sanitization issues first, then
// unresolved rules, then the no-data note when nothing was evaluable.
func Aggregate(out threat.Outcome, issues []metrics.Issue, topN int) (Summary, []string) {
	if topN < 1 {
		topN = DefaultTopThreats
	}

	sev := map[catalog.Severity]int{}
	prop := map[catalog.Property]int{}
	for _, s := range out.Signals {
		sev[s.Severity]++
		prop[s.ImpactedProperty]++
	}

	level, reasons := escalate(sev, out.Evaluated)

	sum := Summary{
		OverallRiskLevel:  level,
		TotalThreats:      len(out.Signals),
		SeverityBreakdown: sev,
		PropertyBreakdown: prop,
		TopThreats:        rankThreats(out.Signals, topN),
		EscalationReasons: reasons,
		Confidence:        confidenceStats(out.Signals),
		Recommendation:    recommendations[level],
	}
	sum.Summary = describe(sum, out.Evaluated)

	return sum, notes(out, issues)
}

// escalate applies the total order over severities: any high forces
// critical, any medium forces warning, any low stays low; with zero signals
// the level is low when something was evaluable and unknown otherwise.
func escalate(sev map[catalog.Severity]int, evaluated int) (Level, []string) {
	switch {
	case sev[catalog.SeverityHigh] > 0:
		return LevelCritical, []string{fmt.Sprintf(
			"%d high-severity threat(s) force the critical level", sev[catalog.SeverityHigh])}
	case sev[catalog.SeverityMedium] > 0:
		return LevelWarning, []string{fmt.Sprintf(
			"%d medium-severity threat(s) raise the level to warning", sev[catalog.SeverityMedium])}
	case sev[catalog.SeverityLow] > 0:
		return LevelLow, nil
	case evaluated > 0:
		return LevelLow, nil
	default:
		return LevelUnknown, nil
	}
}

// rankThreats orders signals by severity, then confidence, then impacted
// property weight; catalog declaration order breaks remaining ties via the
// stable sort.
func rankThreats(signals []threat.Signal, topN int) []threat.Signal {
	ranked := make([]threat.Signal, len(signals))
	copy(ranked, signals)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.ImpactedProperty.Weight() > b.ImpactedProperty.Weight()
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func confidenceStats(signals []threat.Signal) *ConfidenceStats {
	if len(signals) == 0 {
		return nil
	}
	st := ConfidenceStats{Min: signals[0].Confidence, Max: signals[0].Confidence}
	total := 0.0
	for _, s := range signals {
		if s.Confidence < st.Min {
			st.Min = s.Confidence
		}
		if s.Confidence > st.Max {
			st.Max = s.Confidence
		}
		total += s.Confidence
	}
	st.Mean = total / float64(len(signals))
	return &st
}

func describe(sum Summary, evaluated int) string {
	if sum.OverallRiskLevel == LevelUnknown {
		return "No metrics were available for evaluation; the dataset risk is unknown."
	}
	if sum.TotalThreats == 0 {
		return fmt.Sprintf("No threats detected across %d evaluated rule(s); overall risk is low.", evaluated)
	}
	return fmt.Sprintf("Detected %d threat(s) across %d evaluated rule(s): %d high, %d medium, %d low; overall risk is %s.",
		sum.TotalThreats, evaluated,
		sum.SeverityBreakdown[catalog.SeverityHigh],
		sum.SeverityBreakdown[catalog.SeverityMedium],
		sum.SeverityBreakdown[catalog.SeverityLow],
		sum.OverallRiskLevel)
}

// notes renders the ordered uncertainty notes for one evaluation.
func notes(out threat.Outcome, issues []metrics.Issue) []string {
	var ns []string
	for _, is := range issues {
		ns = append(ns, is.Note())
	}
	for _, u := range out.Unresolved {
		ns = append(ns, fmt.Sprintf("insufficient data to evaluate %s: %s", u.Name, u.Reason))
	}
	if out.Evaluated == 0 && len(out.Signals) == 0 {
		ns = append(ns, "no metrics available for evaluation")
	}
	return ns
}
