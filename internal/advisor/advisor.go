// Package advisor generates optional free-text commentary on a finished
// evaluation. The advisor is strictly additive: it reads a projection of the
// result and returns text that callers may attach to the envelope, and it can
// never alter a structured field. A failing advisor degrades to no text.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/outsidedata/govcore/internal/catalog"
	"github.com/outsidedata/govcore/internal/engine"
	"github.com/outsidedata/govcore/internal/risk"
)

// TopThreat is the reduced per-threat view handed to a provider.
type TopThreat struct {
	ThreatID   catalog.ThreatID `json:"threat_id"`
	ThreatName string           `json:"threat_name"`
	Severity   catalog.Severity `json:"severity"`
	Confidence float64          `json:"confidence"`
}

// Projection is the read-only view of an evaluation a provider receives.
// It deliberately excludes raw metric evidence.
type Projection struct {
	OverallRiskLevel  risk.Level               `json:"overall_risk_level"`
	TotalThreats      int                      `json:"total_threats"`
	SeverityBreakdown map[catalog.Severity]int `json:"severity_breakdown"`
	TopThreats        []TopThreat              `json:"top_threats"`
	Summary           string                   `json:"summary"`
	HasUncertainty    bool                     `json:"has_uncertainty"`
	UncertaintyNotes  []string                 `json:"uncertainty_notes,omitempty"`
}

// Project extracts the advisor's view from a finished result.
func Project(res *engine.Result) Projection {
	sum := res.DatasetRiskSummary
	p := Projection{
		OverallRiskLevel:  sum.OverallRiskLevel,
		TotalThreats:      sum.TotalThreats,
		SeverityBreakdown: make(map[catalog.Severity]int, len(sum.SeverityBreakdown)),
		Summary:           sum.Summary,
		HasUncertainty:    res.HasUncertainty,
		UncertaintyNotes:  append([]string(nil), res.UncertaintyNotes...),
	}
	for k, v := range sum.SeverityBreakdown {
		p.SeverityBreakdown[k] = v
	}
	for _, t := range sum.TopThreats {
		p.TopThreats = append(p.TopThreats, TopThreat{
			ThreatID:   t.ThreatID,
			ThreatName: t.ThreatName,
			Severity:   t.Severity,
			Confidence: t.Confidence,
		})
	}
	return p
}

// Provider turns a projection into advisory text.
type Provider interface {
	Name() string
	Advise(ctx context.Context, p Projection) (string, error)
}

// Prompt renders the user-side prompt for LLM-backed providers.
func Prompt(p Projection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall risk level: %s\n", p.OverallRiskLevel)
	fmt.Fprintf(&b, "Summary: %s\n", p.Summary)
	if len(p.TopThreats) > 0 {
		b.WriteString("Top threats:\n")
		for _, t := range p.TopThreats {
			fmt.Fprintf(&b, "- %s (severity %s, confidence %.2f)\n", t.ThreatName, t.Severity, t.Confidence)
		}
	}
	if p.HasUncertainty {
		b.WriteString("Uncertainty notes:\n")
		for _, n := range p.UncertaintyNotes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return b.String()
}

// SystemPrompt frames every LLM call. Providers must not deviate from the
// advisory-only contract it states.
const SystemPrompt = "You are a data governance analyst. You receive a risk summary " +
	"for a synthetic dataset and write a short advisory commentary for a human reviewer. " +
	"Explain what the detected threats mean in practice and what to examine next. " +
	"You must not approve, reject, or certify the dataset, and you must not invent " +
	"metrics that are not in the summary."
