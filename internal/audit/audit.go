// Package audit records one event per evaluation for downstream audit
// systems. Delivery is fully decoupled from the evaluation path: events are
// queued and shipped by background workers, and a full queue drops rather
// than blocks.
package audit

import (
	"time"

	"github.com/outsidedata/govcore/internal/catalog"
	"github.com/outsidedata/govcore/internal/engine"
	"github.com/outsidedata/govcore/internal/risk"
)

// Event is the canonical audit payload. It carries derived facts only, never
// the caller's raw metrics.
type Event struct {
	Version           string                   `json:"version"`
	Timestamp         time.Time                `json:"timestamp"`
	EvaluationID      string                   `json:"evaluation_id"`
	Mode              engine.Mode              `json:"mode"`
	OverallRiskLevel  risk.Level               `json:"overall_risk_level"`
	ThreatCount       int                      `json:"threat_count"`
	SeverityBreakdown map[catalog.Severity]int `json:"severity_breakdown,omitempty"`
	HasUncertainty    bool                     `json:"has_uncertainty"`
	DurationMs        float64                  `json:"duration_ms"`
}

// BuildEvent derives the audit payload from a finished evaluation.
func BuildEvent(res *engine.Result, duration time.Duration) *Event {
	if res == nil {
		return nil
	}
	sum := res.DatasetRiskSummary
	breakdown := make(map[catalog.Severity]int, len(sum.SeverityBreakdown))
	for k, v := range sum.SeverityBreakdown {
		breakdown[k] = v
	}
	return &Event{
		Version:           engine.Version,
		Timestamp:         time.Now().UTC(),
		EvaluationID:      res.Metadata.EvaluationID,
		Mode:              res.Metadata.Mode,
		OverallRiskLevel:  sum.OverallRiskLevel,
		ThreatCount:       sum.TotalThreats,
		SeverityBreakdown: breakdown,
		HasUncertainty:    res.HasUncertainty,
		DurationMs:        float64(duration) / float64(time.Millisecond),
	}
}
