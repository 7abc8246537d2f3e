// Package engine assembles the full evaluation pipeline: sanitize, interpret,
// aggregate, shape. It is the only package callers need; everything below it
// is deterministic and side-effect free.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/outsidedata/govcore/internal/catalog"
	"github.com/outsidedata/govcore/internal/metrics"
	"github.com/outsidedata/govcore/internal/risk"
	"github.com/outsidedata/govcore/internal/threat"
)

// Version is the engine version reported in every result.
const Version = "2.1.0"

// Mode selects how much threat detail the result carries.
type Mode string

const (
	// ModeSummary omits the threats list entirely.
	ModeSummary Mode = "summary"
	// ModeDetailed includes threats with trimmed evidence.
	ModeDetailed Mode = "detailed"
	// ModeFull includes threats with complete evidence.
	ModeFull Mode = "full"
)

// ParseMode validates a mode string, defaulting the empty string to summary.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeSummary, nil
	case ModeSummary, ModeDetailed, ModeFull:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want summary, detailed or full)", s)
}

// detailedConditionCap bounds the triggered-condition list in detailed mode.
const detailedConditionCap = 2

var disclaimers = []string{
	"This assessment is advisory only and does not constitute compliance certification.",
	"Risk levels are interpretive and should inform, not replace, human decision-making.",
	"No approval or rejection decisions are made by this system.",
}

// Options configures an Engine. The zero value is usable: default catalog,
// summary mode, default top-threat cap.
type Options struct {
	Mode       Mode
	TopThreats int
	Catalog    *catalog.Catalog
}

// Metadata echoes the evaluation context back to the caller.
type Metadata struct {
	Version      string `json:"version"`
	Timestamp    string `json:"timestamp"`
	Mode         Mode   `json:"mode"`
	EvaluationID string `json:"evaluation_id"`
}

// Result is the outward envelope of one evaluation. It is constructed once
// and never modified afterwards; by construction it carries no approval or
// deployment decision of any kind.
type Result struct {
	DatasetRiskSummary risk.Summary    `json:"dataset_risk_summary"`
	Threats            []threat.Signal `json:"threats,omitempty"`
	HasUncertainty     bool            `json:"has_uncertainty"`
	UncertaintyNotes   []string        `json:"uncertainty_notes"`
	Disclaimers        []string        `json:"disclaimers"`
	Metadata           Metadata        `json:"metadata"`
	Advisory           string          `json:"advisory,omitempty"`
}

// Engine evaluates metric dictionaries against a fixed catalog. Safe for
// concurrent use: it holds no mutable state between evaluations.
type Engine struct {
	cat        *catalog.Catalog
	mode       Mode
	topThreats int
	now        func() time.Time
}

// New builds an engine, validating the catalog up front so Evaluate never
// sees a malformed rule.
func New(opts Options) (*Engine, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	top := opts.TopThreats
	if top < 1 {
		top = risk.DefaultTopThreats
	}
	return &Engine{cat: cat, mode: mode, topThreats: top, now: time.Now}, nil
}

// Evaluate runs the full pipeline over one raw metric mapping. The mapping
// is read but never retained or mutated. A nil mapping is the one contract
// violation and returns an error; everything else degrades gracefully.
func (e *Engine) Evaluate(raw map[string]any) (*Result, error) {
	if raw == nil {
		return nil, fmt.Errorf("metrics must be a non-nil mapping")
	}

	snap, issues := metrics.Sanitize(raw)
	outcome := threat.Map(e.cat, snap)
	summary, notes := risk.Aggregate(outcome, issues, e.topThreats)
	if notes == nil {
		notes = []string{}
	}

	res := &Result{
		DatasetRiskSummary: summary,
		HasUncertainty:     len(notes) > 0,
		UncertaintyNotes:   notes,
		Disclaimers:        disclaimers,
		Metadata: Metadata{
			Version:      Version,
			Timestamp:    e.now().UTC().Format(time.RFC3339),
			Mode:         e.mode,
			EvaluationID: uuid.NewString(),
		},
	}

	switch e.mode {
	case ModeDetailed:
		res.Threats = trimSignals(outcome.Signals)
	case ModeFull:
		res.Threats = copySignals(outcome.Signals)
	}
	return res, nil
}

// copySignals deep-copies signals so the envelope never aliases slices or
// maps held by the summary's top_threats.
func copySignals(signals []threat.Signal) []threat.Signal {
	if len(signals) == 0 {
		return nil
	}
	out := make([]threat.Signal, len(signals))
	for i, s := range signals {
		out[i] = copySignal(s)
	}
	return out
}

func copySignal(s threat.Signal) threat.Signal {
	c := s
	c.RelatedMetrics = append([]string(nil), s.RelatedMetrics...)
	c.TriggeredConditions = append([]string(nil), s.TriggeredConditions...)
	c.Evidence = make(map[string]any, len(s.Evidence))
	for k, v := range s.Evidence {
		c.Evidence[k] = v
	}
	return c
}

// trimSignals shapes signals for detailed mode: evidence is reduced to the
// primary metric and long condition lists are capped. Full mode's evidence
// is therefore always a superset of detailed mode's.
func trimSignals(signals []threat.Signal) []threat.Signal {
	out := copySignals(signals)
	for i := range out {
		primary := out[i].RelatedMetrics[0]
		if v, ok := out[i].Evidence[primary]; ok {
			out[i].Evidence = map[string]any{primary: v}
		}
		if len(out[i].TriggeredConditions) > detailedConditionCap {
			out[i].TriggeredConditions = out[i].TriggeredConditions[:detailedConditionCap]
		}
	}
	return out
}
