package catalog

import "fmt"

// Validate checks the whole table and fails fast on the first defect. A
// catalog that passes can be evaluated without further checks, so the
// interpreter never guards against malformed rules at evaluation time.
func (c *Catalog) Validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("catalog has no rules")
	}
	seen := make(map[ThreatID]bool, len(c.Rules))
	for i, r := range c.Rules {
		if err := validateRule(r); err != nil {
			return fmt.Errorf("rule %d (%s): %w", i, r.Threat, err)
		}
		if seen[r.Threat] {
			return fmt.Errorf("rule %d: duplicate threat id %q", i, r.Threat)
		}
		seen[r.Threat] = true
	}
	return nil
}

func validateRule(r Rule) error {
	if r.Threat == "" {
		return fmt.Errorf("missing threat id")
	}
	if r.Name == "" {
		return fmt.Errorf("missing name")
	}
	if r.MetricPath == "" {
		return fmt.Errorf("missing metric_path")
	}
	if r.Property.Weight() == 0 {
		return fmt.Errorf("unknown property %q", r.Property)
	}
	if len(r.Boundaries) == 0 {
		return fmt.Errorf("no boundaries")
	}
	switch r.Predicate {
	case PredicateGreater, PredicateGreaterEqual, PredicateLess, PredicateRange, PredicateOneOf:
	default:
		return fmt.Errorf("unknown predicate %q", r.Predicate)
	}
	if err := validateBoundaries(r.Predicate, r.Boundaries); err != nil {
		return err
	}
	return validateConfidence(r.Confidence, r.Boundaries)
}

func validateBoundaries(p Predicate, bs []Boundary) error {
	prev := 0
	for i, b := range bs {
		rank := b.Severity.Rank()
		if rank == 0 {
			return fmt.Errorf("boundary %d: unknown severity %q", i, b.Severity)
		}
		if i > 0 && rank >= prev {
			return fmt.Errorf("boundary %d: severities must be declared most severe first", i)
		}
		prev = rank

		switch p {
		case PredicateOneOf:
			if len(b.Categories) == 0 {
				return fmt.Errorf("boundary %d: one_of boundary needs categories", i)
			}
		case PredicateRange:
			if b.Upper <= b.Value {
				return fmt.Errorf("boundary %d: range upper %v must exceed lower %v", i, b.Upper, b.Value)
			}
		}
	}

	// Numeric boundaries must tighten monotonically so a value crossing a
	// less severe threshold cannot also satisfy a more severe one that was
	// skipped by declaration order.
	for i := 1; i < len(bs); i++ {
		switch p {
		case PredicateGreater, PredicateGreaterEqual:
			if bs[i].Value >= bs[i-1].Value {
				return fmt.Errorf("boundary %d: value %v must be below the more severe %v", i, bs[i].Value, bs[i-1].Value)
			}
		case PredicateLess:
			if bs[i].Value <= bs[i-1].Value {
				return fmt.Errorf("boundary %d: value %v must be above the more severe %v", i, bs[i].Value, bs[i-1].Value)
			}
		}
	}
	return nil
}

func validateConfidence(c ConfidenceSpec, bs []Boundary) error {
	switch c.Kind {
	case ConfidenceDistance:
		if c.Scale <= 0 {
			return fmt.Errorf("distance confidence needs a positive scale")
		}
	case ConfidenceLog10:
		if c.Divisor <= 0 {
			return fmt.Errorf("log10 confidence needs a positive divisor")
		}
	case ConfidenceTiered:
		if len(c.Tiers) == 0 {
			return fmt.Errorf("tiered confidence needs tiers")
		}
		for _, b := range bs {
			v, ok := c.Tiers[b.Severity]
			if !ok {
				return fmt.Errorf("tiered confidence missing tier for severity %q", b.Severity)
			}
			if v < 0 || v > 1 {
				return fmt.Errorf("tier for severity %q out of [0,1]: %v", b.Severity, v)
			}
		}
	default:
		return fmt.Errorf("unknown confidence kind %q", c.Kind)
	}
	return nil
}
