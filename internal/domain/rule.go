package domain

import (
	"errors"
	"fmt"
)

// ConditionKind tags the shape of a rule's predicate.
type ConditionKind string

const (
	// ALLELE_DRUG matches a gene status plus a drug named in the medication list.
	ALLELE_DRUG ConditionKind = "ALLELE_DRUG"
	// ALLELE_THRESHOLD matches a gene status plus a numeric intake at or above a threshold.
	ALLELE_THRESHOLD ConditionKind = "ALLELE_THRESHOLD"
	// ALLELE_ONLY matches a gene status alone.
	ALLELE_ONLY ConditionKind = "ALLELE_ONLY"
)

// NumericField names a numeric value in the input snapshot that threshold conditions compare.
type NumericField string

const (
	CaffeineAfterNoon NumericField = "caffeine_post_12pm"
)

// IsValid validates the condition kind.
func (k ConditionKind) IsValid() bool {
	switch k {
	case ALLELE_DRUG, ALLELE_THRESHOLD, ALLELE_ONLY:
		return true
	default:
		return false
	}
}

// Condition is the predicate attached to a rule. Only the fields relevant to Kind are set.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Gene      Gene          `json:"gene"`
	Allele    string        `json:"allele"`
	Drug      string        `json:"drug,omitempty"`
	Field     NumericField  `json:"field,omitempty"`
	Threshold int           `json:"threshold,omitempty"`
}

// Rule is an immutable alert definition from the rule catalog.
type Rule struct {
	ID        string     `json:"id"`
	Condition Condition  `json:"condition"`
	Level     AlertLevel `json:"level"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Citation  string     `json:"citation"`
	Weight    int        `json:"weight"`
}

// Validate ensures a rule definition is complete and internally consistent.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule validation: %w", errors.New("rule ID is required"))
	}

	if !r.Level.IsValid() {
		return fmt.Errorf("rule validation %s: %w", r.ID, ErrInvalidAlertLevel)
	}

	if r.Weight < 0 {
		return fmt.Errorf("rule validation %s: weight must be non-negative", r.ID)
	}

	c := r.Condition
	if !c.Gene.IsValid() {
		return fmt.Errorf("rule validation %s: untracked gene %q", r.ID, c.Gene)
	}
	if c.Allele == "" {
		return fmt.Errorf("rule validation %s: allele is required", r.ID)
	}

	switch c.Kind {
	case ALLELE_DRUG:
		if c.Drug == "" {
			return fmt.Errorf("rule validation %s: drug is required for %s", r.ID, c.Kind)
		}
	case ALLELE_THRESHOLD:
		if c.Field == "" {
			return fmt.Errorf("rule validation %s: numeric field is required for %s", r.ID, c.Kind)
		}
	case ALLELE_ONLY:
	default:
		return fmt.Errorf("rule validation %s: invalid condition kind %q", r.ID, c.Kind)
	}

	return nil
}
