package service

import (
	"fmt"

	"github.com/wellness-advisor-server/internal/domain"
)

// catalog is the fixed rule set, evaluated in this order. It is never mutated after init.
var catalog = []domain.Rule{
	{
		ID: "PGx-001",
		Condition: domain.Condition{
			Kind:   domain.ALLELE_DRUG,
			Gene:   domain.CYP2D6,
			Allele: "Poor Metabolizer",
			Drug:   "Codeine",
		},
		Level:    domain.CRITICAL,
		Title:    "Ineffective Analgesia & Toxicity Risk",
		Message:  "This genotype prevents the conversion of **Codeine** to its active form (morphine). **ACTION:** Avoid use. Alternative non-opioid or non-CYP2D6 analgesics are recommended.",
		Citation: "CPIC/PharmGKB Level 1A",
		Weight:   50,
	},
	{
		ID: "WL-002",
		Condition: domain.Condition{
			Kind:      domain.ALLELE_THRESHOLD,
			Gene:      domain.CYP1A2,
			Allele:    "Slow Metabolizer",
			Field:     domain.CaffeineAfterNoon,
			Threshold: 200,
		},
		Level:    domain.HIGH_PRIORITY,
		Title:    "Caffeine Metabolism & Sleep Risk",
		Message:  "Your slow caffeine clearance ($CYP1A2$) allows high levels to linger in your system. This dramatically increases the risk of insomnia and anxiety. **ACTION:** Shift all caffeine intake (especially >200mg) to **before 12 PM.**",
		Citation: "Journal of the American Medical Association, 2023",
		Weight:   30,
	},
	{
		ID: "WL-003",
		Condition: domain.Condition{
			Kind:   domain.ALLELE_ONLY,
			Gene:   domain.MTHFR,
			Allele: "Reduced Function",
		},
		Level:    domain.LIFESTYLE_INSIGHT,
		Title:    "Folate Metabolism Support Required",
		Message:  "Your reduced MTHFR enzyme function may affect B-vitamin processing. **ACTION:** Focus on a diet rich in natural folate (leafy greens, lentils) and discuss a bioavailable B-vitamin supplement (methylfolate) with your physician.",
		Citation: "NIH/CDC Guidance on MTHFR Polymorphisms",
		Weight:   15,
	},
	{
		ID: "WL-004",
		Condition: domain.Condition{
			Kind:   domain.ALLELE_ONLY,
			Gene:   domain.ADH1B,
			Allele: "Fast Metabolizer",
		},
		Level:    domain.HIGH_PRIORITY,
		Title:    "Alcohol Flush & Discomfort Risk",
		Message:  "Your genetics cause rapid breakdown of ethanol, leading to a quick buildup of toxic acetaldehyde. **ACTION:** Limit intake to 1 drink per sitting to avoid flush, nausea, and potential increased long-term risk.",
		Citation: "NIAAA Guidelines on ADH1B Variants",
		Weight:   25,
	},
}

// MaxScore is the sum of all catalog weights, the score reached when every rule matches.
var MaxScore = sumWeights(catalog)

func init() {
	seen := make(map[string]bool, len(catalog))
	for i := range catalog {
		if err := catalog[i].Validate(); err != nil {
			panic(err)
		}
		if seen[catalog[i].ID] {
			panic(fmt.Sprintf("duplicate rule ID in catalog: %s", catalog[i].ID))
		}
		seen[catalog[i].ID] = true
	}
}

// Catalog returns a copy of the rule catalog in evaluation order.
func Catalog() []domain.Rule {
	rules := make([]domain.Rule, len(catalog))
	copy(rules, catalog)
	return rules
}

// LookupRule finds a catalog rule by ID.
func LookupRule(id string) (domain.Rule, error) {
	for _, r := range catalog {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Rule{}, fmt.Errorf("%w: %s", domain.ErrUnknownRule, id)
}

func sumWeights(rules []domain.Rule) int {
	total := 0
	for _, r := range rules {
		total += r.Weight
	}
	return total
}
