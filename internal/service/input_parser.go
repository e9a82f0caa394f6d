package service

import (
	"strings"

	"github.com/wellness-advisor-server/internal/domain"
)

// InputParser converts raw form values into an InputSnapshot.
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// Parse never fails: missing statuses stay empty, medication text is trimmed, and a
// caffeine value without a leading integer becomes an invalid quantity.
func (p *InputParser) Parse(input domain.FormInput) domain.InputSnapshot {
	snapshot := domain.NewInputSnapshot()
	for gene, status := range input.GeneStatuses() {
		snapshot.Statuses[gene] = status
	}
	snapshot.Medications = strings.TrimSpace(string(input.CurrentMeds))
	snapshot.CaffeineMg = domain.ParseQuantity(string(input.CaffeinePost12PM))
	return snapshot
}
