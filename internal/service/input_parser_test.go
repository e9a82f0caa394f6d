package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wellness-advisor-server/internal/domain"
)

func TestInputParser_Parse(t *testing.T) {
	parser := NewInputParser()

	snapshot := parser.Parse(domain.FormInput{
		CYP2D6Status:     "Poor Metabolizer",
		CurrentMeds:      "  Tylenol with Codeine \n",
		CYP1A2Status:     "Slow Metabolizer",
		CaffeinePost12PM: "250mg",
		MTHFRStatus:      "",
		ADH1BStatus:      "Fast Metabolizer",
	})

	assert.Equal(t, "Poor Metabolizer", snapshot.Status(domain.CYP2D6))
	assert.Equal(t, "Slow Metabolizer", snapshot.Status(domain.CYP1A2))
	assert.Equal(t, "", snapshot.Status(domain.MTHFR))
	assert.Equal(t, "Fast Metabolizer", snapshot.Status(domain.ADH1B))
	assert.Equal(t, "Tylenol with Codeine", snapshot.Medications)
	assert.Equal(t, domain.Quantity{Value: 250, Valid: true}, snapshot.CaffeineMg)
}

func TestInputParser_ParseCaffeine(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		raw  domain.FormValue
		want domain.Quantity
	}{
		{"200", domain.Quantity{Value: 200, Valid: true}},
		{"12.7", domain.Quantity{Value: 12, Valid: true}},
		{"", domain.Quantity{}},
		{"abc", domain.Quantity{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.raw), func(t *testing.T) {
			snapshot := parser.Parse(domain.FormInput{CaffeinePost12PM: tt.raw})
			assert.Equal(t, tt.want, snapshot.CaffeineMg)
		})
	}
}

func TestInputParser_EmptyForm(t *testing.T) {
	snapshot := NewInputParser().Parse(domain.FormInput{})

	assert.Len(t, snapshot.Statuses, len(domain.TrackedGenes))
	assert.Empty(t, snapshot.Medications)
	assert.False(t, snapshot.CaffeineMg.Valid)
}
