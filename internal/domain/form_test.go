package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormInput_UnmarshalMixedValues(t *testing.T) {
	body := `{
		"cyp2d6_status": "Poor Metabolizer",
		"current_meds": "Tylenol with Codeine",
		"cyp1a2_status": "Slow Metabolizer",
		"caffeine_post_12pm": 250,
		"mthfr_status": null
	}`

	var in FormInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Equal(t, FormValue("Poor Metabolizer"), in.CYP2D6Status)
	assert.Equal(t, FormValue("Tylenol with Codeine"), in.CurrentMeds)
	assert.Equal(t, FormValue("250"), in.CaffeinePost12PM)
	assert.Equal(t, FormValue(""), in.MTHFRStatus)
	assert.Equal(t, FormValue(""), in.ADH1BStatus)
}

func TestFormInput_GeneStatuses(t *testing.T) {
	in := FormInput{
		CYP2D6Status: "Normal Metabolizer",
		ADH1BStatus:  "Fast Metabolizer",
	}

	statuses := in.GeneStatuses()

	assert.Len(t, statuses, len(TrackedGenes))
	assert.Equal(t, "Normal Metabolizer", statuses[CYP2D6])
	assert.Equal(t, "Fast Metabolizer", statuses[ADH1B])
	assert.Equal(t, "", statuses[MTHFR])
}
