package domain

import (
	"bytes"
	"encoding/json"
)

// FormValue is a raw form control value. JSON clients may send it as a string, a number
// or null; all three decode to the text a form control would hold.
type FormValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	default:
		*v = FormValue(data)
	}
	return nil
}

// FormInput is the intake form as submitted, before parsing into an InputSnapshot.
type FormInput struct {
	CYP2D6Status     FormValue `json:"cyp2d6_status"`
	CurrentMeds      FormValue `json:"current_meds"`
	CYP1A2Status     FormValue `json:"cyp1a2_status"`
	CaffeinePost12PM FormValue `json:"caffeine_post_12pm"`
	MTHFRStatus      FormValue `json:"mthfr_status"`
	ADH1BStatus      FormValue `json:"adh1b_status"`
}

// GeneStatuses returns the raw status value for each tracked gene.
func (f FormInput) GeneStatuses() map[Gene]string {
	return map[Gene]string{
		CYP2D6: string(f.CYP2D6Status),
		CYP1A2: string(f.CYP1A2Status),
		MTHFR:  string(f.MTHFRStatus),
		ADH1B:  string(f.ADH1BStatus),
	}
}
