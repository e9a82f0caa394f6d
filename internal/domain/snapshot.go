package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Quantity is a numeric form value that may be missing or unparseable.
// An invalid quantity never satisfies a threshold.
type Quantity struct {
	Value int
	Valid bool
}

// ParseQuantity reads the leading integer of raw, the way a browser form handler does:
// leading whitespace and a sign are accepted, parsing stops at the first non-digit,
// and input with no leading digits yields an invalid quantity.
func ParseQuantity(raw string) Quantity {
	s := strings.TrimLeft(raw, " \t\r\n")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return Quantity{}
	}

	// Out-of-range digits saturate at the int limits instead of invalidating the value.
	n, err := strconv.ParseInt(s[:end], 10, 0)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Quantity{}
	}
	return Quantity{Value: int(n), Valid: true}
}

// AtLeast reports whether the quantity is present and >= threshold.
func (q Quantity) AtLeast(threshold int) bool {
	return q.Valid && q.Value >= threshold
}

// MarshalJSON encodes an invalid quantity as null.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(q.Value)
}

// UnmarshalJSON accepts a number or null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = Quantity{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Quantity{Value: n, Valid: true}
	return nil
}

// InputSnapshot holds one submission's answers. Every tracked gene has an entry, possibly
// empty; empty values simply fail to match.
type InputSnapshot struct {
	Statuses    map[Gene]string `json:"statuses"`
	Medications string          `json:"medications"`
	CaffeineMg  Quantity        `json:"caffeine_mg"`
}

// NewInputSnapshot returns a snapshot with an empty status for every tracked gene.
func NewInputSnapshot() InputSnapshot {
	statuses := make(map[Gene]string, len(TrackedGenes))
	for _, g := range TrackedGenes {
		statuses[g] = ""
	}
	return InputSnapshot{Statuses: statuses}
}

// Status returns the selected status for gene, or "" when none was given.
func (s InputSnapshot) Status(gene Gene) string {
	return s.Statuses[gene]
}

// Numeric returns the snapshot value backing a threshold condition.
func (s InputSnapshot) Numeric(field NumericField) Quantity {
	switch field {
	case CaffeineAfterNoon:
		return s.CaffeineMg
	default:
		return Quantity{}
	}
}
