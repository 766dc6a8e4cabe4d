package contracts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Metric is an optional float: a finite value, or absent.
// "Zero profit margin" (Some(0)) and "margin unknown" (None) are distinct.
// JSON form is a number or null.
type Metric struct {
	Value float64
	Valid bool
}

// Some returns a present metric; NaN and ±Inf are treated as absent
func Some(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{Value: v, Valid: true}
}

// None returns an absent metric
func None() Metric {
	return Metric{}
}

// FromPtr converts a nullable provider value
func FromPtr(v *float64) Metric {
	if v == nil {
		return Metric{}
	}
	return Some(*v)
}

// Get returns the value and whether it is present
func (m Metric) Get() (float64, bool) {
	return m.Value, m.Valid
}

// Positive reports whether the metric is present and > 0
func (m Metric) Positive() bool {
	return m.Valid && m.Value > 0
}

// MarshalJSON encodes an absent metric as null
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(m.Value, 'g', -1, 64)), nil
}

// UnmarshalJSON decodes a number or null
func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}
