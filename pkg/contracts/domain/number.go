package domain

import (
	"encoding/json"
	"strconv"
)

// Number is a numeric cell value that may be missing
type Number struct {
	Value float64
	Valid bool
}

// Missing is the missing-value marker
var Missing = Number{}

// Some wraps a defined value
func Some(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Scale divides a defined value by the divisor; missing stays missing
func (n Number) Scale(divisor float64) Number {
	if !n.Valid || divisor == 0 {
		return n
	}
	return Some(n.Value / divisor)
}

// MarshalJSON encodes missing values as null
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON decodes null as missing
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Missing
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// AllValid reports whether every number in the slice is defined
func AllValid(ns []Number) bool {
	for _, n := range ns {
		if !n.Valid {
			return false
		}
	}
	return true
}
