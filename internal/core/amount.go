// Package core holds the trip domain model and the balance computation.
//
// This file contains amount parsing and validation. Amounts cross every
// boundary as float64 BRL values; only positive finite numbers are accepted.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a BRL amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for empty input, non-numeric input, non-finite
// values, and values <= 0.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if err := ValidateAmount(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateAmount rejects non-positive and non-finite amounts.
func ValidateAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
