package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"scorepanel/pkg/contracts/domain"
)

// ParseNumber converts a pt-BR formatted cell ("1.234,56", "85,12%") into a
// number. Percent values keep their scale: "85,12%" parses to 85.12.
// Anything that does not reduce to a finite float is reported as missing.
func ParseNumber(raw string, isPercent bool) domain.Number {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Missing
	}

	if isPercent {
		s = strings.ReplaceAll(s, "%", "")
	}

	// "." groups thousands, "," marks decimals
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Missing
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Missing
	}
	return domain.Some(v)
}

// ParseNumbers parses every value, keeping positions of missing ones
func ParseNumbers(raws []string, isPercent bool) []domain.Number {
	out := make([]domain.Number, len(raws))
	for i, raw := range raws {
		out[i] = ParseNumber(raw, isPercent)
	}
	return out
}
