package dataprocessing

import "scorepanel/pkg/contracts/domain"

// Variation returns the stage-over-stage difference of a series. The first
// element is always 0, and so is any step where either side is missing.
func Variation(series []domain.Number) []float64 {
	out := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		if prev.Valid && cur.Valid {
			out[i] = cur.Value - prev.Value
		}
	}
	return out
}

// RelativeVariation returns the percentage change against the previous
// stage. It is missing for the first stage, for gaps, and when the previous
// value is zero.
func RelativeVariation(series []domain.Number) []domain.Number {
	out := make([]domain.Number, len(series))
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		if !prev.Valid || !cur.Valid || prev.Value == 0 {
			continue
		}
		out[i] = domain.Some(100 * (cur.Value - prev.Value) / prev.Value)
	}
	return out
}
