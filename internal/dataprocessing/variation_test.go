package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scorepanel/pkg/contracts/domain"
)

func TestVariation(t *testing.T) {
	tests := []struct {
		name   string
		series []domain.Number
		want   []float64
	}{
		{"empty", []domain.Number{}, []float64{}},
		{"single", []domain.Number{domain.Some(5)}, []float64{0}},
		{
			"gap zeroes both neighbours",
			[]domain.Number{domain.Some(10), domain.Some(7), domain.Missing, domain.Some(9)},
			[]float64{0, -3, 0, 0},
		},
		{
			"increasing",
			[]domain.Number{domain.Some(1), domain.Some(2.5), domain.Some(4)},
			[]float64{0, 1.5, 1.5},
		},
		{
			"leading missing",
			[]domain.Number{domain.Missing, domain.Some(3), domain.Some(1)},
			[]float64{0, 0, -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Variation(tt.series))
		})
	}
}

func TestRelativeVariation(t *testing.T) {
	got := RelativeVariation([]domain.Number{
		domain.Some(10), domain.Some(5), domain.Some(0), domain.Some(4), domain.Missing, domain.Some(2),
	})

	assert.Len(t, got, 6)
	assert.False(t, got[0].Valid, "first stage has no prior point")
	assert.InDelta(t, -50.0, got[1].Value, 1e-9)
	assert.InDelta(t, -100.0, got[2].Value, 1e-9)
	assert.False(t, got[3].Valid, "previous value is zero")
	assert.False(t, got[4].Valid, "current value is missing")
	assert.False(t, got[5].Valid, "previous value is missing")

	assert.Empty(t, RelativeVariation(nil))
}
