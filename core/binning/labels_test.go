package binning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeLabels(t *testing.T) {
	tests := []struct {
		name       string
		boundaries []float64
		digits     int
		integral   bool
		want       []string
	}{
		{"integral boundaries", []float64{1, 22, 50, 100}, 0, true, []string{"1-22", "23-50", "51-100"}},
		{"nudged start meets end", []float64{1, 2, 3}, 0, true, []string{"1-2", "3"}},
		{"one decimal", []float64{0.5, 1.3, 2}, 1, false, []string{"0.5-1.3", "1.4-2.0"}},
		{"integral data with decimals", []float64{1, 5, 10}, 1, true, []string{"1.0-5.0", "6.0-10.0"}},
		{"integral data meets end with decimals", []float64{1, 5, 6}, 2, true, []string{"1.00-5.00", "6.00"}},
		{"fractional data on integral boundaries", []float64{1, 5, 10}, 1, false, []string{"1.0-5.0", "5.1-10.0"}},
		{"rounded before labelling", []float64{0.98, 2.04}, 1, false, []string{"1.0-2.0"}},
		{"negative values", []float64{-10, -5, 0}, 0, true, []string{"-10--5", "-4-0"}},
		{"fractional data without decimals", []float64{0.2, 3.7, 8}, 0, false, []string{"0-4", "5-8"}},
		{"single boundary", []float64{5}, 0, true, nil},
		{"empty", nil, 0, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MakeLabels(tt.boundaries, tt.digits, tt.integral))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(-0.2, 0))
	assert.Equal(t, "12", formatNumber(12.4, 0))
	assert.Equal(t, "1.50", formatNumber(1.5, 2))
	assert.Equal(t, "2", formatNumber(2.5, 0), "halves round to even")
}

func TestCleanCuts(t *testing.T) {
	t.Run("snaps values at or above threshold", func(t *testing.T) {
		got, err := CleanCuts([]float64{23, 61, 7}, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, []float64{25, 60, 7}, got)
	})

	t.Run("exact multiples are unchanged", func(t *testing.T) {
		got, err := CleanCuts([]float64{10, 15, 100}, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 15, 100}, got)
	})

	t.Run("remainder takes the sign of the divisor", func(t *testing.T) {
		got, err := CleanCuts([]float64{-12, -14}, 5, -20)
		require.NoError(t, err)
		assert.Equal(t, []float64{-10, -15}, got)
	})

	t.Run("half the divisor rounds up", func(t *testing.T) {
		got, err := CleanCuts([]float64{12.5}, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, []float64{15}, got)
	})

	t.Run("does not modify input", func(t *testing.T) {
		in := []float64{23}
		_, err := CleanCuts(in, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, []float64{23}, in)
	})

	t.Run("rejects non-positive divisor", func(t *testing.T) {
		_, err := CleanCuts([]float64{23}, 0, 10)
		assert.ErrorIs(t, err, ErrInvalidDivisor)
	})
}
