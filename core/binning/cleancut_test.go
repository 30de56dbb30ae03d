package binning

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(lo, hi int) []float64 {
	out := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, float64(i))
	}
	return out
}

func noMissing() CutOptions {
	opts := DefaultCutOptions()
	opts.Missing = nil
	return opts
}

func TestCleanCutAutoBins(t *testing.T) {
	v := NewVariable("age", seq(1, 100))
	cat, err := CleanCut(v, BinCount(4), noMissing())
	require.NoError(t, err)

	assert.Equal(t, []string{"1-26", "27-50", "51-75", "76-100"}, cat.Categories)
	assert.Equal(t, []int{26, 24, 25, 25}, cat.Counts())
	assert.Equal(t, 0, cat.Codes[25])
	assert.Equal(t, 1, cat.Codes[26])
}

func TestCleanCutExplicitCuts(t *testing.T) {
	v := NewVariable("x", seq(1, 100))
	cat, err := CleanCut(v, BinCuts(22, 50), noMissing())
	require.NoError(t, err)
	assert.Equal(t, []string{"1-22", "23-50", "51-100"}, cat.Categories)
}

func TestCleanCutCleanBoundaries(t *testing.T) {
	v := NewVariable("x", seq(0, 100))
	opts := noMissing()
	opts.CleanCuts = true
	cat, err := CleanCut(v, BinCuts(23, 61, 7), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"0-7", "8-25", "26-60", "61-100"}, cat.Categories)

	opts.CutsDivisor = 0
	_, err = CleanCut(v, BinCuts(23), opts)
	assert.ErrorIs(t, err, ErrInvalidDivisor)
}

func TestCleanCutDigits(t *testing.T) {
	v := NewVariable("x", []float64{0.12, 0.5, 0.98})
	opts := noMissing()
	opts.Digits = 1
	cat, err := CleanCut(v, BinCuts(0.5), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.1-0.5", "0.6-1.0"}, cat.Categories)
	assert.Equal(t, []int{0, 0, 1}, cat.Codes)
}

func TestCleanCutCoverageAfterRounding(t *testing.T) {
	v := NewVariable("x", []float64{1.6, 2.2, 3})
	cat, err := CleanCut(v, BinCuts(), noMissing())
	require.NoError(t, err)
	assert.Equal(t, []string{"2-3"}, cat.Categories)
	assert.Equal(t, []int{0, 0, 0}, cat.Codes)
}

func TestCleanCutOrdering(t *testing.T) {
	values := []float64{-999, 1, 5, 10, nan, -1}
	excs := []float64{-1, -999}

	tests := []struct {
		name      string
		excPos    Position
		missPos   Position
		wantCats  []string
		wantCodes []int
	}{
		{
			name: "defaults: missing first, exceptions last", excPos: Last, missPos: First,
			wantCats:  []string{"Missing", "1-5", "6-10", "-999", "-1"},
			wantCodes: []int{3, 1, 1, 2, 0, 4},
		},
		{
			name: "both first", excPos: First, missPos: First,
			wantCats:  []string{"-999", "-1", "Missing", "1-5", "6-10"},
			wantCodes: []int{0, 3, 3, 4, 2, 1},
		},
		{
			name: "both last", excPos: Last, missPos: Last,
			wantCats:  []string{"1-5", "6-10", "-999", "-1", "Missing"},
			wantCodes: []int{2, 0, 0, 1, 4, 3},
		},
		{
			name: "exceptions first, missing last", excPos: First, missPos: Last,
			wantCats:  []string{"-999", "-1", "1-5", "6-10", "Missing"},
			wantCodes: []int{0, 2, 2, 3, 4, 1},
		},
		{
			name: "zero positions use defaults", excPos: "", missPos: "",
			wantCats:  []string{"Missing", "1-5", "6-10", "-999", "-1"},
			wantCodes: []int{3, 1, 1, 2, 0, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultCutOptions()
			opts.Exceptions = excs
			opts.ExceptionsPosition = tt.excPos
			opts.MissingPosition = tt.missPos
			cat, err := CleanCut(NewVariable("x", values), BinCuts(5), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCats, cat.Categories)
			assert.Equal(t, tt.wantCodes, cat.Codes)
		})
	}
}

func TestCleanCutMissingHandling(t *testing.T) {
	values := []float64{nan, 1, 2}

	t.Run("nil missing leaves records null", func(t *testing.T) {
		cat, err := CleanCut(NewVariable("x", values), BinCuts(), noMissing())
		require.NoError(t, err)
		assert.Equal(t, []string{"1-2"}, cat.Categories)
		assert.Equal(t, []int{NullCode, 0, 0}, cat.Codes)
	})

	t.Run("custom label", func(t *testing.T) {
		opts := DefaultCutOptions()
		opts.Missing = MissingLabel("N/A")
		cat, err := CleanCut(NewVariable("x", values), BinCuts(), opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"N/A", "1-2"}, cat.Categories)
		assert.Equal(t, []int{0, 1, 1}, cat.Codes)
	})

	t.Run("label collision", func(t *testing.T) {
		opts := DefaultCutOptions()
		opts.Missing = MissingLabel("1-2")
		_, err := CleanCut(NewVariable("x", values), BinCuts(), opts)
		assert.ErrorIs(t, err, ErrDuplicateCategory)
	})

	t.Run("all missing", func(t *testing.T) {
		cat, err := CleanCut(NewVariable("x", []float64{nan, nan}), BinCount(3), DefaultCutOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"Missing"}, cat.Categories)
		assert.Equal(t, []int{0, 0}, cat.Codes)
	})
}

func TestCleanCutDegenerate(t *testing.T) {
	cat, err := CleanCut(NewVariable("x", []float64{7, 7, 7}), BinCount(5), noMissing())
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, cat.Categories)
	assert.Equal(t, []int{0, 0, 0}, cat.Codes)
}

func TestCleanCutValidation(t *testing.T) {
	v := NewVariable("x", seq(1, 10))

	_, err := CleanCut(v, BinCount(0), noMissing())
	assert.ErrorIs(t, err, ErrInvalidBinCount)

	_, err = CleanCut(v, BinSpec{}, noMissing())
	assert.ErrorIs(t, err, ErrInvalidSpec)

	opts := noMissing()
	opts.Digits = -1
	_, err = CleanCut(v, BinCount(2), opts)
	assert.ErrorIs(t, err, ErrInvalidDigits)
}

func TestCleanCutWarnsOnExceptionBoundary(t *testing.T) {
	var buf bytes.Buffer
	opts := noMissing()
	opts.Exceptions = []float64{5}
	opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	cat, err := CleanCut(NewVariable("x", []float64{1, 5, 10}), BinCuts(5), opts)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "boundary coincides with exception value")
	assert.Equal(t, []string{"1-5", "6-10", "5"}, cat.Categories)
	assert.Equal(t, []int{0, 2, 1}, cat.Codes)
}

func TestCleanCutExceptionMatchesSingleValueBin(t *testing.T) {
	var buf bytes.Buffer
	opts := noMissing()
	opts.Exceptions = []float64{10}
	opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	cat, err := CleanCut(NewVariable("x", []float64{1, 5, 10, 11}), BinCuts(9, 10), opts)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "boundary coincides with exception value")
	assert.Equal(t, []string{"1-9", "10", "11", "10"}, cat.Categories)
	assert.Equal(t, []int{0, 0, 3, 2}, cat.Codes)
	assert.Equal(t, []int{2, 0, 1, 1}, cat.Counts())
}

func TestCleanCutIntegralDataWithDigits(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i + 1)
	}
	opts := noMissing()
	opts.Digits = 1

	cat, err := CleanCut(NewVariable("x", values), BinCuts(5), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0-5.0", "6.0-10.0"}, cat.Categories)
	assert.Equal(t, []int{5, 5}, cat.Counts())
}

func TestCleanCutIdempotent(t *testing.T) {
	v := NewVariable("x", []float64{3, 8, 15, 22, 47, 51, nan, -1, 99, 63})
	opts := DefaultCutOptions()
	opts.Exceptions = []float64{-1}
	opts.CleanCuts = true

	first, err := CleanCut(v, BinCount(3), opts)
	require.NoError(t, err)
	second, err := CleanCut(v, BinCount(3), opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseBinSpec(t *testing.T) {
	spec, err := ParseBinSpec("5")
	require.NoError(t, err)
	assert.Equal(t, BinCount(5), spec)

	spec, err = ParseBinSpec("1, 22,50")
	require.NoError(t, err)
	assert.Equal(t, BinCuts(1, 22, 50), spec)
	assert.Equal(t, "[1, 22, 50]", spec.String())

	spec, err = ParseBinSpec("25,")
	require.NoError(t, err)
	assert.Equal(t, BinCuts(25), spec)

	_, err = ParseBinSpec("0")
	assert.ErrorIs(t, err, ErrInvalidBinCount)

	_, err = ParseBinSpec("abc")
	assert.ErrorIs(t, err, ErrInvalidSpec)

	_, err = ParseBinSpec("1,x")
	assert.ErrorIs(t, err, ErrInvalidSpec)
}
