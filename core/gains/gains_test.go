package gains

import (
	"math"
	"testing"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string][]float64

func (m mapSource) Variable(name string) (binning.Variable, error) {
	v, ok := m[name]
	if !ok {
		return binning.Variable{}, assert.AnError
	}
	return binning.Variable{Name: name, Values: v}, nil
}

func TestCalcKS(t *testing.T) {
	tests := []struct {
		name      string
		perf      []float64
		score     []float64
		ascending bool
		want      float64
	}{
		{"perfect separation", []float64{1, 1, 0, 0}, []float64{1, 2, 3, 4}, true, 1},
		{"alternating", []float64{1, 0, 1, 0}, []float64{1, 2, 3, 4}, true, 0.5},
		{"wrong direction", []float64{1, 0, 1, 0}, []float64{1, 2, 3, 4}, false, 0},
		{"descending separation", []float64{0, 0, 1, 1}, []float64{1, 2, 3, 4}, false, 1},
		{"empty", nil, nil, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalcKS(tt.perf, tt.score, tt.ascending)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	t.Run("length mismatch", func(t *testing.T) {
		_, err := CalcKS([]float64{1}, []float64{1, 2}, true)
		assert.Error(t, err)
	})

	t.Run("missing scores sort last", func(t *testing.T) {
		got, err := CalcKS([]float64{1, 0, 1}, []float64{math.NaN(), 2, 1}, true)
		require.NoError(t, err)
		// order: score 1 (bad), score 2 (good), NaN (bad)
		assert.InDelta(t, 0.5, got, 1e-12)
	})
}

func TestPrepareInputs(t *testing.T) {
	src := mapSource{
		"bad": {1, 1, 0, 0},
		"s1":  {1, 2, 3, 4},
		"s2":  {4, 3, 2, 1},
		"s3":  {1, 2, 3, 4},
	}

	t.Run("ordered by KS", func(t *testing.T) {
		got, err := PrepareInputs(src, []string{"bad"}, []string{"s2", "s1"}, []bool{true})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "s1", got[0].Score)
		assert.InDelta(t, 1.0, got[0].KS, 1e-12)
		assert.Equal(t, "s2", got[1].Score)
		assert.InDelta(t, 0.0, got[1].KS, 1e-12)
	})

	t.Run("ties put later combination first", func(t *testing.T) {
		got, err := PrepareInputs(src, []string{"bad"}, []string{"s1", "s3"}, []bool{true})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "s3", got[0].Score)
		assert.Equal(t, "s1", got[1].Score)
	})

	t.Run("per score direction", func(t *testing.T) {
		got, err := PrepareInputs(src, []string{"bad"}, []string{"s1", "s2"}, []bool{true, false})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.InDelta(t, 1.0, got[0].KS, 1e-12)
		assert.InDelta(t, 1.0, got[1].KS, 1e-12)
		assert.Equal(t, "s2", got[0].Score)
		assert.False(t, got[0].Ascending)
	})

	t.Run("direction length mismatch", func(t *testing.T) {
		_, err := PrepareInputs(src, []string{"bad"}, []string{"s1", "s2", "s3"}, []bool{true, false})
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("no inputs", func(t *testing.T) {
		_, err := PrepareInputs(src, nil, []string{"s1"}, []bool{true})
		assert.ErrorIs(t, err, ErrNoInputs)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := PrepareInputs(src, []string{"bad"}, []string{"nope"}, []bool{true})
		assert.Error(t, err)
	})
}

func TestPrepareCurve(t *testing.T) {
	src := mapSource{
		"bad":   {1, 1, 0, 0},
		"score": {1, 2, 3, 4},
	}
	in := schema.GainsInput{Perf: "bad", Score: "score", Ascending: true, KS: 1}

	t.Run("full file", func(t *testing.T) {
		got, err := PrepareCurve(src, in, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, "score<>bad", got.Label)
		require.Len(t, got.Points, 4)
		want := []schema.GainsPoint{{PctFile: 0.25, CumlPerf: 0.5}, {PctFile: 0.5, CumlPerf: 1}, {PctFile: 0.75, CumlPerf: 1}, {PctFile: 1, CumlPerf: 1}}
		for i, p := range want {
			assert.InDelta(t, p.PctFile, got.Points[i].PctFile, 1e-12)
			assert.InDelta(t, p.CumlPerf, got.Points[i].CumlPerf, 1e-12)
		}
	})

	t.Run("depth of file", func(t *testing.T) {
		got, err := PrepareCurve(src, in, nil, 0.5)
		require.NoError(t, err)
		require.Len(t, got.Points, 2)
		assert.InDelta(t, 0.5, got.Points[1].PctFile, 1e-12)
	})

	t.Run("exceptions dropped", func(t *testing.T) {
		got, err := PrepareCurve(src, in, []float64{4}, 0)
		require.NoError(t, err)
		require.Len(t, got.Points, 3)
		assert.InDelta(t, 1.0/3, got.Points[0].PctFile, 1e-12)
		assert.InDelta(t, 0.5, got.Points[0].CumlPerf, 1e-12)
	})

	t.Run("invalid depth", func(t *testing.T) {
		for _, dof := range []float64{-0.1, 1.5} {
			_, err := PrepareCurve(src, in, nil, dof)
			assert.ErrorIs(t, err, ErrDepthOfFile)
		}
	})

	t.Run("all exceptions", func(t *testing.T) {
		got, err := PrepareCurve(src, in, []float64{1, 2, 3, 4}, 0)
		require.NoError(t, err)
		assert.Empty(t, got.Points)
	})
}
