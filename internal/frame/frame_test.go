package frame

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "\ufeffscore, bad,grade\n700,0,A\n650,1,B\n,NA,C\n"
	f, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"score", "bad", "grade"}, f.Columns())
	assert.Equal(t, 3, f.Len())
	assert.True(t, f.Has("bad"))
	assert.False(t, f.Has("missing"))

	score, err := f.Numeric("score")
	require.NoError(t, err)
	assert.Equal(t, 700.0, score[0])
	assert.Equal(t, 650.0, score[1])
	assert.True(t, math.IsNaN(score[2]))

	bad, err := f.Variable("bad")
	require.NoError(t, err)
	assert.Equal(t, "bad", bad.Name)
	assert.True(t, math.IsNaN(bad.Values[2]))
}

func TestNumericErrors(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("grade\nA\n"))
	require.NoError(t, err)

	_, err = f.Numeric("grade")
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = f.Numeric("nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ReadCSV(strings.NewReader("a,a\n1,2\n"))
	assert.ErrorContains(t, err, "duplicate column")

	_, err = ReadCSV(strings.NewReader("a,b\n1\n"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	f, err := New([]string{"x", "y"}, map[string][]float64{
		"x": {1, math.NaN()},
		"y": {0.5, 2},
	})
	require.NoError(t, err)
	x, err := f.Numeric("x")
	require.NoError(t, err)
	assert.Equal(t, 1.0, x[0])
	assert.True(t, math.IsNaN(x[1]))

	_, err = New([]string{"x", "y"}, map[string][]float64{"x": {1}, "y": {1, 2}})
	assert.Error(t, err)

	_, err = New([]string{"z"}, map[string][]float64{})
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x\n1\n2\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())

	_, err = Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
