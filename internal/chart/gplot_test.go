package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/scoretools/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSeries() []schema.GainsSeries {
	return []schema.GainsSeries{
		{
			Label: "score<>bad",
			Points: []schema.GainsPoint{
				{PctFile: 0.25, CumlPerf: 0.5},
				{PctFile: 0.5, CumlPerf: 1},
				{PctFile: 1, CumlPerf: 1},
			},
		},
		{Label: "empty<>bad"},
	}
}

func TestGains(t *testing.T) {
	p, err := Gains(sampleSeries(), Options{Title: "Gains"})
	require.NoError(t, err)
	assert.Equal(t, "Gains", p.Title.Text)
	assert.Equal(t, XLabel, p.X.Label.Text)
	assert.Equal(t, YLabel, p.Y.Label.Text)
	assert.Equal(t, 1.0, p.X.Max)
	assert.Equal(t, 1.0, p.Y.Max)
}

func TestPercentTicks(t *testing.T) {
	ticks := percentTicks{}.Ticks(0, 1)
	require.NotEmpty(t, ticks)
	var labels []string
	for _, tk := range ticks {
		if tk.Label != "" {
			labels = append(labels, tk.Label)
		}
	}
	assert.Contains(t, labels, "0%")
	assert.Contains(t, labels, "100%")
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"gains.png", "png", false},
		{"out/Gains.SVG", "svg", false},
		{"report.pdf", "pdf", false},
		{"gains.gif", "", true},
		{"gains", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveGains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gains.png")
	require.NoError(t, SaveGains(path, sampleSeries(), DefaultOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	bad := filepath.Join(t.TempDir(), "gains.gif")
	assert.ErrorIs(t, SaveGains(bad, sampleSeries(), DefaultOptions()), ErrUnsupportedFormat)
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteGains(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGains(&buf, "svg", sampleSeries(), DefaultOptions()))
	assert.Contains(t, buf.String(), "<svg")

	assert.ErrorIs(t, WriteGains(&buf, "bmp", nil, DefaultOptions()), ErrUnsupportedFormat)
}
