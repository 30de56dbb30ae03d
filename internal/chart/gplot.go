// Package chart renders cumulative gains charts.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/huangsam/scoretools/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Axis labels of a gains chart.
const (
	XLabel = "Cuml % of File"
	YLabel = "Cuml % of Bad"
)

// ErrUnsupportedFormat is returned for chart files with an unknown extension.
var ErrUnsupportedFormat = errors.New("chart: unsupported format (expected png, svg, pdf, jpg, eps or tif)")

var formats = map[string]struct{}{
	"png": {}, "svg": {}, "pdf": {}, "jpg": {}, "jpeg": {}, "eps": {}, "tif": {}, "tiff": {},
}

// Options sizes and titles a chart.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions draws a 6 by 6 inch chart without a title.
func DefaultOptions() Options {
	return Options{Width: 6 * vg.Inch, Height: 6 * vg.Inch}
}

// Gains draws one line per series over a gray dotted diagonal. Both axes run
// from 0 to 1 with percent tick labels.
func Gains(series []schema.GainsSeries, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.X.Tick.Marker = percentTicks{}
	p.Y.Tick.Marker = percentTicks{}
	p.Legend.Top = false
	p.Legend.Left = false

	diagonal, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	diagonal.LineStyle.Color = color.Gray{Y: 128}
	diagonal.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	p.Add(diagonal)

	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, 0, len(s.Points)+1)
		xys = append(xys, plotter.XY{})
		for _, pt := range s.Points {
			xys = append(xys, plotter.XY{X: pt.PctFile, Y: pt.CumlPerf})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("chart: series %s: %w", s.Label, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}
	return p, nil
}

// percentTicks labels the default ticks as whole percentages.
type percentTicks struct{}

func (percentTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = fmt.Sprintf("%.0f%%", ticks[i].Value*100)
		}
	}
	return ticks
}

// FormatOf returns the image format implied by path's extension.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if _, ok := formats[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	return ext, nil
}

// SaveGains draws series and saves the chart to path, using the extension as the format.
func SaveGains(path string, series []schema.GainsSeries, opts Options) error {
	if _, err := FormatOf(path); err != nil {
		return err
	}
	p, err := Gains(series, opts)
	if err != nil {
		return err
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("chart: failed to save %s: %w", path, err)
	}
	return nil
}

// WriteGains draws series and writes the encoded chart to w.
func WriteGains(w io.Writer, format string, series []schema.GainsSeries, opts Options) error {
	if _, ok := formats[format]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	p, err := Gains(series, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
