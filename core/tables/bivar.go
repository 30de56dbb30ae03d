package tables

import (
	"fmt"
	"math"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Source provides named numeric columns of equal length.
type Source interface {
	Len() int
	Variable(name string) (binning.Variable, error)
}

// BivarOptions configures Bivar.
type BivarOptions struct {
	Bivars    []string // binary performance fields, values in {0, 1}
	ExtraVars []string // continuous fields summarized by their mean
	Breaker   Breaker
	Fill      FillOptions
}

// SingleBivar distributes one performance field over the categories of key.
func SingleBivar(key *binning.Categorical, perfName string, perf []float64, opts FillOptions) (schema.BivarTable, error) {
	return buildBivar(key, []binning.Variable{{Name: perfName, Values: perf}}, nil, opts)
}

// Bivar bins mainVar from src and distributes every bivar and extra variable over its bins.
func Bivar(src Source, mainVar string, opts BivarOptions) (schema.BivarTable, error) {
	main, err := src.Variable(mainVar)
	if err != nil {
		return schema.BivarTable{}, err
	}
	key, err := opts.Breaker.Apply(main)
	if err != nil {
		return schema.BivarTable{}, fmt.Errorf("failed to bin %s: %w", mainVar, err)
	}

	perfs, err := loadVariables(src, opts.Bivars)
	if err != nil {
		return schema.BivarTable{}, err
	}
	extras, err := loadVariables(src, opts.ExtraVars)
	if err != nil {
		return schema.BivarTable{}, err
	}
	return buildBivar(key, perfs, extras, opts.Fill)
}

func loadVariables(src Source, names []string) ([]binning.Variable, error) {
	out := make([]binning.Variable, 0, len(names))
	for _, name := range names {
		v, err := src.Variable(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// buildBivar computes per-group counts, sums, rates and shares. Groups with no
// records are skipped. Total rates are the mean over every record, including
// those dropped because their key is null.
func buildBivar(key *binning.Categorical, perfs, extras []binning.Variable, opts FillOptions) (schema.BivarTable, error) {
	for _, v := range append(append([]binning.Variable{}, perfs...), extras...) {
		if v.Len() != key.Len() {
			return schema.BivarTable{}, fmt.Errorf("%w: %s has %d rows, %s has %d", ErrLengthMismatch, v.Name, v.Len(), key.Name, key.Len())
		}
	}

	table := schema.BivarTable{Variable: key.Name}
	for _, v := range perfs {
		table.PerfNames = append(table.PerfNames, v.Name)
	}
	for _, v := range extras {
		table.ExtraNames = append(table.ExtraNames, v.Name)
	}

	// rowsOf[code] lists the record indices per category; the fill row uses nullRows.
	rowsOf := make([][]int, len(key.Categories))
	var nullRows []int
	for i, code := range key.Codes {
		if code == binning.NullCode {
			nullRows = append(nullRows, i)
		} else {
			rowsOf[code] = append(rowsOf[code], i)
		}
	}
	members := func(g group) []int {
		if g.code == binning.NullCode {
			return nullRows
		}
		return rowsOf[g.code]
	}

	included := 0
	perfTotals := make([]float64, len(perfs))
	for _, g := range groups(key, opts) {
		idx := members(g)
		included += len(idx)
		for p, v := range perfs {
			perfTotals[p] += nanSum(pick(v.Values, idx))
		}
	}

	for _, g := range groups(key, opts) {
		idx := members(g)
		if len(idx) == 0 {
			continue
		}
		row := schema.BivarRow{Label: g.label, N: len(idx), PctN: ratio(float64(len(idx)), float64(included))}
		for p, v := range perfs {
			vals := pick(v.Values, idx)
			sum := nanSum(vals)
			row.Perf = append(row.Perf, schema.PerfStats{Sum: sum, Rate: nanMean(vals), Pct: ratio(sum, perfTotals[p])})
		}
		for _, v := range extras {
			row.Extra = append(row.Extra, nanMean(pick(v.Values, idx)))
		}
		table.Rows = append(table.Rows, row)
	}

	total := schema.BivarRow{Label: "Total", N: included}
	for _, row := range table.Rows {
		total.PctN += row.PctN
	}
	for p, v := range perfs {
		stats := schema.PerfStats{Sum: perfTotals[p], Rate: nanMean(v.Values)}
		for _, row := range table.Rows {
			stats.Pct += row.Perf[p].Pct
		}
		total.Perf = append(total.Perf, stats)
	}
	for _, v := range extras {
		total.Extra = append(total.Extra, nanMean(v.Values))
	}
	table.Total = total
	return table, nil
}

func pick(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

func nanSum(xs []float64) float64 {
	return floats.Sum(dropNaN(xs))
}

// nanMean is the mean of the non-missing values, or 0 when there are none.
func nanMean(xs []float64) float64 {
	vals := dropNaN(xs)
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
