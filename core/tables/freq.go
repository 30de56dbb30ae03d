package tables

import (
	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
	"gonum.org/v1/gonum/floats"
)

// FillOptions controls how records without a category are tabulated.
type FillOptions struct {
	FillNA *string // nil drops null records from the table
	NALast bool    // place the fill row after the categories instead of before
}

// DefaultFillOptions labels null records "Missing" and lists them first.
func DefaultFillOptions() FillOptions {
	return FillOptions{FillNA: binning.MissingLabel(binning.DefaultMissingLabel)}
}

// group is one row of a summary table before statistics are attached.
type group struct {
	label string
	code  int // category code, or binning.NullCode for the fill row
}

// groups lists the table rows in presentation order.
func groups(c *binning.Categorical, opts FillOptions) []group {
	out := make([]group, 0, len(c.Categories)+1)
	for code, label := range c.Categories {
		out = append(out, group{label: label, code: code})
	}
	if opts.FillNA == nil || c.NullCount() == 0 {
		return out
	}
	fill := group{label: *opts.FillNA, code: binning.NullCode}
	if opts.NALast {
		return append(out, fill)
	}
	return append([]group{fill}, out...)
}

// FreqTab counts records per category in category order. Empty categories are kept.
func FreqTab(c *binning.Categorical, opts FillOptions) schema.FreqTable {
	counts := c.Counts()
	nulls := c.NullCount()
	rows := groups(c, opts)

	freq := make([]float64, len(rows))
	for i, g := range rows {
		if g.code == binning.NullCode {
			freq[i] = float64(nulls)
		} else {
			freq[i] = float64(counts[g.code])
		}
	}
	total := floats.Sum(freq)

	pct := make([]float64, len(rows))
	if total > 0 {
		floats.ScaleTo(pct, 1/total, freq)
	}
	cumFreq := floats.CumSum(make([]float64, len(rows)), freq)
	cumPct := floats.CumSum(make([]float64, len(rows)), pct)

	table := schema.FreqTable{Variable: c.Name, Rows: make([]schema.FreqRow, len(rows))}
	for i, g := range rows {
		table.Rows[i] = schema.FreqRow{
			Label:             g.label,
			Frequency:         int(freq[i]),
			Percent:           pct[i],
			CumulativeFreq:    int(cumFreq[i]),
			CumulativePercent: cumPct[i],
		}
	}
	return table
}
