package tables

import (
	"github.com/huangsam/scoretools/schema"
)

// Frequency table column headers.
const (
	FrequencyCol         = "Frequency"
	PercentCol           = "Percent"
	CumulativeFreqCol    = "Cumulative Frequency"
	CumulativePercentCol = "Cumulative Percent"
)

// FreqToTable flattens a frequency table for rendering.
func FreqToTable(ft schema.FreqTable) schema.Table {
	out := schema.Table{
		Title:   ft.Variable,
		Index:   ft.Variable,
		Columns: []string{FrequencyCol, PercentCol, CumulativeFreqCol, CumulativePercentCol},
	}
	for _, r := range ft.Rows {
		out.Rows = append(out.Rows, schema.TableRow{
			Label:  r.Label,
			Values: []any{r.Frequency, r.Percent, r.CumulativeFreq, r.CumulativePercent},
		})
	}
	return out
}

// BivarColumns returns the headers of a bivariate table, excluding the index.
func BivarColumns(bt schema.BivarTable) []string {
	cols := []string{"N", "Pct N"}
	for _, name := range bt.PerfNames {
		cols = append(cols, name+" sum", name+" Rate", name+" Pct")
	}
	for _, name := range bt.ExtraNames {
		cols = append(cols, name+" Mean")
	}
	return cols
}

// BivarToTable flattens a bivariate table, with the total as the last row.
func BivarToTable(bt schema.BivarTable) schema.Table {
	out := schema.Table{
		Title:   bt.Variable,
		Index:   bt.Variable,
		Columns: BivarColumns(bt),
	}
	for _, r := range append(append([]schema.BivarRow{}, bt.Rows...), bt.Total) {
		values := []any{r.N, r.PctN}
		for _, p := range r.Perf {
			values = append(values, p.Sum, p.Rate, p.Pct)
		}
		for _, e := range r.Extra {
			values = append(values, e)
		}
		out.Rows = append(out.Rows, schema.TableRow{Label: r.Label, Values: values})
	}
	return out
}
