package gains

import (
	"strconv"

	"github.com/huangsam/scoretools/schema"
)

// Summary table column headers.
const (
	AscendingCol = "Ascending"
	KSCol        = "KS"
	PointsCol    = "Points"
)

// SummaryTable lists each curve with its direction and KS, in the order given.
func SummaryTable(series []schema.GainsSeries) schema.Table {
	out := schema.Table{
		Title:   "Gains",
		Index:   "score<>perf",
		Columns: []string{AscendingCol, KSCol, PointsCol},
	}
	for _, s := range series {
		asc := "no"
		if s.Ascending {
			asc = "yes"
		}
		out.Rows = append(out.Rows, schema.TableRow{Label: s.Label, Values: []any{asc, s.KS, len(s.Points)}})
	}
	return out
}

// CurveTable lists the points of one curve.
func CurveTable(s schema.GainsSeries) schema.Table {
	out := schema.Table{
		Title:   s.Label,
		Index:   "Point",
		Columns: []string{"Cuml % of File", "Cuml % of Bad"},
	}
	for i, p := range s.Points {
		out.Rows = append(out.Rows, schema.TableRow{Label: strconv.Itoa(i + 1), Values: []any{p.PctFile, p.CumlPerf}})
	}
	return out
}
