// Package gains computes cumulative gains curves and KS statistics for score evaluation.
package gains

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by gains computations.
var (
	ErrLengthMismatch = errors.New("gains: ascending must have length 1 or match the number of scores")
	ErrDepthOfFile    = errors.New("gains: depth of file must be in (0, 1]")
	ErrNoInputs       = errors.New("gains: at least one score and one performance field are required")
)

// Source provides named numeric columns.
type Source interface {
	Variable(name string) (binning.Variable, error)
}

// SeriesLabel names a curve as "score<>perf".
func SeriesLabel(score, perf string) string {
	return score + "<>" + perf
}

// sortOrder returns record indices ordered by score, missing scores last.
func sortOrder(score []float64, ascending bool) []int {
	idx := make([]int, len(score))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := score[idx[a]], score[idx[b]]
		switch {
		case math.IsNaN(x):
			return false
		case math.IsNaN(y):
			return true
		case ascending:
			return x < y
		default:
			return x > y
		}
	})
	return idx
}

// CalcKS returns the largest gap between the cumulative share of bads
// (perf == 1) and goods (perf == 0) when records are ordered by score.
func CalcKS(perf, score []float64, ascending bool) (float64, error) {
	if len(perf) != len(score) {
		return 0, fmt.Errorf("gains: perf has %d rows, score has %d", len(perf), len(score))
	}
	if len(perf) == 0 {
		return 0, nil
	}
	order := sortOrder(score, ascending)
	bads := make([]float64, len(order))
	goods := make([]float64, len(order))
	for i, j := range order {
		switch perf[j] {
		case 1:
			bads[i] = 1
		case 0:
			goods[i] = 1
		}
	}
	totalBad, totalGood := floats.Sum(bads), floats.Sum(goods)
	floats.CumSum(bads, bads)
	floats.CumSum(goods, goods)
	if totalBad > 0 {
		floats.Scale(1/totalBad, bads)
	}
	if totalGood > 0 {
		floats.Scale(1/totalGood, goods)
	}
	floats.Sub(bads, goods)
	return floats.Max(bads), nil
}

// PrepareInputs pairs every performance field with every score and its
// direction, ordered by KS descending. ascending holds one direction for all
// scores or one per score. Ties keep the later combination first.
func PrepareInputs(src Source, perfs, scores []string, ascending []bool) ([]schema.GainsInput, error) {
	if len(perfs) == 0 || len(scores) == 0 {
		return nil, ErrNoInputs
	}
	switch len(ascending) {
	case 1:
		ascending = slices.Repeat(ascending, len(scores))
	case len(scores):
	default:
		return nil, fmt.Errorf("%w: got %d for %d scores", ErrLengthMismatch, len(ascending), len(scores))
	}

	var inputs []schema.GainsInput
	for _, perfName := range perfs {
		perf, err := src.Variable(perfName)
		if err != nil {
			return nil, err
		}
		for i, scoreName := range scores {
			score, err := src.Variable(scoreName)
			if err != nil {
				return nil, err
			}
			ks, err := CalcKS(perf.Values, score.Values, ascending[i])
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, schema.GainsInput{Perf: perfName, Score: scoreName, Ascending: ascending[i], KS: ks})
		}
	}

	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ka, kb := inputs[order[a]].KS, inputs[order[b]].KS
		if ka != kb {
			return ka > kb
		}
		return order[a] > order[b]
	})
	sorted := make([]schema.GainsInput, len(inputs))
	for i, j := range order {
		sorted[i] = inputs[j]
	}
	return sorted, nil
}

// PrepareCurve builds the cumulative gains curve for one input. Records whose
// score is an exception are dropped. When dof is non-zero only points up to
// that depth of file are kept. Missing performance values count as zero.
func PrepareCurve(src Source, in schema.GainsInput, exceptions []float64, dof float64) (schema.GainsSeries, error) {
	if dof != 0 && !(dof > 0 && dof <= 1) {
		return schema.GainsSeries{}, fmt.Errorf("%w: got %v", ErrDepthOfFile, dof)
	}
	perf, err := src.Variable(in.Perf)
	if err != nil {
		return schema.GainsSeries{}, err
	}
	score, err := src.Variable(in.Score)
	if err != nil {
		return schema.GainsSeries{}, err
	}
	if perf.Len() != score.Len() {
		return schema.GainsSeries{}, fmt.Errorf("gains: %s has %d rows, %s has %d", in.Perf, perf.Len(), in.Score, score.Len())
	}

	excs := binning.NormalizeExceptions(exceptions)
	var keptScore, keptPerf []float64
	for i, s := range score.Values {
		if _, isExc := slices.BinarySearch(excs, s); isExc {
			continue
		}
		keptScore = append(keptScore, s)
		p := perf.Values[i]
		if math.IsNaN(p) {
			p = 0
		}
		keptPerf = append(keptPerf, p)
	}

	series := schema.GainsSeries{
		Label:     SeriesLabel(in.Score, in.Perf),
		Score:     in.Score,
		Perf:      in.Perf,
		Ascending: in.Ascending,
		KS:        in.KS,
	}
	n := len(keptScore)
	if n == 0 {
		return series, nil
	}

	order := sortOrder(keptScore, in.Ascending)
	cum := make([]float64, n)
	for i, j := range order {
		cum[i] = keptPerf[j]
	}
	total := floats.Sum(cum)
	floats.CumSum(cum, cum)
	for i := range n {
		pctFile := float64(i+1) / float64(n)
		if dof != 0 && pctFile > dof {
			break
		}
		series.Points = append(series.Points, schema.GainsPoint{PctFile: pctFile, CumlPerf: ratio(cum[i], total)})
	}
	return series, nil
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
