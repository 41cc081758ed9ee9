package sweep

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/celbio/methanosim/internal/params"
)

// Heatmap is a multi-parameter sensitivity surface: one row per swept
// parameter, one column per percentile of that parameter's range, cells
// holding the min-max-normalized final rate.
type Heatmap struct {
	Params     []string
	Values     [][]float64 // grid values per parameter
	Normalized [][]float64 // final rates scaled to [0, 1] per row
	Failures   []int       // failed points per row
}

// SweepAll repeats the single-parameter sweep for every field in the
// registry slice over its default range, normalizing each row
// independently. Rows are swept sequentially, points within a row in
// parallel; cancellation between rows leaves the completed rows valid.
func (a *Analyzer) SweepAll(ctx context.Context, base params.Set, fields []params.Field, pointsPerField int) (Heatmap, error) {
	hm := Heatmap{
		Params:     make([]string, 0, len(fields)),
		Values:     make([][]float64, 0, len(fields)),
		Normalized: make([][]float64, 0, len(fields)),
		Failures:   make([]int, 0, len(fields)),
	}

	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return hm, err
		}

		values := Range(f.Min, f.Max, pointsPerField)
		res, err := a.Sweep(ctx, base, f.Name, values)
		if err != nil {
			return hm, err
		}

		hm.Params = append(hm.Params, f.Name)
		hm.Values = append(hm.Values, values)
		hm.Normalized = append(hm.Normalized, normalizeRow(res))
		hm.Failures = append(hm.Failures, res.Failed())
	}

	return hm, nil
}

// normalizeRow maps a row's final rates onto [0, 1]. A constant row (or a
// row whose successes are all equal) normalizes to all zeros rather than
// NaN. Failed points normalize to 0.
func normalizeRow(res Result) []float64 {
	out := make([]float64, len(res.Points))

	ok := make([]float64, 0, len(res.Points))
	for _, p := range res.Points {
		if p.Err == nil {
			ok = append(ok, p.Metrics.FinalRate)
		}
	}
	if len(ok) == 0 {
		return out
	}

	lo, hi := floats.Min(ok), floats.Max(ok)
	if hi == lo {
		return out
	}

	for i, p := range res.Points {
		if p.Err == nil {
			out[i] = (p.Metrics.FinalRate - lo) / (hi - lo)
		}
	}
	return out
}
