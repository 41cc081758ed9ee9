package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/celbio/methanosim/internal/reactor"
	"github.com/celbio/methanosim/internal/sweep"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// WriteTrajectoryCSV writes time plus one column per species.
func WriteTrajectoryCSV(w io.Writer, tr *reactor.Trajectory) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{"time_s"}, reactor.SpeciesNames[:]...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, t := range tr.Times {
		row := make([]string, 0, reactor.SpeciesCount+1)
		row = append(row, formatFloat(t))
		for _, v := range tr.States[i] {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteSweepCSV writes one row per grid point: value, final rate, uptake
// integrals, steady-state flag and any error.
func WriteSweepCSV(w io.Writer, res sweep.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{res.Param, "final_rate", "ch4_uptake", "o2_uptake", "late_variance", "steady_state", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range res.Points {
		errMsg := ""
		if p.Err != nil {
			errMsg = p.Err.Error()
		}
		row := []string{
			formatFloat(p.Value),
			formatFloat(p.Metrics.FinalRate),
			formatFloat(p.Metrics.CH4Uptake),
			formatFloat(p.Metrics.O2Uptake),
			formatFloat(p.Metrics.LateVariance),
			strconv.FormatBool(p.Metrics.SteadyState),
			errMsg,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteHeatmapCSV writes one row per parameter: name followed by the
// normalized rate at each percentile of its range.
func WriteHeatmapCSV(w io.Writer, hm sweep.Heatmap) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, name := range hm.Params {
		row := make([]string, 0, len(hm.Normalized[i])+1)
		row = append(row, name)
		for _, v := range hm.Normalized[i] {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// ExportData is the JSON shape for a full run dump.
type ExportData struct {
	Meta   RunMetadata `json:"meta"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

func ExportJSON(w io.Writer, meta RunMetadata, tr *reactor.Trajectory) error {
	data := ExportData{
		Meta:   meta,
		Times:  tr.Times,
		States: make([][]float64, len(tr.States)),
	}
	for i, s := range tr.States {
		data.States[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
