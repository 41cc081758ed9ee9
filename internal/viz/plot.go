package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/celbio/methanosim/internal/reactor"
	"github.com/celbio/methanosim/internal/sweep"
)

var speciesCaptions = [reactor.SpeciesCount]string{
	"dissolved CH4 (mmol/L)",
	"methanol intermediate (mmol/L)",
	"dissolved O2 (mmol/L)",
}

// TrajectoryPlot renders one ASCII chart per species.
func TrajectoryPlot(tr *reactor.Trajectory, width, height int) string {
	var b strings.Builder
	for sp := 0; sp < reactor.SpeciesCount; sp++ {
		graph := asciigraph.Plot(tr.Series(sp),
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(speciesCaptions[sp]),
		)
		b.WriteString(graph)
		b.WriteString("\n\n")
	}
	return b.String()
}

// SweepPlot renders final rate against the swept parameter.
func SweepPlot(res sweep.Result, width, height int) string {
	rates := res.FinalRates()
	if len(rates) == 0 {
		return "no sweep points\n"
	}
	caption := fmt.Sprintf("final rate vs %s", res.Param)
	if failed := res.Failed(); failed > 0 {
		caption = fmt.Sprintf("%s (%d failed points plotted as 0)", caption, failed)
	}
	return asciigraph.Plot(rates,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	) + "\n"
}

// HeatmapView renders the normalized sensitivity matrix with one colored
// row per parameter.
func HeatmapView(hm sweep.Heatmap) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("PARAMETER SENSITIVITY") + "\n")
	for i, name := range hm.Params {
		var row strings.Builder
		for _, v := range hm.Normalized[i] {
			row.WriteString(HeatCell(v))
		}
		line := fmt.Sprintf("%-16s %s", name, row.String())
		if hm.Failures[i] > 0 {
			line += ErrorStyle.Render(fmt.Sprintf("  %d failed", hm.Failures[i]))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(HelpStyle.Render("cells: min → max of each parameter's range, normalized final rate") + "\n")
	return b.String()
}
