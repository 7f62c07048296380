// Package report renders an HTML separation-over-time chart for one
// analyzed satellite pair.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/signalsfoundry/collision-sentinel/core"
	"github.com/signalsfoundry/collision-sentinel/model"
)

// SeparationStats summarizes the sampled separation series.
type SeparationStats struct {
	MinKm    float64
	MaxKm    float64
	MeanKm   float64
	StdDevKm float64
}

// Summarize computes series statistics. Zero-length input yields zeros.
func Summarize(points []core.SeparationPoint) SeparationStats {
	if len(points) == 0 {
		return SeparationStats{}
	}

	dists := make([]float64, len(points))
	min, max := points[0].DistanceKm, points[0].DistanceKm
	for i, p := range points {
		dists[i] = p.DistanceKm
		if p.DistanceKm < min {
			min = p.DistanceKm
		}
		if p.DistanceKm > max {
			max = p.DistanceKm
		}
	}

	return SeparationStats{
		MinKm:    min,
		MaxKm:    max,
		MeanKm:   stat.Mean(dists, nil),
		StdDevKm: stat.StdDev(dists, nil),
	}
}

// RenderSeparationChart writes a self-contained HTML line chart of the
// separation series to w.
func RenderSeparationChart(w io.Writer, nameA, nameB string, points []core.SeparationPoint, verdict model.RiskVerdict) error {
	if len(points) == 0 {
		return fmt.Errorf("no separation samples to render for %s vs %s", nameA, nameB)
	}

	stats := Summarize(points)

	times := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		times[i] = p.Time.UTC().Format("01-02 15:04")
		data[i] = opts.LineData{Value: p.DistanceKm}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("Separation: %s vs %s", nameA, nameB),
			Width:     "1100px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Separation distance: %s vs %s", nameA, nameB),
			Subtitle: fmt.Sprintf("min=%.1f km  mean=%.1f km  max=%.1f km  stddev=%.1f km  risk=%s (%d%%)",
				stats.MinKm, stats.MeanKm, stats.MaxKm, stats.StdDevKm, verdict.Category, verdict.Percentage),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "km"}),
	)

	line.SetXAxis(times).AddSeries("separation_km", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)

	return line.Render(w)
}
