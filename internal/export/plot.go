package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/droplab/droptower/internal/dropdata"
)

// PlotConfig controls the rendered gravity-level figure.
type PlotConfig struct {
	Title string
	YMin  float64
	YMax  float64
}

// RenderPlot draws both sensors' filtered gravity levels against
// their adjusted time axes and writes the figure to path (format by
// extension, .png for workbook embedding). Disabled or empty sensors
// are left off the plot.
func RenderPlot(path string, inner, drag *dropdata.FilteredSeries, cfg PlotConfig) error {
	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Gravity Level (G)"
	if cfg.YMin < cfg.YMax {
		p.Y.Min = cfg.YMin
		p.Y.Max = cfg.YMax
	}

	var series []any
	if inner.Len() > 0 {
		series = append(series, dropdata.SensorInner.String(), seriesXYs(inner))
	}
	if drag.Len() > 0 {
		series = append(series, dropdata.SensorDrag.String(), seriesXYs(drag))
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if err := plotutil.AddLines(p, series...); err != nil {
		return fmt.Errorf("adding series: %w", err)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}

func seriesXYs(s *dropdata.FilteredSeries) plotter.XYs {
	xys := make(plotter.XYs, s.Len())
	for i := range xys {
		xys[i].X = s.AdjustedTime[i]
		xys[i].Y = s.GravityLevel[i]
	}
	return xys
}
