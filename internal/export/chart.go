package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/droplab/droptower/internal/dropdata"
)

// WriteSweepChart renders the quality-vs-scale curve as a standalone
// HTML chart: smallest window standard deviation per sensor against
// window size. Invalid sweep entries become gaps in the line.
func WriteSweepChart(path string, sweep dropdata.QualitySweepResult) (err error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "G-quality Analysis"}),
		charts.WithTitleOpts(opts.Title{Title: "G-quality Analysis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Window Size (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Smallest Standard Deviation (G)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	axis := make([]string, len(sweep))
	innerData := make([]opts.LineData, len(sweep))
	dragData := make([]opts.LineData, len(sweep))
	for i, e := range sweep {
		axis[i] = fmt.Sprintf("%.3g", e.WindowSize)
		if e.Inner.Valid {
			innerData[i] = opts.LineData{Value: e.Inner.MinStd}
		}
		if e.Drag.Valid {
			dragData[i] = opts.LineData{Value: e.Drag.MinStd}
		}
	}

	line.SetXAxis(axis).
		AddSeries(dropdata.SensorInner.String(), innerData).
		AddSeries(dropdata.SensorDrag.String(), dragData)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file %s: %w", path, err)
	}
	defer closeWithError(out, &err)

	if err = line.Render(out); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
