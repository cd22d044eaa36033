// Package export turns pipeline results into their operator-facing
// artifacts: a multi-sheet workbook, a gravity-level plot and a
// quality-sweep chart. It consumes plain result structures and never
// reaches back into the pipeline.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/droplab/droptower/internal/dropdata"
)

const (
	sheetGravityData  = "Gravity Level Data"
	sheetStatistics   = "Gravity Level Statistics"
	sheetRawData      = "Raw Acceleration"
	sheetSweep        = "G-quality Analysis"
	sheetGravityGraph = "Gravity Level Graph"
)

// WorkbookData is everything that goes into one exported workbook.
// RawTime/RawInner/RawDrag are optional; when present they fill the
// raw acceleration sheet. GraphPNG, when set, is embedded on its own
// sheet.
type WorkbookData struct {
	Bundle       *dropdata.ResultBundle
	SamplingRate float64

	RawTime  []float64
	RawInner []float64
	RawDrag  []float64

	GraphPNG string
}

// WriteWorkbook writes the workbook to path: the time-aligned gravity
// levels of both sensors resampled onto a unified axis, the summary
// statistics, optionally the raw acceleration, the quality sweep and
// the rendered graph.
func WriteWorkbook(path string, data *WorkbookData) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err = writeGravitySheet(f, data); err != nil {
		return fmt.Errorf("writing %s: %w", sheetGravityData, err)
	}
	if err = writeStatisticsSheet(f, data.Bundle); err != nil {
		return fmt.Errorf("writing %s: %w", sheetStatistics, err)
	}
	if len(data.RawTime) > 0 {
		if err = writeRawSheet(f, data); err != nil {
			return fmt.Errorf("writing %s: %w", sheetRawData, err)
		}
	}
	if len(data.Bundle.Sweep) > 0 {
		if err = writeSweepSheet(f, data.Bundle.Sweep); err != nil {
			return fmt.Errorf("writing %s: %w", sheetSweep, err)
		}
	}
	if data.GraphPNG != "" {
		if err = embedGraph(f, data.GraphPNG); err != nil {
			return fmt.Errorf("embedding graph: %w", err)
		}
	}

	// The default sheet excelize creates is replaced by ours.
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeGravitySheet(f *excelize.File, data *WorkbookData) error {
	if _, err := f.NewSheet(sheetGravityData); err != nil {
		return err
	}

	header := []any{"Time (s)"}
	inner := data.Bundle.Processed.Inner
	drag := data.Bundle.Processed.Drag
	if inner.Len() > 0 {
		header = append(header, "Gravity Level (Inner Capsule) (G)")
	}
	if drag.Len() > 0 {
		header = append(header, "Gravity Level (Drag Shield) (G)")
	}
	if err := f.SetSheetRow(sheetGravityData, "A1", &header); err != nil {
		return err
	}

	axis := commonAxis(inner, drag, data.SamplingRate)
	for i, t := range axis {
		row := []any{t}
		if inner.Len() > 0 {
			row = append(row, interp(t, inner.AdjustedTime, inner.GravityLevel))
		}
		if drag.Len() > 0 {
			row = append(row, interp(t, drag.AdjustedTime, drag.GravityLevel))
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheetGravityData, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// commonAxis spans the overlap of the sensors' adjusted time axes at
// the configured sampling rate. With a single active sensor it spans
// that sensor alone.
func commonAxis(inner, drag *dropdata.FilteredSeries, samplingRate float64) []float64 {
	if samplingRate <= 0 {
		return nil
	}

	var start, end float64
	set := false
	for _, s := range []*dropdata.FilteredSeries{inner, drag} {
		if s.Len() == 0 {
			continue
		}
		first, last := s.AdjustedTime[0], s.AdjustedTime[len(s.AdjustedTime)-1]
		if !set {
			start, end, set = first, last, true
			continue
		}
		start = max(start, first)
		end = min(end, last)
	}
	if !set {
		return nil
	}
	return unifiedAxis(start, end, 1/samplingRate)
}

func writeStatisticsSheet(f *excelize.File, bundle *dropdata.ResultBundle) error {
	if _, err := f.NewSheet(sheetStatistics); err != nil {
		return err
	}

	rows := [][2]any{
		{"Statistic", "Value"},
		{"Inner Capsule: Mean Gravity Level of the interval with the smallest standard deviation(G)", statValue(bundle.InnerStat, bundle.InnerStat.MeanAbs)},
		{"Inner Capsule: Time at smallest Standard Deviation(s)", statValue(bundle.InnerStat, bundle.InnerStat.StartTime)},
		{"Inner Capsule: smallest Standard Deviation(G)", statValue(bundle.InnerStat, bundle.InnerStat.MinStd)},
		{"Drag Shield: Mean Gravity Level of the interval with the smallest standard deviation(G)", statValue(bundle.DragStat, bundle.DragStat.MeanAbs)},
		{"Drag Shield: Time at smallest Standard Deviation(s)", statValue(bundle.DragStat, bundle.DragStat.StartTime)},
		{"Drag Shield: smallest Standard Deviation(G)", statValue(bundle.DragStat, bundle.DragStat.MinStd)},
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := []any{r[0], r[1]}
		if err = f.SetSheetRow(sheetStatistics, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// statValue leaves the cell empty for an invalid result, matching the
// insufficient-data convention of the stats package.
func statValue(s dropdata.StatResult, v float64) any {
	if !s.Valid {
		return nil
	}
	return v
}

func writeRawSheet(f *excelize.File, data *WorkbookData) error {
	if _, err := f.NewSheet(sheetRawData); err != nil {
		return err
	}

	header := []any{"Time (s)"}
	if len(data.RawInner) > 0 {
		header = append(header, "Acceleration (Inner Capsule) (m/s²)")
	}
	if len(data.RawDrag) > 0 {
		header = append(header, "Acceleration (Drag Shield) (m/s²)")
	}
	if err := f.SetSheetRow(sheetRawData, "A1", &header); err != nil {
		return err
	}

	for i, t := range data.RawTime {
		row := []any{t}
		if i < len(data.RawInner) {
			row = append(row, data.RawInner[i])
		}
		if i < len(data.RawDrag) {
			row = append(row, data.RawDrag[i])
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheetRawData, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSweepSheet(f *excelize.File, sweep dropdata.QualitySweepResult) error {
	if _, err := f.NewSheet(sheetSweep); err != nil {
		return err
	}

	header := []any{
		"Window Size (s)",
		"Inner Capsule: Time at smallest Standard Deviation(s)",
		"Inner Capsule: Mean Gravity Level of the interval with the smallest standard deviation(G)",
		"Inner Capsule: smallest Standard Deviation(G)",
		"Drag Shield: Time at smallest Standard Deviation(s)",
		"Drag Shield: Mean Gravity Level of the interval with the smallest standard deviation(G)",
		"Drag Shield: smallest Standard Deviation(G)",
	}
	if err := f.SetSheetRow(sheetSweep, "A1", &header); err != nil {
		return err
	}

	for i, e := range sweep {
		row := []any{
			e.WindowSize,
			statValue(e.Inner, e.Inner.StartTime),
			statValue(e.Inner, e.Inner.MeanAbs),
			statValue(e.Inner, e.Inner.MinStd),
			statValue(e.Drag, e.Drag.StartTime),
			statValue(e.Drag, e.Drag.MeanAbs),
			statValue(e.Drag, e.Drag.MinStd),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheetSweep, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// AppendSweepSheet writes the quality-sweep table into an existing
// workbook at path, creating the workbook when it does not exist yet
// and replacing a previous sweep sheet otherwise.
func AppendSweepSheet(path string, sweep dropdata.QualitySweepResult) (err error) {
	f, err := excelize.OpenFile(path)
	created := err != nil
	if created {
		f = excelize.NewFile()
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if idx, _ := f.GetSheetIndex(sheetSweep); idx >= 0 {
		if err = f.DeleteSheet(sheetSweep); err != nil {
			return fmt.Errorf("clearing %s: %w", sheetSweep, err)
		}
	}
	if err = writeSweepSheet(f, sweep); err != nil {
		return fmt.Errorf("writing %s: %w", sheetSweep, err)
	}

	// The default sheet can only go once another sheet exists.
	if created {
		if err = f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("removing default sheet: %w", err)
		}
	}

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func embedGraph(f *excelize.File, pngPath string) error {
	if _, err := f.NewSheet(sheetGravityGraph); err != nil {
		return err
	}
	return f.AddPicture(sheetGravityGraph, "A1", pngPath, nil)
}
