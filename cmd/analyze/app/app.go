package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/droplab/droptower/internal/cache"
	"github.com/droplab/droptower/internal/config"
	"github.com/droplab/droptower/internal/dropdata"
	"github.com/droplab/droptower/internal/export"
	"github.com/droplab/droptower/internal/ingest"
	"github.com/droplab/droptower/internal/pipeline"
	"github.com/droplab/droptower/internal/stats"
	"github.com/droplab/droptower/internal/version"
)

const resultsDirName = "results_droptower"

// Options are the CLI-provided parameters for one run.
type Options struct {
	InputPath string
	NoCache   bool
}

// Run executes the full analysis for one recording: load, process
// (through the cache when possible), grade, and export the workbook
// and the plot.
func Run(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) error {
	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", dropdata.ErrDataLoad, opts.InputPath, err)
	}

	table, err := ingest.Load(opts.InputPath)
	if err != nil {
		return err
	}

	logger.Info("loaded recording",
		slog.String("file", filepath.Base(opts.InputPath)),
		slog.String("size", humanize.Bytes(uint64(info.Size()))),
		slog.String("rows", humanize.Comma(int64(table.NumRows()))))

	time, accelInner, accelDrag, err := extractColumns(table, cfg, logger)
	if err != nil {
		return err
	}

	processed, fromCache, err := processWithCache(ctx, cfg, opts, info, time, accelInner, accelDrag, logger)
	if err != nil {
		return err
	}
	if fromCache {
		logger.Info("reusing cached pipeline results")
	}

	bundle := &dropdata.ResultBundle{Processed: processed}
	if bundle.InnerStat, err = stats.CalculateSeries(processed.Inner, cfg.Pipeline.WindowSize, cfg.Pipeline.SamplingRate); err != nil {
		return err
	}
	if bundle.DragStat, err = stats.CalculateSeries(processed.Drag, cfg.Pipeline.WindowSize, cfg.Pipeline.SamplingRate); err != nil {
		return err
	}
	logStat(logger, dropdata.SensorInner, bundle.InnerStat)
	logStat(logger, dropdata.SensorDrag, bundle.DragStat)

	if cfg.Sweep.Enabled {
		if bundle.Sweep, err = stats.Sweep(ctx, processed.Inner, processed.Drag, cfg.SweepParams()); err != nil {
			return err
		}
		logger.Info("quality sweep finished", slog.Int("steps", len(bundle.Sweep)))
	}

	return writeArtifacts(cfg, opts, bundle, time, accelInner, accelDrag, logger)
}

// extractColumns pulls the configured columns out of the table. When a
// configured column is missing, the resolver's candidates are logged
// so the operator can fix the selection.
func extractColumns(table *ingest.Table, cfg *config.Config, logger *slog.Logger) (time, accelInner, accelDrag []float64, err error) {
	required := []string{cfg.Columns.Time}
	if cfg.Pipeline.UseInnerAcceleration {
		required = append(required, cfg.Columns.InnerCapsule)
	}
	if cfg.Pipeline.UseDragAcceleration {
		required = append(required, cfg.Columns.DragShield)
	}

	var missing []string
	for _, name := range required {
		if !table.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		timeCands, accelCands := table.Resolve()
		logger.Warn("configured columns not found",
			slog.String("missing", strings.Join(missing, ", ")),
			slog.String("timeCandidates", strings.Join(timeCands, ", ")),
			slog.String("accelerationCandidates", strings.Join(accelCands, ", ")))
		return nil, nil, nil, fmt.Errorf("%w: %s", dropdata.ErrColumnNotFound, strings.Join(missing, ", "))
	}

	if time, err = table.Column(cfg.Columns.Time); err != nil {
		return nil, nil, nil, err
	}
	if cfg.Pipeline.UseInnerAcceleration {
		if accelInner, err = table.Column(cfg.Columns.InnerCapsule); err != nil {
			return nil, nil, nil, err
		}
	}
	if cfg.Pipeline.UseDragAcceleration {
		if accelDrag, err = table.Column(cfg.Columns.DragShield); err != nil {
			return nil, nil, nil, err
		}
	}
	return time, accelInner, accelDrag, nil
}

// processWithCache runs the pipeline, going through the result cache
// unless it is disabled. The fingerprint covers the file, its mtime,
// the pipeline parameters and the application version, so any change
// forces a reprocess.
func processWithCache(ctx context.Context, cfg *config.Config, opts Options, info os.FileInfo, time, accelInner, accelDrag []float64, logger *slog.Logger) (*dropdata.ProcessedData, bool, error) {
	params := cfg.Params()

	if opts.NoCache || !cfg.Cache.Enabled {
		processed, err := pipeline.Process(time, accelInner, accelDrag, params)
		return processed, false, err
	}

	fingerprint, err := cache.Fingerprint(opts.InputPath, info.ModTime(), params, version.Version)
	if err != nil {
		return nil, false, fmt.Errorf("computing cache fingerprint: %w", err)
	}

	store := cache.New(cacheDBPath(cfg, opts.InputPath))
	defer store.Close()

	if entry, err := store.Get(ctx, fingerprint); err != nil {
		logger.Warn("cache lookup failed, reprocessing", slog.String("error", err.Error()))
	} else if entry != nil {
		return entry.Processed, true, nil
	}

	processed, err := pipeline.Process(time, accelInner, accelDrag, params)
	if err != nil {
		return nil, false, err
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, false, fmt.Errorf("marshaling params: %w", err)
	}

	entry := cache.Entry{
		Fingerprint: fingerprint,
		FilePath:    opts.InputPath,
		FileMtime:   info.ModTime(),
		AppVersion:  version.Version,
		Params:      string(paramsJSON),
		Processed:   processed,
	}
	if err := store.Put(ctx, &entry); err != nil {
		// A failed cache write never fails the analysis.
		logger.Warn("cache write failed", slog.String("error", err.Error()))
	}

	return processed, false, nil
}

func writeArtifacts(cfg *config.Config, opts Options, bundle *dropdata.ResultBundle, time, accelInner, accelDrag []float64, logger *slog.Logger) error {
	resultsDir := filepath.Join(filepath.Dir(opts.InputPath), resultsDirName)
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	base := baseName(opts.InputPath)

	graphPath := filepath.Join(resultsDir, base+"_gravity.png")
	err := export.RenderPlot(graphPath, bundle.Processed.Inner, bundle.Processed.Drag, export.PlotConfig{
		Title: base,
		YMin:  cfg.Plot.YMin,
		YMax:  cfg.Plot.YMax,
	})
	if err != nil {
		return fmt.Errorf("rendering plot: %w", err)
	}

	workbookPath := filepath.Join(resultsDir, base+"_processed.xlsx")
	err = export.WriteWorkbook(workbookPath, &export.WorkbookData{
		Bundle:       bundle,
		SamplingRate: cfg.Pipeline.SamplingRate,
		RawTime:      time,
		RawInner:     accelInner,
		RawDrag:      accelDrag,
		GraphPNG:     graphPath,
	})
	if err != nil {
		return err
	}

	if info, err := os.Stat(workbookPath); err == nil {
		logger.Info("exported results",
			slog.String("workbook", workbookPath),
			slog.String("size", humanize.Bytes(uint64(info.Size()))),
			slog.String("graph", graphPath))
	}
	return nil
}

// cacheDBPath returns the cache database location for a recording:
// the configured directory, or results_droptower/cache beside the
// recording when none is configured.
func cacheDBPath(cfg *config.Config, inputPath string) string {
	dir := cfg.Cache.Directory
	if dir == "" {
		dir = filepath.Join(filepath.Dir(inputPath), resultsDirName, "cache")
	}
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "droptower_cache.sqlite")
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func logStat(logger *slog.Logger, sensor dropdata.Sensor, s dropdata.StatResult) {
	if !s.Valid {
		logger.Warn("insufficient data for statistics", slog.String("sensor", sensor.String()))
		return
	}
	logger.Info("stability statistics",
		slog.String("sensor", sensor.String()),
		slog.Float64("meanAbs", s.MeanAbs),
		slog.Float64("startTime", s.StartTime),
		slog.Float64("minStd", s.MinStd))
}
