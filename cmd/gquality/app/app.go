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

// Run performs the quality sweep for one recording and writes the
// quality-vs-scale curve as an HTML chart, updating the recording's
// workbook sheet unless disabled. Pipeline results come from the
// cache when a valid entry exists.
func Run(ctx context.Context, cfg *config.Config, opts *Options, logger *slog.Logger) error {
	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", dropdata.ErrDataLoad, opts.InputPath, err)
	}

	processed, err := loadProcessed(ctx, cfg, opts, info, logger)
	if err != nil {
		return err
	}

	sweep, err := stats.Sweep(ctx, processed.Inner, processed.Drag, cfg.SweepParams())
	if err != nil {
		return err
	}
	logger.Info("quality sweep finished",
		slog.Int("steps", len(sweep)),
		slog.String("rows", humanize.Comma(int64(processed.Inner.Len()+processed.Drag.Len()))))

	resultsDir := filepath.Join(filepath.Dir(opts.InputPath), resultsDirName)
	if err = os.MkdirAll(resultsDir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(opts.InputPath), filepath.Ext(opts.InputPath))

	chartPath := opts.OutputHTML
	if chartPath == "" {
		chartPath = filepath.Join(resultsDir, base+"_gquality.html")
	}
	if err = export.WriteSweepChart(chartPath, sweep); err != nil {
		return err
	}
	logger.Info("wrote sweep chart", slog.String("chart", chartPath))

	if !opts.NoWorkbook {
		workbookPath := filepath.Join(resultsDir, base+"_processed.xlsx")
		if err = export.AppendSweepSheet(workbookPath, sweep); err != nil {
			return err
		}
		logger.Info("updated workbook sweep sheet", slog.String("workbook", workbookPath))
	}

	return nil
}

// loadProcessed returns the pipeline output for the recording, from
// the cache when possible, otherwise by loading and processing the
// CSV (and caching the outcome for the next run).
func loadProcessed(ctx context.Context, cfg *config.Config, opts *Options, info os.FileInfo, logger *slog.Logger) (*dropdata.ProcessedData, error) {
	params := cfg.Params()

	var store *cache.Store
	var fingerprint string
	if !opts.NoCache && cfg.Cache.Enabled {
		var err error
		if fingerprint, err = cache.Fingerprint(opts.InputPath, info.ModTime(), params, version.Version); err != nil {
			return nil, fmt.Errorf("computing cache fingerprint: %w", err)
		}

		store = cache.New(cacheDBPath(cfg, opts.InputPath))
		defer store.Close()

		if entry, err := store.Get(ctx, fingerprint); err != nil {
			logger.Warn("cache lookup failed, reprocessing", slog.String("error", err.Error()))
		} else if entry != nil {
			logger.Info("reusing cached pipeline results")
			return entry.Processed, nil
		}
	}

	table, err := ingest.Load(opts.InputPath)
	if err != nil {
		return nil, err
	}

	time, err := table.Column(cfg.Columns.Time)
	if err != nil {
		return nil, err
	}
	var accelInner, accelDrag []float64
	if cfg.Pipeline.UseInnerAcceleration {
		if accelInner, err = table.Column(cfg.Columns.InnerCapsule); err != nil {
			return nil, err
		}
	}
	if cfg.Pipeline.UseDragAcceleration {
		if accelDrag, err = table.Column(cfg.Columns.DragShield); err != nil {
			return nil, err
		}
	}

	processed, err := pipeline.Process(time, accelInner, accelDrag, params)
	if err != nil {
		return nil, err
	}

	if store != nil {
		paramsJSON, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshaling params: %w", err)
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
			logger.Warn("cache write failed", slog.String("error", err.Error()))
		}
	}

	return processed, nil
}

func cacheDBPath(cfg *config.Config, inputPath string) string {
	dir := cfg.Cache.Directory
	if dir == "" {
		dir = filepath.Join(filepath.Dir(inputPath), resultsDirName, "cache")
	}
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "droptower_cache.sqlite")
}
