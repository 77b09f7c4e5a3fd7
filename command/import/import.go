package cmdimport

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stage-dashboard/connectors/config"
	ccsv "stage-dashboard/connectors/csv"
	"stage-dashboard/connectors/ingest"
	"stage-dashboard/connectors/sheets"
	dc "stage-dashboard/domain/config"

	"golang.org/x/sync/errgroup"
)

// Run executes the import subcommand. It fetches one dataset (-dataset), every configured
// dataset (-all) or a local file (-file) and writes the normalized snapshot under -data.
func Run(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataset := fs.String("dataset", "", "dataset id from config (e.g. 2025)")
	all := fs.Bool("all", false, "import every configured dataset")
	file := fs.String("file", "", "local .xlsx or .csv file to import instead of a feed")
	name := fs.String("name", "", "dataset id to store -file under (default: file name without extension)")
	dataDir := fs.String("data", "./data", "directory receiving snapshots")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *file != "" {
		id := *name
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
		}
		return importFile(*file, id, *dataDir)
	}

	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		return err
	}

	var targets []dc.Dataset
	switch {
	case *all:
		targets = cfg.Datasets
	case *dataset != "":
		d, ok := cfg.Dataset(*dataset)
		if !ok {
			slog.Error("import.validation.error", "reason", "unknown dataset", "dataset", *dataset)
			return fmt.Errorf("unknown dataset %q", *dataset)
		}
		targets = []dc.Dataset{d}
	default:
		return errors.New("import: one of -dataset, -all or -file is required")
	}
	if len(targets) == 0 {
		return errors.New("import: no datasets configured")
	}

	slog.Info("import.start", "datasets", len(targets), "data", *dataDir)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(4)
	for _, d := range targets {
		d := d
		g.Go(func() error { return importDataset(ctx, d, *dataDir) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("import.done", "datasets", len(targets))
	return nil
}

func importDataset(ctx context.Context, d dc.Dataset, dataDir string) error {
	slog.Info("phase.dataset.fetch.start", "dataset", d.ID)
	rows, err := ingest.FromURL(ctx, sheets.ForDataset(d), d.URL)
	if err != nil {
		slog.Error("phase.dataset.fetch.error", "dataset", d.ID, "error", err)
		return fmt.Errorf("dataset %s: %w", d.ID, err)
	}
	path := ccsv.SnapshotPath(dataDir, d.ID)
	if err := ccsv.WriteRows(path, rows); err != nil {
		return fmt.Errorf("dataset %s: write %s: %w", d.ID, path, err)
	}
	slog.Info("phase.dataset.written", "dataset", d.ID, "rows", len(rows), "path", path)
	return nil
}

func importFile(file, id, dataDir string) error {
	slog.Info("import.file.start", "file", file, "dataset", id)
	rows, err := ingest.ReadFile(file)
	if err != nil {
		slog.Error("import.file.error", "file", file, "error", err)
		return err
	}
	path := ccsv.SnapshotPath(dataDir, id)
	if err := ccsv.WriteRows(path, rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("import.done", "dataset", id, "rows", len(rows), "path", path)
	return nil
}
