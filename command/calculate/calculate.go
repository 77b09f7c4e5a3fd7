package calculate

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"stage-dashboard/connectors/config"
	ccsv "stage-dashboard/connectors/csv"
	"stage-dashboard/connectors/ingest"
	"stage-dashboard/domain/progress"
)

// Run executes the calculate command: read a dataset snapshot written by import, apply the
// stage/week filter and write every dashboard section as CSV under <data>/<dataset>/dashboard.
func Run(args []string) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataset := fs.String("dataset", "", "dataset id whose snapshot to read (required)")
	stage := fs.String("stage", progress.AllStages, "stage filter (all or an exact stage name)")
	week := fs.String("week", "all", "week filter: all, week1, w2, w3 or w4")
	dataDir := fs.String("data", "./data", "directory containing snapshots")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("calculate: unexpected arguments %v", fs.Args())
	}
	if *dataset == "" {
		return errors.New("calculate: -dataset is required")
	}
	slot, err := progress.ParseWeek(*week)
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}

	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		return err
	}

	in := ccsv.SnapshotPath(*dataDir, *dataset)
	rows, err := ingest.ReadFile(in)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no snapshot for dataset %s at %s (run import first)", *dataset, in)
		}
		return err
	}

	requested := progress.ParseStage(*stage)
	resolved := progress.ResolveStage(rows, requested)
	if resolved != requested {
		slog.Warn("calculate.stage.fallback", "stage", *stage, "reason", "stage not present in snapshot")
	}
	view := progress.BuildView(rows, progress.Filter{Stage: resolved, Week: slot}, cfg.Options())

	out := filepath.Join(*dataDir, *dataset, "dashboard")
	if err := ccsv.WriteView(out, view); err != nil {
		return err
	}
	slog.Info("calculate.done", "dataset", *dataset, "rows", len(rows), "stage", resolved, "week", slot, "out", out)
	return nil
}
