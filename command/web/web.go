package web

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"stage-dashboard/connectors/config"
	ccsv "stage-dashboard/connectors/csv"
	"stage-dashboard/connectors/ingest"
	"stage-dashboard/domain/progress"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// Run starts a small Echo web server exposing the dashboard APIs and an optional SPA.
//
// Usage:
//
//	stage-dashboard web [-addr :8080] [-data ./data] [-ui ./ui/dist] [-preload]
//
// Endpoints:
//
//	GET  /api/datasets                      -> load status of every configured dataset
//	POST /api/datasets/:id/reload           -> fetch the dataset's feed again
//	POST /api/datasets/:id/upload           -> replace rows with an uploaded CSV/workbook (field "file")
//	GET  /api/datasets/:id/rows?stage=      -> normalized rows
//	GET  /api/datasets/:id/stages           -> stage filter choices
//	GET  /api/datasets/:id/dashboard?stage=&week= -> every dashboard section
//
// Datasets start from the snapshot written by import when one exists under -data;
// -preload fetches every feed instead.
func Run(args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "http listen address (host:port)")
	dataDir := fs.String("data", "./data", "directory containing snapshots written by import")
	uiDir := fs.String("ui", "./ui/dist", "directory containing built UI (Vite dist)")
	preload := fs.Bool("preload", false, "fetch every dataset feed at startup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(cfg.Datasets))
	for _, d := range cfg.Datasets {
		ids = append(ids, d.ID)
	}
	srv := NewServer(cfg, NewStore(ids, cfg.FailurePolicy()))

	ctx := context.Background()
	if *preload {
		srv.Preload(ctx)
	} else {
		srv.Seed(ctx, *dataDir)
	}

	e := echo.New()
	srv.Register(e)
	ServeUI(e, *uiDir)

	slog.Info("web.start", "addr", *addr, "datasets", len(ids))
	return e.Start(*addr)
}

// Seed loads each dataset's snapshot under dataDir; datasets without one stay idle.
func (s *Server) Seed(ctx context.Context, dataDir string) {
	for _, id := range s.store.IDs() {
		path := ccsv.SnapshotPath(dataDir, id)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			slog.Info("web.seed.skip", "dataset", id, "path", path)
			continue
		}
		_, _, _ = s.store.Reload(ctx, id, path, func(context.Context) ([]progress.NormalizedRow, error) {
			return ingest.ReadFile(path)
		})
	}
}

// Preload fetches every configured feed in parallel. Failures are recorded on the dataset.
func (s *Server) Preload(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, d := range s.cfg.Datasets {
		d := d
		g.Go(func() error {
			_, _ = s.ReloadFeed(ctx, d)
			return nil
		})
	}
	_ = g.Wait()
}

// ServeUI serves a built Vite app from uiDir when index.html exists. Unknown non-API
// routes fall back to index.html for SPA routing.
func ServeUI(e *echo.Echo, uiDir string) {
	indexPath := filepath.Join(uiDir, "index.html")
	fi, err := os.Stat(indexPath)
	if err != nil || fi.IsDir() {
		return
	}
	e.Static("/", uiDir)
	e.GET("/", func(c echo.Context) error { return c.File(indexPath) })

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
			if !strings.HasPrefix(c.Request().URL.Path, "/api") {
				_ = c.File(indexPath)
				return
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
