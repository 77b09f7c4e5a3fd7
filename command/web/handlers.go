package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"stage-dashboard/connectors/config"
	"stage-dashboard/connectors/ingest"
	"stage-dashboard/connectors/sheets"
	dc "stage-dashboard/domain/config"
	"stage-dashboard/domain/progress"

	"github.com/labstack/echo/v4"
)

// maxUpload bounds an uploaded workbook.
const maxUpload = 32 << 20

// Server exposes the datasets in a Store over JSON.
type Server struct {
	cfg     *config.Config
	store   *Store
	opt     progress.Options
	fetcher func(dc.Dataset) ingest.Fetcher
	timeout time.Duration
}

func NewServer(cfg *config.Config, store *Store) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		opt:     cfg.Options(),
		fetcher: func(d dc.Dataset) ingest.Fetcher { return sheets.ForDataset(d) },
		timeout: time.Minute,
	}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/datasets", s.listDatasets)
	api.POST("/datasets/:id/reload", s.reload)
	api.POST("/datasets/:id/upload", s.upload)
	api.GET("/datasets/:id/rows", s.rows)
	api.GET("/datasets/:id/stages", s.stages)
	api.GET("/datasets/:id/dashboard", s.dashboard)
}

type datasetStatus struct {
	ID       string         `json:"id"`
	Phase    progress.Phase `json:"phase"`
	Source   string         `json:"source,omitempty"`
	Error    string         `json:"error,omitempty"`
	Rows     int            `json:"rows"`
	LoadedAt *time.Time     `json:"loadedAt,omitempty"`
}

func statusOf(id string, st progress.LoadState) datasetStatus {
	ds := datasetStatus{ID: id, Phase: st.Phase, Source: st.Source, Rows: len(st.Rows)}
	if st.Err != nil {
		ds.Error = st.Err.Error()
	}
	if !st.LoadedAt.IsZero() {
		at := st.LoadedAt
		ds.LoadedAt = &at
	}
	return ds
}

func (s *Server) listDatasets(c echo.Context) error {
	out := make([]datasetStatus, 0, len(s.store.IDs()))
	for _, id := range s.store.IDs() {
		st, _ := s.store.Get(id)
		out = append(out, statusOf(id, st))
	}
	return c.JSON(http.StatusOK, out)
}

// ReloadFeed fetches the configured feed of d into the store.
func (s *Server) ReloadFeed(ctx context.Context, d dc.Dataset) (progress.LoadState, error) {
	st, _, err := s.store.Reload(ctx, d.ID, "Google Sheet "+d.ID, func(ctx context.Context) ([]progress.NormalizedRow, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return ingest.FromURL(ctx, s.fetcher(d), d.URL)
	})
	return st, err
}

func (s *Server) reload(c echo.Context) error {
	id := c.Param("id")
	d, ok := s.cfg.Dataset(id)
	if !ok {
		return notFound(c, id)
	}
	st, err := s.ReloadFeed(c.Request().Context(), d)
	if err != nil {
		return loadFailed(c, id, st, err)
	}
	return c.JSON(http.StatusOK, statusOf(id, st))
}

func (s *Server) upload(c echo.Context) error {
	id := c.Param("id")
	if _, ok := s.store.Get(id); !ok {
		return notFound(c, id)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, fmt.Errorf("multipart field \"file\" is required: %w", err))
	}
	if fh.Size > maxUpload {
		return badRequest(c, fmt.Errorf("file too large: %d bytes (max %d)", fh.Size, maxUpload))
	}
	// Read before handing off; the multipart temp file goes away with the request.
	f, err := fh.Open()
	if err != nil {
		return loadFailed(c, id, progress.LoadState{}, &progress.RetrievalError{Source: fh.Filename, Err: err})
	}
	data, err := io.ReadAll(io.LimitReader(f, maxUpload))
	_ = f.Close()
	if err != nil {
		return loadFailed(c, id, progress.LoadState{}, &progress.RetrievalError{Source: fh.Filename, Err: err})
	}

	st, _, err := s.store.Reload(c.Request().Context(), id, fh.Filename, func(context.Context) ([]progress.NormalizedRow, error) {
		return ingest.FromFile(fh.Filename, data)
	})
	if err != nil {
		return loadFailed(c, id, st, err)
	}
	return c.JSON(http.StatusOK, statusOf(id, st))
}

func (s *Server) rows(c echo.Context) error {
	id := c.Param("id")
	st, ok := s.store.Get(id)
	if !ok {
		return notFound(c, id)
	}
	stage := progress.ParseStage(c.QueryParam("stage"))
	return c.JSON(http.StatusOK, progress.FilterByStage(st.Rows, stage))
}

func (s *Server) stages(c echo.Context) error {
	id := c.Param("id")
	st, ok := s.store.Get(id)
	if !ok {
		return notFound(c, id)
	}
	return c.JSON(http.StatusOK, progress.DistinctStages(st.Rows, s.opt.PreferredStages))
}

func (s *Server) dashboard(c echo.Context) error {
	id := c.Param("id")
	st, ok := s.store.Get(id)
	if !ok {
		return notFound(c, id)
	}
	week, err := progress.ParseWeek(c.QueryParam("week"))
	if err != nil {
		return badRequest(c, err)
	}
	// A stage missing from freshly loaded rows falls back to all stages.
	stage := progress.ResolveStage(st.Rows, progress.ParseStage(c.QueryParam("stage")))
	view := progress.BuildView(st.Rows, progress.Filter{Stage: stage, Week: week}, s.opt)
	return c.JSON(http.StatusOK, map[string]any{
		"dataset": statusOf(id, st),
		"view":    view,
	})
}

func notFound(c echo.Context, id string) error {
	return c.JSON(http.StatusNotFound, map[string]any{
		"error":   "dataset not found",
		"dataset": id,
		"message": "unknown dataset id",
	})
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"error":   err.Error(),
		"message": "invalid request",
	})
}

func loadFailed(c echo.Context, id string, st progress.LoadState, err error) error {
	code, msg := http.StatusInternalServerError, "failed to load data"
	switch {
	case errors.Is(err, progress.ErrMalformedInput):
		code, msg = http.StatusUnprocessableEntity, "required columns not found"
	case errors.Is(err, progress.ErrRetrieval):
		code, msg = http.StatusBadGateway, "failed to retrieve source"
	}
	return c.JSON(code, map[string]any{
		"error":   err.Error(),
		"message": msg,
		"dataset": statusOf(id, st),
	})
}
