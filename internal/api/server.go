package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/synthkit/internal/fetch"
	"github.com/samcharles93/synthkit/internal/logger"
	"github.com/samcharles93/synthkit/internal/synth"
	"github.com/samcharles93/synthkit/internal/tabular"
)

// DefaultMaxCells caps the float64 values one generated dataset allocates,
// counting the output matrix and the latent factors.
const DefaultMaxCells = 20_000_000

type Config struct {
	Store   *DatasetStore
	DataDir string

	// Fetcher is optional; without it POST /v1/files answers 503.
	Fetcher *fetch.Fetcher

	// MaxCells <= 0 selects DefaultMaxCells.
	MaxCells int

	Logger logger.Logger
}

type Server struct {
	store    *DatasetStore
	fetcher  *fetch.Fetcher
	dataDir  string
	maxCells int
	log      logger.Logger
	generate func(synth.Params) (*synth.Dataset, error)
}

func NewServer(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = NewDatasetStore()
	}
	if cfg.MaxCells <= 0 {
		cfg.MaxCells = DefaultMaxCells
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	return &Server{
		store:    cfg.Store,
		fetcher:  cfg.Fetcher,
		dataDir:  cfg.DataDir,
		maxCells: cfg.MaxCells,
		log:      cfg.Logger,
		generate: synth.Generate,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/datasets", s.handleCreateDataset)
	e.GET("/v1/datasets", s.handleListDatasets)
	e.GET("/v1/datasets/:id", s.handleGetDataset)
	e.GET("/v1/datasets/:id/summary", s.handleDatasetSummary)
	e.DELETE("/v1/datasets/:id", s.handleDeleteDataset)

	e.POST("/v1/files", s.handleFetchFile)
}

func (s *Server) handleCreateDataset(c *echo.Context) error {
	params, err := decodeJSON[synth.Params](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err)
	}
	if err := params.Validate(); err != nil {
		return writeBadRequest(c, err)
	}
	if err := checkSize(params, s.maxCells); err != nil {
		return writeBadRequest(c, err)
	}

	ds, err := s.generate(params)
	if err != nil {
		if errors.Is(err, synth.ErrInvalidParams) {
			return writeBadRequest(c, err)
		}
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
	}
	s.store.Save(ds)

	rows, cols := ds.Dims()
	s.log.Info("dataset generated", "id", ds.ID, "rows", rows, "cols", cols, "seed", ds.Seed)
	return c.JSON(http.StatusCreated, tabular.NewDocument(ds, wantData(c)))
}

func (s *Server) handleListDatasets(c *echo.Context) error {
	return c.JSON(http.StatusOK, DatasetList{
		Object: "list",
		Data:   datasetInfos(s.store.List()),
	})
}

func (s *Server) handleGetDataset(c *echo.Context) error {
	id := c.Param("id")
	ds, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "dataset not found: "+id)
	}

	switch strings.ToLower(c.QueryParam("format")) {
	case "", "json":
		return c.JSON(http.StatusOK, tabular.NewDocument(ds, wantData(c)))
	case "csv":
		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ds.ID+`.csv"`)
		res.WriteHeader(http.StatusOK)
		return tabular.WriteCSV(res, ds, tabular.CSVOptions{
			Header:  c.QueryParam("header") != "false",
			Missing: c.QueryParam("missing"),
		})
	default:
		return writeBadRequest(c, newInvalidRequest("format", "unsupported format %q (want json or csv)", c.QueryParam("format")))
	}
}

func (s *Server) handleDatasetSummary(c *echo.Context) error {
	id := c.Param("id")
	ds, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "dataset not found: "+id)
	}
	return c.JSON(http.StatusOK, SummaryResponse{
		ID:      ds.ID,
		Object:  "dataset.summary",
		Columns: tabular.Summarize(ds),
	})
}

func (s *Server) handleDeleteDataset(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "dataset not found: "+id)
	}
	return c.JSON(http.StatusOK, DeleteResponse{
		ID:      id,
		Object:  "dataset.deleted",
		Deleted: true,
	})
}

func (s *Server) handleFetchFile(c *echo.Context) error {
	if s.fetcher == nil || s.dataDir == "" {
		return writeError(c, http.StatusServiceUnavailable, "unavailable_error", "file fetching is not configured", "")
	}
	req, err := decodeJSON[FetchRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err)
	}
	if strings.TrimSpace(req.FileName) == "" {
		return writeBadRequest(c, newInvalidRequest("file_name", "is required"))
	}

	res, err := s.fetcher.Fetch(c.Request().Context(), req.FileName, s.dataDir)
	switch {
	case errors.Is(err, fetch.ErrInvalidFileName):
		return writeBadRequest(c, newInvalidRequest("file_name", "%v", err))
	case err != nil:
		return writeError(c, http.StatusBadGateway, "upstream_error", err.Error(), "")
	}

	return c.JSON(http.StatusOK, FetchResponse{
		Object:   "file",
		FileName: req.FileName,
		Path:     res.Path,
		Cached:   res.Cached,
		Attempts: res.Attempts,
		Bytes:    res.Bytes,
	})
}

// wantData is false when the caller passed ?data=false to get metadata only.
func wantData(c *echo.Context) bool {
	return c.QueryParam("data") != "false"
}
