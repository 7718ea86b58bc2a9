// Package web exposes the dashboard HTTP API: health and metrics
// endpoints, the JSON views over the fires dataset, and an optional
// static UI.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LoreEMF/spain-wildfires/internal/config"
	"github.com/LoreEMF/spain-wildfires/internal/dataset"
	"github.com/LoreEMF/spain-wildfires/internal/domain"
	"github.com/LoreEMF/spain-wildfires/internal/geo"
)

// DataService serves the dashboard views. *dataset.Dataset implements
// it.
type DataService interface {
	CheckReadiness(ctx context.Context) error
	YearRange() (int, int)
	Summary(f domain.Filter) dataset.Summary
	Records(f domain.Filter) []domain.Record
	Provinces(f domain.Filter) ([]domain.ProvinceResources, error)
	MapFeatureCollection(f domain.Filter) (*geo.FeatureCollection, error)
	BurnedAreaByYear(f domain.Filter) ([]domain.YearBurnedArea, error)
	ResourcesByYear(f domain.Filter) ([]domain.YearResources, error)
	TopProvinces(f domain.Filter, n int) ([]domain.ProvinceBurnedArea, error)
}

// Server wraps the echo engine with the dashboard routes.
type Server struct {
	echo   *echo.Echo
	data   DataService
	logger *slog.Logger
	addr   string
	topN   int
}

// NewServer creates the HTTP server. When cfg.UIDir holds a built UI
// (index.html exists), static files are served at / with SPA fallback
// for non-API routes.
func NewServer(cfg *config.Config, data DataService, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		data:   data,
		logger: logger,
		addr:   cfg.HTTPAddr,
		topN:   cfg.TopProvinces,
	}

	e.GET("/healthz", s.handleHealth)
	e.GET("/readyz", s.handleReady)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/summary", s.handleSummary)
	api.GET("/records", s.handleRecords)
	api.GET("/provinces", s.handleProvinces)
	api.GET("/map", s.handleMap)
	api.GET("/burned-area", s.handleBurnedArea)
	api.GET("/resources", s.handleResources)
	api.GET("/top-provinces", s.handleTopProvinces)

	s.mountUI(cfg.UIDir)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.addr)
	return s.echo.Start(s.addr)
}

// Shutdown gracefully drains connections within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP delegates to the echo engine, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.data.CheckReadiness(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSummary(c echo.Context) error {
	f, err := s.parseFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.data.Summary(f))
}

func (s *Server) handleRecords(c echo.Context) error {
	f, err := s.parseFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.data.Records(f))
}

func (s *Server) handleProvinces(c echo.Context) error {
	f, err := s.parseFilter(c)
	if err != nil {
		return err
	}
	rows, err := s.data.Provinces(f)
	if err != nil {
		return s.viewError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleMap(c echo.Context) error {
	f, err := s.parseFilter(c)
	if err != nil {
		return err
	}
	fc, err := s.data.MapFeatureCollection(f)
	if err != nil {
		return s.viewError(c, err)
	}
	return c.JSON(http.StatusOK, fc)
}

func (s *Server) handleBurnedArea(c echo.Context) error {
	f, err := s.parseFilter(c)
	if err != nil {
		return err
	}
	rows, err := s.data.BurnedAreaByYear(f)
	if err != nil {
		return s.viewError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleResources(c echo.Context) error {
	f, err := s.parseFilter(c)
	if err != nil {
		return err
	}
	rows, err := s.data.ResourcesByYear(f)
	if err != nil {
		return s.viewError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleTopProvinces(c echo.Context) error {
	f, err := s.parseFilter(c)
	if err != nil {
		return err
	}

	n := s.topN
	if v := c.QueryParam("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid n")
		}
		n = parsed
	}

	rows, err := s.data.TopProvinces(f, n)
	if err != nil {
		return s.viewError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// parseFilter builds the row filter from the from/to/intentional/
// unintentional query parameters. Year bounds default to the loaded
// range; both intent classes default to selected.
func (s *Server) parseFilter(c echo.Context) (domain.Filter, error) {
	minYear, maxYear := s.data.YearRange()
	f := domain.Filter{FromYear: minYear, ToYear: maxYear, Intentional: true, Unintentional: true}

	if v := c.QueryParam("from"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.Filter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from year")
		}
		f.FromYear = n
	}
	if v := c.QueryParam("to"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.Filter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to year")
		}
		f.ToYear = n
	}
	if v := c.QueryParam("intentional"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.Filter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid intentional flag")
		}
		f.Intentional = b
	}
	if v := c.QueryParam("unintentional"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.Filter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid unintentional flag")
		}
		f.Unintentional = b
	}

	return f, nil
}

// viewError maps a missing-columns failure to 422 so clients can tell a
// malformed source file from a server fault.
func (s *Server) viewError(c echo.Context, err error) error {
	var missing *domain.MissingColumnsError
	if errors.As(err, &missing) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":           err.Error(),
			"missing_columns": missing.Columns,
		})
	}
	return err
}

// mountUI serves a built single-page app when the directory holds an
// index.html. Unknown non-API routes fall back to the index for client
// side routing.
func (s *Server) mountUI(dir string) {
	if dir == "" {
		return
	}
	indexPath := filepath.Join(dir, "index.html")
	fi, err := os.Stat(indexPath)
	if err != nil || fi.IsDir() {
		s.logger.Warn("ui directory has no index.html, serving API only", "dir", dir)
		return
	}

	s.echo.Static("/", dir)
	s.echo.GET("/", func(c echo.Context) error { return c.File(indexPath) })

	s.echo.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
			if p := c.Request().URL.Path; !strings.HasPrefix(p, "/api") {
				_ = c.File(indexPath)
				return
			}
		}
		s.echo.DefaultHTTPErrorHandler(err, c)
	}
}
