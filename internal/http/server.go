package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobpulse/jobpulse/internal/metrics"
	"github.com/jobpulse/jobpulse/internal/quota"
	"github.com/jobpulse/jobpulse/internal/repository"
	"github.com/jobpulse/jobpulse/internal/store"
)

type Server struct{ e *echo.Echo }

// NewServer wires the status/reporting surface: health, metrics, pipeline
// statistics, and delivery attempt reports.
func NewServer(st *store.Store, qt *quota.Tracker, attempts repository.AttemptsRepository) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	v1 := e.Group("/v1")
	v1.GET("/stats", statsHandler(st, qt))
	v1.GET("/reports/attempts", listAttemptsHandler(attempts))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error { return s.e.Start(addr) }
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
