// Package server exposes the classification workflow over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/guilherme-rhein/invest-smart-b3/internal/cache"
	"github.com/guilherme-rhein/invest-smart-b3/internal/classifier"
	"github.com/guilherme-rhein/invest-smart-b3/internal/model"
)

// Server wires the echo router to the classification pipeline. The last
// batch result is kept in memory for the session; nothing is persisted.
type Server struct {
	echo       *echo.Echo
	classifier *classifier.Classifier
	fund       *cache.FundamentalsCache
	log        zerolog.Logger

	mu   sync.RWMutex
	last *model.BatchResult
}

// New creates the server and registers all routes.
func New(cl *classifier.Classifier, fund *cache.FundamentalsCache, log zerolog.Logger) *Server {
	s := &Server{
		echo:       echo.New(),
		classifier: cl,
		fund:       fund,
		log:        log.With().Str("component", "server").Logger(),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())

	api := s.echo.Group("/api")
	api.POST("/sheets", s.Sheets)
	api.POST("/classify", s.Classify)
	api.POST("/filter", s.Filter)
	api.POST("/fundamentals", s.Fundamentals)
	api.GET("/export/classification", s.ExportClassification)
	api.GET("/export/fundamentals", s.ExportFundamentals)

	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Info().Str("addr", addr).Msg("http server listening")
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

// Router exposes the underlying echo instance for tests.
func (s *Server) Router() *echo.Echo { return s.echo }

func (s *Server) setResult(r *model.BatchResult) {
	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
}

func (s *Server) result() *model.BatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
