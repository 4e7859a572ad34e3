package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/thinkd/internal/session"
	"github.com/fyrsmithlabs/thinkd/internal/thinking"
)

// Server provides the dashboard and inspection endpoints over a session
// registry.
type Server struct {
	echo     *echo.Echo
	sessions *session.Registry
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ServiceName     string
	ShutdownTimeout time.Duration
}

// NewServer creates a new HTTP server.
func NewServer(sessions *session.Registry, logger *zap.Logger, cfg *Config) (*Server, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session registry cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host:            "localhost",
			Port:            9190,
			ServiceName:     "thinkd",
			ShutdownTimeout: 10 * time.Second,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/dashboard", s.handleDashboard)

	v1 := s.echo.Group("/api/v1")
	v1.GET("/sessions", s.handleSessions)
	v1.GET("/sessions/:id/history", s.handleHistory)
	v1.GET("/sessions/:id/branches", s.handleBranches)
	v1.GET("/sessions/:id/branches/:branch", s.handleBranch)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.config.ServiceName,
	})
}

// handleSessions lists live sessions with their occupancy.
func (s *Server) handleSessions(c echo.Context) error {
	list := s.sessions.List()

	resp := SessionsResponse{
		Sessions: make([]SessionSummary, 0, len(list)),
		Count:    len(list),
	}
	for _, sess := range list {
		sum := sess.Summary()
		resp.Sessions = append(resp.Sessions, SessionSummary{
			ID:              sess.ID,
			CreatedAt:       sess.CreatedAt,
			HistoryLength:   sum.HistoryLength,
			BranchCount:     sum.BranchCount,
			EvictedChains:   sum.EvictedChains,
			EvictedRecords:  sum.EvictedRecords,
			EvictedBranches: sum.EvictedBranches,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// handleHistory returns a session's main history. The optional limit query
// parameter returns only the newest N records.
func (s *Server) handleHistory(c echo.Context) error {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
	}

	records := sess.History(limit)
	return c.JSON(http.StatusOK, HistoryResponse{
		SessionID: sess.ID,
		Records:   records,
		Count:     len(records),
	})
}

// handleBranches lists a session's branches with metadata.
func (s *Server) handleBranches(c echo.Context) error {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	resp := BranchesResponse{
		SessionID: sess.ID,
	}
	ids := sess.BranchIDs()
	if len(ids) > 0 {
		resp.Branches = make(map[string]thinking.BranchMeta, len(ids))
		for _, id := range ids {
			if meta, ok := sess.BranchMeta(id); ok {
				resp.Branches[id] = meta
			}
		}
	}
	resp.Count = len(resp.Branches)

	return c.JSON(http.StatusOK, resp)
}

// handleBranch returns one branch's records. An unknown branch id yields an
// empty record list, matching the store's contract.
func (s *Server) handleBranch(c echo.Context) error {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	branchID := c.Param("branch")
	records := sess.Branch(branchID)

	return c.JSON(http.StatusOK, BranchResponse{
		SessionID: sess.ID,
		BranchID:  branchID,
		Records:   records,
		Count:     len(records),
	})
}

// Start starts the HTTP server and blocks until the context is cancelled.
// Returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return http.ErrServerClosed
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
