package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
	"github.com/saravanapriyaa21/take-it-right/internal/metrics"
	"github.com/saravanapriyaa21/take-it-right/internal/middleware"
)

// ReferenceCatalog is the read-only view of the reference tables the
// transport lists to clients.
type ReferenceCatalog interface {
	Ingredients() []string
	Brands() []string
	Expand(name string) []string
	Fingerprint() string
}

// Probe reports the state of one dependency for /readyz
type Probe func(ctx context.Context) interface{}

// Dependencies are the collaborators the server routes requests to
type Dependencies struct {
	Analyzer  domain.DoseAnalyzer
	Reference ReferenceCatalog
	Logger    *logrus.Logger
	// Metrics enables /metrics and the HTTP collectors when non-nil
	Metrics *metrics.Collector
	// Probes are reported by /readyz under their map key
	Probes map[string]Probe
	// AuditOutput receives the JSON access log; defaults to stdout
	AuditOutput io.Writer
	Version     string
}

// Server represents the HTTP server
type Server struct {
	config    *domain.Config
	analyzer  domain.DoseAnalyzer
	reference ReferenceCatalog
	logger    *logrus.Logger
	metrics   *metrics.Collector
	probes    map[string]Probe
	limiter   *middleware.RateLimiter
	version   string
	router    *gin.Engine
	server    *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(config *domain.Config, deps Dependencies) (*Server, error) {
	if deps.Analyzer == nil {
		return nil, errors.New("api: analyzer is required")
	}
	if deps.Reference == nil {
		return nil, errors.New("api: reference catalog is required")
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	if deps.AuditOutput == nil {
		deps.AuditOutput = os.Stdout
	}

	s := &Server{
		config:    config,
		analyzer:  deps.Analyzer,
		reference: deps.Reference,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		probes:    deps.Probes,
		version:   deps.Version,
	}

	if config.RateLimit.Enabled {
		var onResize func(int)
		if s.metrics != nil {
			onResize = func(n int) { s.metrics.RateLimiterClients.Set(float64(n)) }
		}
		s.limiter = middleware.NewRateLimiter(config.RateLimit, onResize)
	}

	s.router = gin.New()
	s.router.Use(
		middleware.Recovery(s.logger),
		middleware.CorrelationID(),
		middleware.AuditLogger(deps.AuditOutput),
		middleware.SecurityHeaders(),
		corsMiddleware(config.Server.CORSOrigins),
	)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware())
	}

	s.setupRoutes()

	return s, nil
}

// Router exposes the handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if s.limiter != nil {
		go s.limiter.Run(ctx, time.Minute, 5*time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/readyz", s.handleReady)

	if s.metrics != nil && s.config.Metrics.Enabled {
		path := s.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		s.router.GET(path, gin.WrapH(s.metrics.Handler()))
	}

	var limited []gin.HandlerFunc
	if s.limiter != nil {
		limited = append(limited, middleware.RateLimit(s.limiter))
	}
	bounded := chain(limited,
		middleware.RequestTimeout(s.config.Server.RequestTimeout),
		middleware.BodyLimit(s.config.Server.MaxBodyBytes),
	)

	// Legacy path used by the web frontend
	s.router.POST("/analyze", chain(bounded, s.handleAnalyze)...)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyze", chain(bounded, s.handleAnalyze)...)
		v1.POST("/explain", chain(bounded, s.handleExplain)...)
		v1.GET("/reference/medicines", chain(limited, s.handleMedicines)...)
		// Long-lived, so no request timeout
		v1.GET("/analyze/stream", chain(limited, s.handleStream)...)
	}
}

// chain returns a fresh slice so route handler lists never share storage
func chain(base []gin.HandlerFunc, handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(base)+len(handlers))
	out = append(out, base...)
	return append(out, handlers...)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.CorrelationIDHeader},
		ExposeHeaders: []string{middleware.CorrelationIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if allowsAllOrigins(origins) {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return cors.New(config)
}

func allowsAllOrigins(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
