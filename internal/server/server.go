// Package server is the HTTP presentation layer: the interactive page, a
// JSON API over the same analysis, SVG figures and operational endpoints.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ezoic/crispdm/crispdm"
	"github.com/ezoic/crispdm/internal/config"
	"github.com/ezoic/crispdm/pkg/log"
	"github.com/ezoic/crispdm/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "crispdm_session"

// SessionTTL is how long an idle session is kept.
const SessionTTL = 24 * time.Hour

//go:embed templates/*.tmpl
var templateFS embed.FS

// Server serves the application.
type Server struct {
	cfg    *config.Config
	store  *Store
	engine *gin.Engine
	logger log.Logger
}

// New builds a server for cfg with all routes registered.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:    cfg,
		logger: log.GetLoggerWithName("server"),
	}
	s.store = NewStore(SessionTTL, func() *session.State {
		return session.New(
			session.WithBaseSeed(cfg.Generator.BaseSeed),
			session.WithFixedSeed(cfg.Defaults.FixedSeed),
		)
	})

	engine := gin.New()
	engine.Use(gin.Recovery(), instrument(), s.requestLogger())
	engine.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl"),
	))

	engine.GET("/", s.handleIndex)
	engine.POST("/regenerate", s.handleRegenerate)

	api := engine.Group("/api")
	api.GET("/analysis", s.handleAnalysis)
	api.GET("/predict", s.handlePredict)
	api.GET("/model", s.handleModel)

	plots := engine.Group("/plots")
	plots.GET("/distribution.svg", s.handleDistributionPlot)
	plots.GET("/diagnostics.svg", s.handleDiagnosticsPlot)

	engine.GET("/health", handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine = engine
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Store returns the session store.
func (s *Server) Store() *Store { return s.store }

// Run serves on cfg.Server.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "server.addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("Server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) reportOptions(predictX float64) crispdm.ReportOptions {
	opts := crispdm.DefaultReportOptions()
	opts.TestSize = s.cfg.Split.TestSize
	opts.RandomState = s.cfg.Split.RandomState
	opts.PredictX = predictX
	return opts
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Request served",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
}
