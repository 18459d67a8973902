// Package server exposes the analysis pipeline over HTTP: job submission
// endpoints for each crew, job polling, and listings queries.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/armaanamatya/HackUTD2025/internal/crews"
	"github.com/armaanamatya/HackUTD2025/internal/jobs"
	"github.com/armaanamatya/HackUTD2025/internal/listings"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
)

// Config configures the HTTP server.
type Config struct {
	Addr         string
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Model        string
}

// Server wires the crew factory and job manager behind a gin engine.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	factory    *crews.Factory
	manager    *jobs.Manager
	store      listings.Store
	logger     logging.Logger
	model      string
}

// New builds the server and registers all routes.
func New(cfg Config, factory *crews.Factory, manager *jobs.Manager, store listings.Store, logger logging.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	engine.Use(cors.New(corsConfig))

	s := &Server{
		engine:  engine,
		factory: factory,
		manager: manager,
		store:   store,
		logger:  logging.OrNop(logger),
		model:   cfg.Model,
	}
	s.engine.Use(s.requestLog())
	s.registerRoutes()

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is canceled, then drains gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s status=%d duration=%.2fs",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Seconds())
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/config", s.handleConfig)
	s.engine.GET("/healthz", s.handleHealthz)

	s.engine.POST("/respond", s.handleRespond)
	s.engine.POST("/respond-with-files", s.handleRespondWithFiles)
	s.engine.POST("/research", s.handleResearch)
	s.engine.POST("/research-with-files", s.handleResearchWithFiles)
	s.engine.POST("/project-planning", s.handleProjectPlanning)
	s.engine.POST("/project-planning-with-files", s.handleProjectPlanningWithFiles)

	s.engine.GET("/jobs", s.handleListJobs)
	s.engine.GET("/jobs/:id", s.handleGetJob)
	s.engine.DELETE("/jobs/:id", s.handleDeleteJob)

	s.engine.GET("/listings", s.handleListings)
	s.engine.POST("/listings/search", s.handleListingsSearch)
	s.engine.GET("/listings/stats", s.handleListingsStats)
}
