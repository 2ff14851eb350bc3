package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student-records/config"
	"student-records/internal/handler"
	"student-records/internal/middleware"
	"student-records/internal/redis"
	"student-records/internal/storage"
	"student-records/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Students *handler.StudentHandler
	Health   *handler.HealthHandler
	// Avatars serves object-storage avatars. Nil means avatars live in
	// UploadDir and are served as static files.
	Avatars *handler.AvatarHandler
}

type RouteOptions struct {
	UploadDir   string
	RateLimiter *redis.RateLimiter
}

func SetMode(appMode string) {
	switch appMode {
	case ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}

// New builds the record service server listening on PORT.
func New(cfg *config.Config, l *logger.Logger) *Server {
	return newServer(cfg, cfg.AppPort, l)
}

// NewUI builds the client UI server listening on UI_PORT. Routes are added
// by the caller on Engine().
func NewUI(cfg *config.Config, l *logger.Logger) *Server {
	s := newServer(cfg, cfg.UIPort, l)
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(l))
	return s
}

func newServer(cfg *config.Config, port string, l *logger.Logger) *Server {
	SetMode(cfg.AppMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = cfg.MaxUploadBytes

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, opts RouteOptions) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.AllowedOrigins()))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.MetricsMiddleware())
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", handlers.Health.Ping)
	s.engine.GET("/health", handlers.Health.Health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if handlers.Avatars != nil {
		s.engine.GET("/"+storage.PublicPrefix+"/:name", handlers.Avatars.Get)
	} else {
		s.engine.Static("/"+storage.PublicPrefix, opts.UploadDir)
	}

	writes := []gin.HandlerFunc{middleware.BodyLimitMiddleware(s.config.MaxUploadBytes)}
	if opts.RateLimiter != nil {
		writes = append(writes, middleware.WriteRateLimitMiddleware(opts.RateLimiter))
	}
	withWrites := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writes...), h)
	}

	s.engine.POST("/students", withWrites(handlers.Students.Create)...)
	s.engine.GET("/students-paging", handlers.Students.ListPage)
	s.engine.GET("/students", handlers.Students.ListAll)
	s.engine.GET("/students/:id", handlers.Students.GetByID)
	s.engine.PUT("/students/:id", withWrites(handlers.Students.Update)...)
	s.engine.DELETE("/students/:id", withWrites(handlers.Students.Delete)...)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on %s...", s.httpServer.Addr)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on %s", s.httpServer.Addr)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
