package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-feed/pkg/simplefeed"
	"github.com/tendant/simple-feed/pkg/simplefeed/api"
	"github.com/tendant/simple-feed/pkg/simplefeed/config"
)

// HTTPConfig holds listener settings that belong to the binary rather than the library.
type HTTPConfig struct {
	Host            string        `env:"HOST" env-default:""`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "err", err)
	}

	var httpConfig HTTPConfig
	if err := cleanenv.ReadEnv(&httpConfig); err != nil {
		slog.Error("Failed to read HTTP configuration", "err", err)
		os.Exit(1)
	}

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	logger := serverConfig.NewLogger()
	slog.SetDefault(logger)

	if serverConfig.DatabaseType == "postgres" {
		if err := config.PingPostgres(serverConfig.DatabaseURL, serverConfig.DBSchema); err != nil {
			logger.Error("Failed to connect to database", "err", err)
			os.Exit(1)
		}
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		logger.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	server := NewHTTPServer(svc, serverConfig, httpConfig)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", httpConfig.Host, serverConfig.Port),
		Handler: server.Routes(),
	}

	go func() {
		logger.Info("Simple Feed Server starting",
			"addr", httpServer.Addr,
			"database", serverConfig.DatabaseType,
			"jwt_auth", serverConfig.JWTSecret != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), httpConfig.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}

// HTTPServer wraps the simple-feed service for HTTP access
type HTTPServer struct {
	service    simplefeed.Service
	config     *config.ServerConfig
	httpConfig HTTPConfig
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(service simplefeed.Service, serverConfig *config.ServerConfig, httpConfig HTTPConfig) *HTTPServer {
	return &HTTPServer{
		service:    service,
		config:     serverConfig,
		httpConfig: httpConfig,
	}
}

// Routes sets up the HTTP routes
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.httpConfig.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.httpConfig.RequestTimeout))
	}

	r.Get("/health", s.handleHealth)
	r.Mount("/api/v1", api.NewRouter(s.service, api.NewAuthenticator(s.config.JWTSecret)))

	return r
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":      "healthy",
		"environment": s.config.Environment,
		"database":    s.config.DatabaseType,
	})
}
