// Package server runs the projects API: gin router, listener and graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ncobase/scanpage/config"
	"github.com/ncobase/scanpage/handler"
	"github.com/ncobase/scanpage/logging/logger"
	"github.com/ncobase/scanpage/project"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second

// App represents the main application.
type App struct {
	config   *config.Config
	logger   *logger.Logger
	handler  *handler.Handler
	router   *gin.Engine
	server   *http.Server
	listener net.Listener
	done     chan struct{}
	serveErr error
	once     sync.Once
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *logger.Logger, h *handler.Handler) *App {
	switch cfg.RunMode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(cfg.RunMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{
		config:  cfg,
		logger:  logger,
		handler: h,
	}
	a.router = a.newRouter()
	return a
}

func (a *App) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(traceMiddleware())
	router.Use(a.loggerMiddleware())

	a.handler.RegisterRoutes(router)
	router.HandleMethodNotAllowed = true
	router.NoRoute(notFound)
	router.NoMethod(notAllowed)
	return router
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.router
}

// Start binds the listener and serves in the background. A zero port picks
// a free one; Addr reports it.
func (a *App) Start() error {
	addr := a.config.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	a.listener = ln
	a.server = &http.Server{
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	a.done = make(chan struct{})

	ctx := context.Background()
	a.logger.Infof(ctx, "listening on %s", a.BaseURL())
	for _, u := range ExampleURLs(a.BaseURL()) {
		a.logger.Infof(ctx, "example: curl '%s'", u)
	}

	go func() {
		err := a.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			a.logger.Errorf(ctx, "server failed: %v", err)
		}
		a.serveErr = err
		close(a.done)
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (a *App) Addr() net.Addr {
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// BaseURL returns http://host:port of the bound listener.
func (a *App) BaseURL() string {
	if a.listener == nil {
		return ""
	}
	return "http://" + a.listener.Addr().String()
}

// Run starts the server and blocks until ctx is done, SIGINT or SIGTERM
// arrives, or the server fails; it then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-a.done:
		return a.serveErr
	case <-ctx.Done():
	}

	a.logger.Info(context.Background(), "Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		a.logger.Errorf(context.Background(), "Server forced to shutdown: %v", err)
		return err
	}
	a.logger.Info(context.Background(), "Server exited")
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones. It
// returns the serve error when the server had already failed.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	a.once.Do(func() {
		if a.server == nil {
			return
		}
		if err = a.server.Shutdown(ctx); err != nil {
			return
		}
		<-a.done
		err = a.serveErr
	})
	return err
}

// ExampleURLs returns one first-page listing URL per scan mode.
func ExampleURLs(base string) []string {
	modes := project.ScanModes()
	urls := make([]string, len(modes))
	for i, m := range modes {
		q := url.Values{"list_mode": {m.String()}}
		urls[i] = base + "/projects?" + q.Encode()
	}
	return urls
}
