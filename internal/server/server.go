package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/robog-two/wishlily-db/internal/config"
	"github.com/robog-two/wishlily-db/internal/domain"
	"github.com/robog-two/wishlily-db/internal/hub"
	"github.com/robog-two/wishlily-db/internal/protocol"
)

// storeHealthChecker is the slice of the mongo DB the readiness probe
// needs.
type storeHealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       domain.WishService
	hub       *hub.Hub
	protocol  *protocol.Handler
	store     storeHealthChecker
	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, app domain.WishService, h *hub.Hub, handler *protocol.Handler, store storeHealthChecker, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		hub:       h,
		protocol:  handler,
		store:     store,
		clock:     clock,
		startTime: clock.Now(),
	}

	// Register routes
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
