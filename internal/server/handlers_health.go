package server

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/robog-two/wishlily-db/internal/version"
)

func (s *Server) handleRoot(c echo.Context) error {
	body := map[string]any{
		"message": "👒 WishLily Database API. https://wishlily.app/",
		"success": true,
	}
	if !s.config.IsProduction() {
		body["env"] = s.config.AppEnv
	}
	return c.JSON(200, body)
}

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := s.clock.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		return c.JSON(503, map[string]any{
			"status":       "unhealthy",
			"failed_check": "mongodb",
			"error":        err.Error(),
		})
	}

	return c.JSON(200, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}
