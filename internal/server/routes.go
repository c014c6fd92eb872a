package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Root - API banner
	s.echo.GET("/", s.handleRoot)

	// Wish CRUD (body-authenticated with userId/userKey)
	s.echo.POST("/add_item_to_wishlist", s.handleAddWish)
	s.echo.POST("/delete_item_from_wishlist", s.handleDeleteWish)
	s.echo.POST("/delete_all_items_in_wishlist", s.handleDeleteAllWishes)
	s.echo.POST("/list_products_in_wishlist", s.handleListWishes)

	// Live sync (single multiplexed endpoint - channel comes from frames)
	s.echo.GET("/product-update-websocket", s.handleWebSocket)
}
