package server

import (
	"errors"
	"log/slog"
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/robog-two/wishlily-db/internal/domain"
)

// Wishlist IDs are ObjectID hex strings.
var wishlistIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

type addWishRequest struct {
	UserID     string `json:"userId"`
	UserKey    string `json:"userKey"`
	WishlistID string `json:"wishlistId"`
	Link       string `json:"link"`
}

type deleteWishRequest struct {
	UserID     string `json:"userId"`
	UserKey    string `json:"userKey"`
	WishlistID string `json:"wishlistId"`
	WishID     string `json:"id"`
}

type deleteAllWishesRequest struct {
	UserID     string `json:"userId"`
	UserKey    string `json:"userKey"`
	WishlistID string `json:"wishlistId"`
}

type listWishesRequest struct {
	UserID     string `json:"userId"`
	WishlistID string `json:"wishlistId"`
}

type wishJSON struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Link  string `json:"link,omitempty"`
	Price string `json:"price,omitempty"`
	Cover string `json:"cover,omitempty"`
}

func toWishJSON(wish domain.Wish) wishJSON {
	return wishJSON{
		ID:    wish.ID,
		Title: wish.Title,
		Link:  wish.Link,
		Price: wish.Price,
		Cover: wish.Cover,
	}
}

func (s *Server) handleAddWish(c echo.Context) error {
	var req addWishRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, 400, "Invalid request body")
	}
	if !validUserID(req.UserID) || !wishlistIDPattern.MatchString(req.WishlistID) || req.Link == "" {
		return errorResponse(c, 400, "Invalid request parameters")
	}

	wish, err := s.app.AddWish(c.Request().Context(), req.UserID, req.UserKey, req.WishlistID, req.Link)
	if err != nil {
		return wishErrorResponse(c, err)
	}

	return c.JSON(200, map[string]any{
		"embed":   toWishJSON(wish),
		"success": true,
	})
}

func (s *Server) handleDeleteWish(c echo.Context) error {
	var req deleteWishRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, 400, "Invalid request body")
	}
	if !validUserID(req.UserID) || !wishlistIDPattern.MatchString(req.WishlistID) || !wishlistIDPattern.MatchString(req.WishID) {
		return errorResponse(c, 400, "Invalid request parameters")
	}

	if err := s.app.DeleteWish(c.Request().Context(), req.UserID, req.UserKey, req.WishlistID, req.WishID); err != nil {
		return wishErrorResponse(c, err)
	}

	return c.JSON(200, map[string]any{"success": true})
}

func (s *Server) handleDeleteAllWishes(c echo.Context) error {
	var req deleteAllWishesRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, 400, "Invalid request body")
	}
	if !validUserID(req.UserID) || !wishlistIDPattern.MatchString(req.WishlistID) {
		return errorResponse(c, 400, "Invalid request parameters")
	}

	if err := s.app.DeleteAllWishes(c.Request().Context(), req.UserID, req.UserKey, req.WishlistID); err != nil {
		return wishErrorResponse(c, err)
	}

	return c.JSON(200, map[string]any{"success": true})
}

func (s *Server) handleListWishes(c echo.Context) error {
	var req listWishesRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, 400, "Invalid request body")
	}
	if !validUserID(req.UserID) || !wishlistIDPattern.MatchString(req.WishlistID) {
		return errorResponse(c, 400, "Invalid request parameters")
	}

	wishes, err := s.app.ListWishes(c.Request().Context(), req.UserID, req.WishlistID)
	if err != nil {
		return wishErrorResponse(c, err)
	}

	out := make([]wishJSON, 0, len(wishes))
	for _, wish := range wishes {
		out = append(out, toWishJSON(wish))
	}
	return c.JSON(200, out)
}

func validUserID(userID string) bool {
	parsed, err := uuid.Parse(userID)
	return err == nil && parsed != uuid.Nil
}

func wishErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrWishlistNotFound), errors.Is(err, domain.ErrWishNotFound):
		return errorResponse(c, 404, "Not found")
	case errors.Is(err, domain.ErrKeyMismatch), errors.Is(err, domain.ErrUserNotFound):
		return errorResponse(c, 401, "Unauthorized")
	default:
		slog.Error("Wish operation failed", "error", err)
		return errorResponse(c, 500, "Internal error")
	}
}

func errorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{
		"success": false,
		"message": message,
	})
}
