package logging

import (
	"log/slog"
	"os"

	"github.com/robog-two/wishlily-db/internal/domain"
)

// Logger is the application-wide structured logger instance.
var Logger *slog.Logger

// InitLogger initializes the global logger with the specified level and format.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
func InitLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// WithChannel returns a logger with user_id and wishlist_id fields.
func WithChannel(channel domain.Channel) *slog.Logger {
	return slog.Default().With("user_id", channel.UserID, "wishlist_id", channel.WishlistID)
}

// WithWish returns a logger with a wish_id field.
func WithWish(wishID string) *slog.Logger {
	return slog.Default().With("wish_id", wishID)
}
