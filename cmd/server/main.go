package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/robog-two/wishlily-db/internal/app"
	"github.com/robog-two/wishlily-db/internal/config"
	"github.com/robog-two/wishlily-db/internal/embed"
	"github.com/robog-two/wishlily-db/internal/hub"
	"github.com/robog-two/wishlily-db/internal/logging"
	"github.com/robog-two/wishlily-db/internal/mongo"
	"github.com/robog-two/wishlily-db/internal/protocol"
	"github.com/robog-two/wishlily-db/internal/resolver"
	"github.com/robog-two/wishlily-db/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *mongo.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := mongo.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		slog.Error("Failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	return db
}

func runGracefulShutdown(srv *server.Server, h *hub.Hub, db *mongo.DB) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		h.Stop()

		disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelDisconnect()
		if err := db.Disconnect(disconnectCtx); err != nil {
			slog.Error("Failed to disconnect from mongodb", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	db := setupDB(cfg)

	// Construct repositories
	wishRepo := mongo.NewWishRepo(db)
	embedRepo := mongo.NewEmbedRepo(db)
	userRepo := mongo.NewUserRepo(db)
	wishlistRepo := mongo.NewWishlistRepo(db)

	resolverClient := resolver.NewClient(cfg.ResolverURL, cfg.ResolverTimeout)
	embedSvc := embed.NewService(embedRepo, resolverClient)

	h := hub.NewHub(clock)

	reconciler := app.NewReconciler(wishRepo, resolverClient, h, cfg.ImageCDNURL, cfg.ResolverLocale)
	appSvc := app.NewService(wishRepo, userRepo, wishlistRepo, embedSvc, h, cfg.ImageCDNURL, cfg.ResolverLocale)

	handler := protocol.NewHandler(h, reconciler)

	srv := server.NewServer(cfg, appSvc, h, handler, db, clock)

	done := runGracefulShutdown(srv, h, db)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
