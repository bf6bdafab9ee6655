package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rewired-gh/teamwrapped/internal/config"
	"github.com/rewired-gh/teamwrapped/internal/logger"
)

// New returns a fiber app with every route registered.
func New(source SnapshotSource, deck *config.DeckConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "teamwrapped",
		DisableStartupMessage: true,
	})
	NewHandler(source, deck).Register(app)
	return app
}

// Run serves app on addr until ctx is cancelled, then shuts down gracefully,
// giving in-flight requests up to shutdownTimeout to finish.
func Run(ctx context.Context, app *fiber.App, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
