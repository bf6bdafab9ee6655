// Package server serves generated decks to the slideshow player over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rewired-gh/teamwrapped/internal/config"
	"github.com/rewired-gh/teamwrapped/internal/freshness"
	"github.com/rewired-gh/teamwrapped/internal/group"
	"github.com/rewired-gh/teamwrapped/internal/logger"
	"github.com/rewired-gh/teamwrapped/internal/models"
	"github.com/rewired-gh/teamwrapped/internal/slides"
	"github.com/rewired-gh/teamwrapped/internal/storage"
)

// SnapshotSource looks up stored snapshots. *storage.Storage implements it.
type SnapshotSource interface {
	Get(ctx context.Context, id string) (*models.Snapshot, error)
	Latest(ctx context.Context) (*models.Snapshot, error)
}

type Handler struct {
	source SnapshotSource
	deck   *config.DeckConfig
	now    func() time.Time
}

func NewHandler(source SnapshotSource, deck *config.DeckConfig) *Handler {
	return &Handler{source: source, deck: deck, now: time.Now}
}

// Register mounts the routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.Health)
	app.Get("/api/slides", h.GetSlides)
	app.Get("/api/freshness", h.GetFreshness)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(HealthResponse{Status: "ok"})
}

// GetSlides builds the deck for the latest snapshot, or for ?snapshot=<id>.
func (h *Handler) GetSlides(c *fiber.Ctx) error {
	snap, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}

	deck, err := slides.Generate(snap, h.deck)
	if err != nil {
		return writeError(c, err)
	}

	staleness, stale := freshness.Check(h.deck.To, snap.CreatedOn, h.now())
	return c.Status(http.StatusOK).JSON(SlidesResponse{
		SnapshotID: snap.ID,
		Stale:      stale,
		Staleness:  staleness,
		Slides:     deck,
	})
}

// GetFreshness reports whether the latest snapshot, or ?snapshot=<id>, is current.
func (h *Handler) GetFreshness(c *fiber.Ctx) error {
	snap, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}

	message, stale := freshness.Check(h.deck.To, snap.CreatedOn, h.now())
	if !stale {
		message = "data is current"
	}
	return c.Status(http.StatusOK).JSON(FreshnessResponse{
		SnapshotID: snap.ID,
		Stale:      stale,
		Message:    message,
	})
}

func (h *Handler) lookup(c *fiber.Ctx) (*models.Snapshot, error) {
	if id := c.Query("snapshot", ""); id != "" {
		return h.source.Get(c.Context(), id)
	}
	return h.source.Latest(c.Context())
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, group.ErrInvalidArgument):
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "invalid_argument",
			Message: err.Error(),
		})
	default:
		logger.Error("Request %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
