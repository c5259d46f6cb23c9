// Package server hosts the generated page for the kiosk browser and exposes
// the latest render context as JSON.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kioskdash/kioskdash/internal/store"
)

// New builds the Fiber app: static hosting of the output directory, a health
// endpoint, and a small JSON API over the context store.
func New(contexts *store.ContextStore, outputDir string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "kioskdash",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "kioskdash",
		})
	})

	api := app.Group("/api/v1")

	api.Get("/dashboard", func(c *fiber.Ctx) error {
		gen, err := contexts.Latest()
		if err != nil {
			if errors.Is(err, store.ErrEmpty) {
				return fiber.NewError(fiber.StatusNotFound, "no dashboard generated yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load dashboard context")
		}
		return c.JSON(gen)
	})

	api.Get("/dashboard/history", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"generations": contexts.History(),
		})
	})

	app.Static("/", outputDir)

	return app
}
