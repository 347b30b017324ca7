package server

import (
	"github.com/gofiber/fiber/v2"
)

// New builds the app. Handlers reach the database through the package
// global set at boot.
func New() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	SetupRoutes(app)

	return app
}
