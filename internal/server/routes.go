package server

import (
	"time"

	"github.com/dashforge/api/internal/auth"
	"github.com/dashforge/api/internal/event"
	"github.com/dashforge/api/internal/middleware"
	"github.com/dashforge/api/internal/password"
	"github.com/dashforge/api/internal/todo"
	"github.com/dashforge/api/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "DashForge API is running",
		})
	})

	// ==========================================
	// AUTH & ACCOUNT
	// ==========================================
	authGroup := app.Group("/auth")
	authGroup.Post("/register", auth.RegisterHandler)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.LoginHandler)
	authGroup.Post("/refresh", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 5 * time.Minute,
	}), auth.RefreshHandler)
	authGroup.Post("/logout", middleware.JWTProtected(), auth.LogoutHandler)
	authGroup.Post("/logout-all", middleware.JWTProtected(), auth.LogoutAllHandler)

	authGroup.Get("/profile", middleware.JWTProtected(), user.GetProfileHandler)
	authGroup.Put("/profile", middleware.JWTProtected(), user.UpdateProfileHandler)

	authGroup.Post("/change-password", middleware.JWTProtected(), password.ChangePasswordHandler)
	authGroup.Post("/forgot-password", limiter.New(limiter.Config{
		Max:        3,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), password.ForgotPasswordHandler)
	authGroup.Post("/verify-otp", password.VerifyOtpHandler)
	authGroup.Post("/reset-password", password.ResetPasswordHandler)

	// ==========================================
	// TODOS
	// ==========================================
	todoGroup := app.Group("/todos")
	todoGroup.Use(middleware.JWTProtected())
	todoGroup.Post("/", todo.CreateTodoHandler)
	todoGroup.Get("/", todo.ListTodosHandler)
	todoGroup.Get("/:id", todo.GetTodoHandler)
	todoGroup.Put("/:id", todo.UpdateTodoHandler)
	todoGroup.Patch("/:id/toggle", todo.ToggleTodoHandler)
	todoGroup.Delete("/:id", todo.DeleteTodoHandler)

	// ==========================================
	// CALENDAR EVENTS
	// ==========================================
	eventGroup := app.Group("/events")
	eventGroup.Use(middleware.JWTProtected())
	eventGroup.Post("/", event.CreateEventHandler)
	eventGroup.Get("/", event.ListEventsHandler)
	eventGroup.Get("/:id", event.GetEventHandler)
	eventGroup.Put("/:id", event.UpdateEventHandler)
	eventGroup.Delete("/:id", event.DeleteEventHandler)
}
