package middleware

import (
	"strings"

	"github.com/dashforge/api/internal/database"
	"github.com/dashforge/api/internal/models"
	"github.com/dashforge/api/internal/response"
	"github.com/dashforge/api/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "current_user"

// JWTProtected validates the bearer token and resolves the caller's
// identity once, threading the loaded user into the request context.
// Everything downstream receives the identity explicitly.
func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid token format")
		}

		email, err := utils.ParseAccessToken(tokenParts[1])
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		var u models.User
		if err := database.DB.Where("email = ?", email).First(&u).Error; err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}
		if !u.Enabled || u.Locked {
			return response.Unauthorized(c, "Account is disabled")
		}

		c.Locals(currentUserKey, &u)
		return c.Next()
	}
}

// CurrentUser returns the identity resolved by JWTProtected.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(currentUserKey).(*models.User)
	return u
}
