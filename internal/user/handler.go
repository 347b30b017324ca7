package user

import (
	"github.com/dashforge/api/internal/database"
	"github.com/dashforge/api/internal/middleware"
	"github.com/dashforge/api/internal/response"
	"github.com/gofiber/fiber/v2"
)

func GetProfileHandler(c *fiber.Ctx) error {
	return response.Success(c, middleware.CurrentUser(c), "Profile retrieved successfully")
}

func UpdateProfileHandler(c *fiber.Ctx) error {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Name == "" || body.Email == "" {
		return response.ValidationError(c, map[string]string{
			"name":  "name is required",
			"email": "email is required",
		})
	}

	caller := middleware.CurrentUser(c)
	result, err := UpdateProfile(database.DB, caller, body.Name, body.Email)
	if err != nil {
		return response.FromError(c, err)
	}

	if result.EmailChanged {
		return response.Success(c, result, "Profile updated successfully. New authentication tokens provided.")
	}
	return response.Success(c, result, "Profile updated successfully")
}
