package auth

import (
	"github.com/dashforge/api/internal/database"
	"github.com/dashforge/api/internal/middleware"
	"github.com/dashforge/api/internal/response"
	"github.com/gofiber/fiber/v2"
)

func RegisterHandler(c *fiber.Ctx) error {
	var body struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Name == "" || body.Email == "" || body.Password == "" || body.ConfirmPassword == "" {
		return response.ValidationError(c, map[string]string{
			"name":             "name is required",
			"email":            "email is required",
			"password":         "password is required",
			"confirm_password": "confirm_password is required",
		})
	}

	if len(body.Password) < 8 {
		return response.ValidationError(c, map[string]string{
			"password": "password must be at least 8 characters",
		})
	}

	result, err := Register(database.DB, body.Name, body.Email, body.Password, body.ConfirmPassword)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, result, "User registered successfully")
}

func LoginHandler(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Email == "" || body.Password == "" {
		return response.ValidationError(c, map[string]string{
			"email":    "email is required",
			"password": "password is required",
		})
	}

	result, err := Login(database.DB, body.Email, body.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, result, "Login successful")
}

func RefreshHandler(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.RefreshToken == "" {
		return response.ValidationError(c, map[string]string{
			"refresh_token": "refresh_token is required",
		})
	}

	result, err := Refresh(database.DB, body.RefreshToken)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, result, "Token refreshed successfully")
}

func LogoutHandler(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.RefreshToken == "" {
		return response.ValidationError(c, map[string]string{
			"refresh_token": "refresh_token is required",
		})
	}

	if err := Logout(database.DB, body.RefreshToken); err != nil {
		return response.InternalError(c, "Failed to log out")
	}

	return response.Success(c, nil, "Logout successful")
}

func LogoutAllHandler(c *fiber.Ctx) error {
	caller := middleware.CurrentUser(c)

	if err := LogoutAll(database.DB, caller); err != nil {
		return response.InternalError(c, "Failed to log out")
	}

	return response.Success(c, nil, "Logged out from all devices")
}
