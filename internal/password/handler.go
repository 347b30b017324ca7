package password

import (
	"github.com/dashforge/api/internal/database"
	"github.com/dashforge/api/internal/middleware"
	"github.com/dashforge/api/internal/response"
	"github.com/gofiber/fiber/v2"
)

func ChangePasswordHandler(c *fiber.Ctx) error {
	var body struct {
		CurrentPassword    string `json:"current_password"`
		NewPassword        string `json:"new_password"`
		ConfirmNewPassword string `json:"confirm_new_password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.CurrentPassword == "" || body.NewPassword == "" || body.ConfirmNewPassword == "" {
		return response.ValidationError(c, map[string]string{
			"current_password":     "current_password is required",
			"new_password":         "new_password is required",
			"confirm_new_password": "confirm_new_password is required",
		})
	}

	if len(body.NewPassword) < 8 {
		return response.ValidationError(c, map[string]string{
			"new_password": "new_password must be at least 8 characters",
		})
	}

	caller := middleware.CurrentUser(c)
	if err := ChangePassword(database.DB, caller, body.CurrentPassword, body.NewPassword, body.ConfirmNewPassword); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, nil, "Password changed successfully")
}

func ForgotPasswordHandler(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Email == "" {
		return response.ValidationError(c, map[string]string{
			"email": "email is required",
		})
	}

	result, err := SendPasswordResetOtp(database.DB, body.Email)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, result, "OTP sent successfully")
}

func VerifyOtpHandler(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
		Otp   string `json:"otp"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Email == "" || body.Otp == "" {
		return response.ValidationError(c, map[string]string{
			"email": "email is required",
			"otp":   "otp is required",
		})
	}

	if !VerifyOtp(database.DB, body.Email, body.Otp) {
		return response.BadRequest(c, "Invalid or expired OTP", nil)
	}

	return response.Success(c, true, "OTP verified successfully")
}

func ResetPasswordHandler(c *fiber.Ctx) error {
	var body struct {
		Email              string `json:"email"`
		Otp                string `json:"otp"`
		NewPassword        string `json:"new_password"`
		ConfirmNewPassword string `json:"confirm_new_password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Email == "" || body.Otp == "" || body.NewPassword == "" || body.ConfirmNewPassword == "" {
		return response.ValidationError(c, map[string]string{
			"email":                "email is required",
			"otp":                  "otp is required",
			"new_password":         "new_password is required",
			"confirm_new_password": "confirm_new_password is required",
		})
	}

	if len(body.NewPassword) < 8 {
		return response.ValidationError(c, map[string]string{
			"new_password": "new_password must be at least 8 characters",
		})
	}

	if err := ResetPassword(database.DB, body.Email, body.Otp, body.NewPassword, body.ConfirmNewPassword); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, nil, "Password reset successfully")
}
