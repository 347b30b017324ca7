package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/dashforge/api/internal/database"
	"github.com/dashforge/api/internal/mailer"
	"github.com/dashforge/api/internal/models"
	"github.com/dashforge/api/internal/server"
	"github.com/dashforge/api/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Otp{},
		&models.Todo{},
		&models.CalendarEvent{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

func SetupTestApp(t *testing.T) *fiber.App {
	db := TestDB(t)
	database.DB = db
	mailer.Default = &mailer.LogMailer{}

	return server.New()
}

func CreateTestUser(t *testing.T, db *gorm.DB, name, email, password string) *models.User {
	hashedPassword, err := utils.HashPassword(password)
	assert.NoError(t, err, "Failed to hash password")

	user := &models.User{
		Name:     name,
		Username: name,
		Email:    email,
		Password: hashedPassword,
		Enabled:  true,
	}

	err = db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	return user
}

func GetAuthToken(t *testing.T, email string) string {
	token, err := utils.GenerateAccessToken(email)
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(resp.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
	Meta    *Meta        `json:"meta"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotNil(t, result.Error, "Expected error object")
	if result.Error != nil {
		assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
	}
}

// RecorderMailer captures outgoing mail for assertions. FailAll makes every
// send return an error so tests can exercise the non-fatal delivery paths.
type RecorderMailer struct {
	FailAll bool
	Otps    []string
	Sent    []string
}

type mailError struct{}

func (mailError) Error() string { return "smtp unavailable" }

func (m *RecorderMailer) SendOtp(email, code string) error {
	if m.FailAll {
		return mailError{}
	}
	m.Otps = append(m.Otps, code)
	m.Sent = append(m.Sent, "otp:"+email)
	return nil
}

func (m *RecorderMailer) SendResetConfirmation(email string) error {
	if m.FailAll {
		return mailError{}
	}
	m.Sent = append(m.Sent, "reset-confirmation:"+email)
	return nil
}

func (m *RecorderMailer) SendPasswordChangedNotice(email string) error {
	if m.FailAll {
		return mailError{}
	}
	m.Sent = append(m.Sent, "password-changed:"+email)
	return nil
}
