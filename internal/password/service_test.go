package password_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/dashforge/api/internal/apperror"
	"github.com/dashforge/api/internal/mailer"
	"github.com/dashforge/api/internal/models"
	"github.com/dashforge/api/internal/password"
	"github.com/dashforge/api/internal/testutils"
	"github.com/dashforge/api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

func setupRecorder(t *testing.T) *testutils.RecorderMailer {
	t.Helper()
	rec := &testutils.RecorderMailer{}
	mailer.Default = rec
	t.Cleanup(func() { mailer.Default = &mailer.LogMailer{} })
	return rec
}

func issuedOtp(t *testing.T, db *gorm.DB, email string) *models.Otp {
	t.Helper()
	var otp models.Otp
	require.NoError(t, db.Where("email = ?", email).Order("id DESC").First(&otp).Error)
	return &otp
}

func TestSendPasswordResetOtp(t *testing.T) {
	db := testutils.TestDB(t)
	rec := setupRecorder(t)
	testutils.CreateTestUser(t, db, "Ann Lee", "ann@x.com", "password123")

	result, err := password.SendPasswordResetOtp(db, "ann@x.com")
	require.NoError(t, err)

	assert.Equal(t, "a***e@x.com", result.Email)
	assert.Equal(t, int64(600), result.ExpiresIn)

	require.Len(t, rec.Otps, 1)
	assert.Regexp(t, otpPattern, rec.Otps[0])

	otp := issuedOtp(t, db, "ann@x.com")
	assert.Equal(t, rec.Otps[0], otp.Code)
	assert.True(t, otp.IsValid())
}

func TestSendPasswordResetOtpUnknownEmail(t *testing.T) {
	db := testutils.TestDB(t)
	setupRecorder(t)

	_, err := password.SendPasswordResetOtp(db, "nobody@x.com")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestReissueLeavesSingleValidOtp(t *testing.T) {
	db := testutils.TestDB(t)
	rec := setupRecorder(t)
	testutils.CreateTestUser(t, db, "Ann Lee", "ann@x.com", "password123")

	_, err := password.SendPasswordResetOtp(db, "ann@x.com")
	require.NoError(t, err)
	_, err = password.SendPasswordResetOtp(db, "ann@x.com")
	require.NoError(t, err)
	require.Len(t, rec.Otps, 2)

	var count int64
	db.Model(&models.Otp{}).Where("email = ?", "ann@x.com").Count(&count)
	assert.Equal(t, int64(1), count)

	if rec.Otps[0] != rec.Otps[1] {
		assert.False(t, password.VerifyOtp(db, "ann@x.com", rec.Otps[0]))
	}
	assert.True(t, password.VerifyOtp(db, "ann@x.com", rec.Otps[1]))
}

func TestSecondLiveOtpRowIsRejected(t *testing.T) {
	db := testutils.TestDB(t)
	setupRecorder(t)

	first := models.Otp{Email: "ann@x.com", Code: "111111", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, db.Create(&first).Error)

	// the unique email index is the backstop: a racing second writer
	// cannot leave a coexisting live code
	second := models.Otp{Email: "ann@x.com", Code: "222222", ExpiresAt: time.Now().Add(time.Minute)}
	assert.Error(t, db.Create(&second).Error)

	assert.True(t, password.VerifyOtp(db, "ann@x.com", "111111"))
	assert.False(t, password.VerifyOtp(db, "ann@x.com", "222222"))

	var count int64
	db.Model(&models.Otp{}).Where("email = ?", "ann@x.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestOtpDeliveryFailureIsNonFatal(t *testing.T) {
	db := testutils.TestDB(t)
	rec := setupRecorder(t)
	rec.FailAll = true
	testutils.CreateTestUser(t, db, "Ann Lee", "ann@x.com", "password123")

	result, err := password.SendPasswordResetOtp(db, "ann@x.com")
	require.NoError(t, err)
	assert.NotNil(t, result)

	// the code is still valid even though the mail never went out
	otp := issuedOtp(t, db, "ann@x.com")
	assert.True(t, password.VerifyOtp(db, "ann@x.com", otp.Code))
}

func TestVerifyOtp(t *testing.T) {
	db := testutils.TestDB(t)
	rec := setupRecorder(t)
	testutils.CreateTestUser(t, db, "Ann Lee", "ann@x.com", "password123")

	_, err := password.SendPasswordResetOtp(db, "ann@x.com")
	require.NoError(t, err)
	code := rec.Otps[0]

	// pure read: repeated verification keeps succeeding
	assert.True(t, password.VerifyOtp(db, "ann@x.com", code))
	assert.True(t, password.VerifyOtp(db, "ann@x.com", code))

	// wrong code, wrong email and expired are all just false
	assert.False(t, password.VerifyOtp(db, "ann@x.com", "000000"))
	assert.False(t, password.VerifyOtp(db, "other@x.com", code))

	require.NoError(t, db.Model(&models.Otp{}).Where("email = ?", "ann@x.com").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)
	assert.False(t, password.VerifyOtp(db, "ann@x.com", code))
}

func TestResetPassword(t *testing.T) {
	db := testutils.TestDB(t)
	rec := setupRecorder(t)
	user := testutils.CreateTestUser(t, db, "Ann Lee", "ann@x.com", "password123")

	_, err := password.SendPasswordResetOtp(db, "ann@x.com")
	require.NoError(t, err)
	code := rec.Otps[0]

	err = password.ResetPassword(db, "ann@x.com", code, "newpassword1", "newpassword1")
	require.NoError(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, utils.CheckPasswordHash("newpassword1", reloaded.Password))
	assert.Contains(t, rec.Sent, "reset-confirmation:ann@x.com")

	// the OTP was consumed: a second reset with the same code fails
	err = password.ResetPassword(db, "ann@x.com", code, "anotherpw123", "anotherpw123")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, utils.CheckPasswordHash("newpassword1", reloaded.Password))
}

func TestResetPasswordMismatchDoesNotConsumeOtp(t *testing.T) {
	db := testutils.TestDB(t)
	rec := setupRecorder(t)
	testutils.CreateTestUser(t, db, "Ann Lee", "ann@x.com", "password123")

	_, err := password.SendPasswordResetOtp(db, "ann@x.com")
	require.NoError(t, err)
	code := rec.Otps[0]

	err = password.ResetPassword(db, "ann@x.com", code, "newpassword1", "different1")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.True(t, password.VerifyOtp(db, "ann@x.com", code))
}

func TestResetPasswordInvalidOtp(t *testing.T) {
	db := testutils.TestDB(t)
	setupRecorder(t)
	testutils.CreateTestUser(t, db, "Ann Lee", "ann@x.com", "password123")

	err := password.ResetPassword(db, "ann@x.com", "123456", "newpassword1", "newpassword1")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestChangePassword(t *testing.T) {
	db := testutils.TestDB(t)
	rec := setupRecorder(t)
	user := testutils.CreateTestUser(t, db, "Ann Lee", "ann@x.com", "password123")

	t.Run("Wrong current password", func(t *testing.T) {
		err := password.ChangePassword(db, user, "wrongcurrent", "newpassword1", "newpassword1")
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("Confirmation mismatch", func(t *testing.T) {
		err := password.ChangePassword(db, user, "password123", "newpassword1", "different1")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Same as current", func(t *testing.T) {
		err := password.ChangePassword(db, user, "password123", "password123", "password123")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		err := password.ChangePassword(db, user, "password123", "newpassword1", "newpassword1")
		require.NoError(t, err)

		var reloaded models.User
		require.NoError(t, db.First(&reloaded, user.ID).Error)
		assert.True(t, utils.CheckPasswordHash("newpassword1", reloaded.Password))
		assert.Contains(t, rec.Sent, "password-changed:ann@x.com")
	})
}

func TestCleanupExpiredOtps(t *testing.T) {
	db := testutils.TestDB(t)
	setupRecorder(t)

	expired := models.Otp{Email: "old@x.com", Code: "111111", ExpiresAt: time.Now().Add(-time.Minute)}
	live := models.Otp{Email: "new@x.com", Code: "222222", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&live).Error)

	n, err := password.CleanupExpiredOtps(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int64
	db.Model(&models.Otp{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.True(t, password.VerifyOtp(db, "new@x.com", "222222"))
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"ab@x.com":       "**@x.com",
		"a@x.com":        "**@x.com",
		"abc@x.com":      "a***c@x.com",
		"annlee@x.com":   "a***e@x.com",
		"john.doe@y.org": "j***e@y.org",
		"not-an-email":   "not-an-email",
	}

	for input, want := range cases {
		assert.Equal(t, want, password.MaskEmail(input), "masking %s", input)
	}
}
