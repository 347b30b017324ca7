// Package token is the refresh token ledger. Token values are opaque
// 128-bit random strings; only their sha256 digest is persisted.
package token

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dashforge/api/internal/apperror"
	"github.com/dashforge/api/internal/models"
	"github.com/dashforge/api/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var refreshTokenTTL = 7 * 24 * time.Hour

func init() {
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			refreshTokenTTL = time.Duration(n) * time.Second
		}
	}
}

// Create issues a new refresh token for the user and returns the raw value.
// A digest collision skips the insert without erroring, so the retry works
// inside a surrounding transaction, and is never silently ignored.
func Create(db *gorm.DB, user *models.User) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		raw := uuid.NewString()
		rt := models.RefreshToken{
			UserID:    user.ID,
			TokenHash: utils.HashToken(raw),
			ExpiresAt: time.Now().Add(refreshTokenTTL),
			Revoked:   false,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_hash"}},
			DoNothing: true,
		}).Create(&rt)
		if result.Error != nil {
			return "", result.Error
		}
		if result.RowsAffected == 0 {
			log.Printf("refresh token digest collision (attempt %d)", attempt+1)
			continue
		}
		return raw, nil
	}
	return "", fmt.Errorf("failed to create refresh token after repeated digest collisions")
}

// FindByToken resolves a raw token value to its ledger row.
func FindByToken(db *gorm.DB, raw string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := db.Where("token_hash = ?", utils.HashToken(raw)).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refresh token not found", apperror.ErrInvalidToken)
		}
		return nil, err
	}
	return &rt, nil
}

// VerifyUsable checks the ledger row against its expiry and revocation
// state. An expired row is purged as a side effect.
func VerifyUsable(db *gorm.DB, rt *models.RefreshToken) error {
	if rt.IsExpired() {
		db.Delete(rt)
		return fmt.Errorf("%w: refresh token expired, please sign in again", apperror.ErrInvalidToken)
	}
	if rt.Revoked {
		return fmt.Errorf("%w: refresh token has been revoked, please sign in again", apperror.ErrInvalidToken)
	}
	return nil
}

// Revoke marks the token unusable. Revoking an unknown or already-revoked
// token is not an error.
func Revoke(db *gorm.DB, raw string) error {
	return db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", utils.HashToken(raw)).
		Update("revoked", true).Error
}

// RevokeAll flags every live token owned by the user. Tokens created after
// the call are unaffected: revocation is a point-in-time bulk flag set, not
// a generation fence.
func RevokeAll(db *gorm.DB, user *models.User) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", user.ID, false).
		Update("revoked", true).Error
}

// PurgeExpired deletes every token whose expiry has passed. Invoked by the
// periodic maintenance loop.
func PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
