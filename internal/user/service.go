package user

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dashforge/api/internal/apperror"
	"github.com/dashforge/api/internal/models"
	"github.com/dashforge/api/internal/token"
	"github.com/dashforge/api/internal/utils"
	"gorm.io/gorm"
)

// usernameMaxAttempts caps the numeric-suffix loop before falling back to a
// random suffix, so adversarial registrations cannot spin it unbounded.
const usernameMaxAttempts = 50

type ProfileUpdateResult struct {
	User         *models.User `json:"user"`
	EmailChanged bool         `json:"email_changed"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type,omitempty"`
	ExpiresIn    int64        `json:"expires_in,omitempty"`
}

func FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var u models.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no account with email %s", apperror.ErrUserNotFound, email)
		}
		return nil, err
	}
	return &u, nil
}

func ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func existsByUsername(db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func deriveUsername(name string) string {
	base := strings.ToLower(strings.Join(strings.Fields(name), ""))
	if base == "" {
		base = "user"
	}
	return base
}

// GenerateUniqueUsername lowercases the display name, strips whitespace and
// disambiguates with a numeric suffix. The loop is capped; past the cap a
// single random suffix is tried and a further collision is fatal.
func GenerateUniqueUsername(db *gorm.DB, name string) (string, error) {
	base := deriveUsername(name)

	taken, err := existsByUsername(db, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 1; i <= usernameMaxAttempts; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		taken, err := existsByUsername(db, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	candidate := base + utils.RandomHex(3)
	taken, err = existsByUsername(db, candidate)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: could not derive a unique username for %q", apperror.ErrUserExists, name)
	}
	return candidate, nil
}

// Create registers a new identity. The caller has already validated the
// password confirmation.
func Create(db *gorm.DB, name, email, password string) (*models.User, error) {
	exists, err := ExistsByEmail(db, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s is already registered", apperror.ErrUserExists, email)
	}

	username, err := GenerateUniqueUsername(db, name)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := models.User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: hash,
		Enabled:  true,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}

	log.Printf("created user id=%d username=%s", u.ID, u.Username)
	return &u, nil
}

// UpdateProfile applies a new name and email to the caller's identity.
// When the email changes every outstanding refresh token is revoked and a
// fresh access/refresh pair is issued inside the same transaction as the
// profile write: both tokens are keyed to the login email, so stale ones
// must not survive the change.
func UpdateProfile(db *gorm.DB, current *models.User, name, email string) (*ProfileUpdateResult, error) {
	oldName := current.Name
	oldEmail := current.Email
	emailChanged := email != oldEmail

	if emailChanged {
		exists, err := ExistsByEmail(db, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: email is already in use by another account", apperror.ErrUserExists)
		}
	}

	current.Name = name
	current.Email = email

	if name != oldName {
		// The caller's own row is about to be overwritten, so its prior
		// username does not need excluding from the uniqueness check.
		username, err := GenerateUniqueUsername(db, name)
		if err != nil {
			return nil, err
		}
		current.Username = username
	}

	result := &ProfileUpdateResult{EmailChanged: emailChanged}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(current).Error; err != nil {
			return err
		}
		if !emailChanged {
			return nil
		}

		if err := token.RevokeAll(tx, current); err != nil {
			return err
		}
		refreshToken, err := token.Create(tx, current)
		if err != nil {
			return err
		}
		accessToken, err := utils.GenerateAccessToken(current.Email)
		if err != nil {
			return err
		}

		result.AccessToken = accessToken
		result.RefreshToken = refreshToken
		result.TokenType = "Bearer"
		result.ExpiresIn = utils.AccessTokenTTLSeconds()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if emailChanged {
		log.Printf("email changed from %s to %s, tokens rotated", oldEmail, email)
	}

	result.User = current
	return result, nil
}
