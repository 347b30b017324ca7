package auth

import (
	"errors"
	"fmt"
	"log"

	"github.com/dashforge/api/internal/apperror"
	"github.com/dashforge/api/internal/models"
	"github.com/dashforge/api/internal/token"
	"github.com/dashforge/api/internal/user"
	"github.com/dashforge/api/internal/utils"
	"gorm.io/gorm"
)

type AuthResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user"`
}

type RefreshResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Register creates a new identity and issues its first token pair.
func Register(db *gorm.DB, name, email, password, confirmPassword string) (*AuthResult, error) {
	if password != confirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", apperror.ErrValidation)
	}

	u, err := user.Create(db, name, email, password)
	if err != nil {
		return nil, err
	}

	return issueTokenPair(db, u)
}

// Login verifies credentials and issues a fresh token pair. Unknown email,
// wrong password and disabled accounts all surface the same error.
func Login(db *gorm.DB, email, password string) (*AuthResult, error) {
	u, err := user.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, apperror.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperror.ErrInvalidCredentials)
		}
		return nil, err
	}

	if !u.Enabled || u.Locked {
		return nil, fmt.Errorf("%w: invalid email or password", apperror.ErrInvalidCredentials)
	}

	if !utils.CheckPasswordHash(password, u.Password) {
		log.Printf("authentication failed for email: %s", email)
		return nil, fmt.Errorf("%w: invalid email or password", apperror.ErrInvalidCredentials)
	}

	return issueTokenPair(db, u)
}

// Refresh exchanges a usable refresh token for a new access token bound to
// the owner's current identity snapshot. The refresh token itself is not
// rotated on this path.
func Refresh(db *gorm.DB, refreshToken string) (*RefreshResult, error) {
	rt, err := token.FindByToken(db, refreshToken)
	if err != nil {
		return nil, err
	}
	if err := token.VerifyUsable(db, rt); err != nil {
		return nil, err
	}

	var owner models.User
	if err := db.First(&owner, rt.UserID).Error; err != nil {
		return nil, fmt.Errorf("%w: token owner not found", apperror.ErrInvalidToken)
	}

	accessToken, err := utils.GenerateAccessToken(owner.Email)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   utils.AccessTokenTTLSeconds(),
	}, nil
}

// Logout revokes exactly the presented refresh token. Idempotent.
func Logout(db *gorm.DB, refreshToken string) error {
	return token.Revoke(db, refreshToken)
}

// LogoutAll revokes every live refresh token owned by the caller.
func LogoutAll(db *gorm.DB, caller *models.User) error {
	return token.RevokeAll(db, caller)
}

func issueTokenPair(db *gorm.DB, u *models.User) (*AuthResult, error) {
	accessToken, err := utils.GenerateAccessToken(u.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := token.Create(db, u)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    utils.AccessTokenTTLSeconds(),
		User:         u,
	}, nil
}
