package auth

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/db/models"
)

const whereID = "id = ?"

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// NormalizeEmail trims and lower cases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate returns the user for email when password matches.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	var user models.User

	err := p.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// ChangePassword replaces the password of userID after checking oldPassword.
// Tokens issued before the change stay valid until they expire.
func (p *LocalProvider) ChangePassword(userID, oldPassword, newPassword string) error {
	var user models.User

	err := p.db.Where(whereID, userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	if err = user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return p.db.Model(&models.User{}).
		Where(whereID, userID).
		Update("password_hash", user.PasswordHash).Error
}

// EnsureOwner creates the owner account when no user with email exists.
// An existing account is left untouched, including its password.
func (p *LocalProvider) EnsureOwner(email, password string) (bool, error) {
	email = NormalizeEmail(email)

	var count int64
	if err := p.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check owner: %w", err)
	}

	if count > 0 {
		return false, nil
	}

	owner := models.User{Email: email, Role: models.RoleOwner}
	if err := owner.SetPassword(password); err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := p.db.Create(&owner).Error; err != nil {
		return false, fmt.Errorf("failed to create owner: %w", err)
	}

	return true, nil
}
