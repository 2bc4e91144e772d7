package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linkboard/linkboard/internal/db/controller/setting"
	"github.com/linkboard/linkboard/internal/db/models"
)

// SecretSettingName is the settings key holding a generated signing secret.
const SecretSettingName = "token_secret"

// Identity is what a verified token says about its bearer.
type Identity struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// IdentityOf returns the identity carried by tokens issued for u.
func IdentityOf(u *models.User) Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Claims is the JWT payload.
type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService creates a token service signing with secret.
func NewTokenService(secret []byte, lifetime time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	return &TokenService{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Lifetime returns how long issued tokens stay valid.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a token for id.
func (s *TokenService) Issue(id Identity) (string, error) {
	now := s.now()

	claims := Claims{
		UserID: id.ID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, algorithm and expiry of token and returns its identity.
func (s *TokenService) Verify(token string) (*Identity, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(_ *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &Identity{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// GenerateSecret returns 32 random bytes, hex encoded.
func GenerateSecret() ([]byte, error) {
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	return []byte(hex.EncodeToString(b)), nil
}

// ResolveSecret returns the configured secret, or the one persisted in the
// settings table, generating and storing it on first start.
func ResolveSecret(db *gorm.DB, configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	secret, err := setting.GetOrCreate(db, SecretSettingName, GenerateSecret)
	if err != nil {
		return nil, fmt.Errorf("resolve token secret: %w", err)
	}

	return secret, nil
}
