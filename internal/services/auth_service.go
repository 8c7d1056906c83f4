package services

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/parshjain/stockdesk/internal/config"
	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/models"
)

const tokenLifetime = 24 * time.Hour

// AuthService authenticates the admin user configured via environment
// variables and issues JWTs for the protected routes.
type AuthService struct {
	cfg config.AuthConfig
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{cfg: cfg}
}

// Authenticate verifies the credentials and returns a signed token.
func (s *AuthService) Authenticate(username, password string) (string, error) {
	if s.cfg.AdminPasswordHash == "" {
		return "", &apperrors.ConfigurationError{
			Message: "admin login is not configured",
		}
	}
	if username != s.cfg.AdminUser {
		return "", apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	claims := &models.Claims{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.SecretKey)
}
