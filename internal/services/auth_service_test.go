package services

import (
	"errors"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/parshjain/stockdesk/internal/config"
	apperrors "github.com/parshjain/stockdesk/internal/errors"
	"github.com/parshjain/stockdesk/internal/models"
)

func testAuthConfig(t *testing.T) config.AuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return config.AuthConfig{
		SecretKey:         []byte("test-signing-key"),
		AdminUser:         "admin",
		AdminPasswordHash: string(hash),
	}
}

func TestAuthenticateIssuesValidToken(t *testing.T) {
	cfg := testAuthConfig(t)
	service := NewAuthService(cfg)

	tokenString, err := service.Authenticate("admin", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return cfg.SecretKey, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token did not validate: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username claim admin, got %q", claims.Username)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	service := NewAuthService(testAuthConfig(t))

	if _, err := service.Authenticate("admin", "wrong"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := service.Authenticate("intruder", "s3cret"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong user, got %v", err)
	}
}

func TestAuthenticateUnconfigured(t *testing.T) {
	service := NewAuthService(config.AuthConfig{SecretKey: []byte("k"), AdminUser: "admin"})

	_, err := service.Authenticate("admin", "anything")
	var configErr *apperrors.ConfigurationError
	if !errors.As(err, &configErr) {
		t.Errorf("expected ConfigurationError when no hash configured, got %v", err)
	}
}
