package services

import (
	"errors"
	"os"

	"CartStoreAPI/internal/middleware"

	"golang.org/x/crypto/bcrypt"
)

// AuthService issues admin tokens. There are no customer accounts here: carts
// are anonymous, only the record endpoints need a guard. The single admin
// credential comes from the environment (ADMIN_EMAIL, ADMIN_PASSWORD_HASH).
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

func (s *AuthService) Login(email, password string) (string, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminEmail == "" || adminHash == "" {
		return "", errors.New("admin login is not configured")
	}
	if email != adminEmail {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(adminHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	return middleware.GenerateToken(email, "admin", 24)
}
