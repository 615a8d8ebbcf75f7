package services

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/hashfx/techblog/dto"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// RoleAdmin is the only role the blog issues.
const RoleAdmin = "admin"

// TokenManager signs and parses session tokens.
type TokenManager interface {
	Sign(subject, role string) (string, error)
	Parse(token string) (subject string, role string, err error)
}

// AuthService checks the configured admin credentials and issues session tokens.
type AuthService struct {
	user     []byte
	password []byte
	tokens   TokenManager
}

func NewAuthService(user, password string, tokens TokenManager) *AuthService {
	return &AuthService{user: []byte(user), password: []byte(password), tokens: tokens}
}

// Login returns a signed session token for the admin.
func (s *AuthService) Login(form dto.LoginForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(form.Username), s.user)
	passOK := subtle.ConstantTimeCompare([]byte(form.Password), s.password)
	if userOK&passOK != 1 {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Sign(form.Username, RoleAdmin)
}

// ParseSession returns the admin user name carried by a valid session token.
func (s *AuthService) ParseSession(token string) (string, error) {
	user, role, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}
	if role != RoleAdmin || subtle.ConstantTimeCompare([]byte(user), s.user) != 1 {
		return "", fmt.Errorf("session for %q with role %q is not the admin", user, role)
	}
	return user, nil
}
