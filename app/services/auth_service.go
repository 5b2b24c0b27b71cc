package services

import (
	"errors"

	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/pkg/auth"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for a bad email/password pair. The same
// error covers both cases so the response does not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login verifies the password and issues an access + refresh token pair.
func (s *AuthService) Login(email, password string) (TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, storageErr("find user", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	// Re-read the user so a role change or deletion takes effect here.
	user, err := s.users.FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, storageErr("find user", err)
	}

	return s.issue(user)
}

// Me returns the account behind an authenticated user ID.
func (s *AuthService) Me(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, storageErr("find user", err)
	}
	return user, nil
}

func (s *AuthService) issue(user models.User) (TokenPair, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Token: token, RefreshToken: refresh, User: user}, nil
}
