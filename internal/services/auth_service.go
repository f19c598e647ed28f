package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown username, inactive account, and
	// wrong password alike, so login never leaks which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken covers missing, revoked, and expired refresh tokens
	// alike, and tokens whose owner was deactivated.
	ErrInvalidToken = errors.New("invalid or expired refresh token")
)

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         models.User
}

// AuthService owns the refresh-token lifecycle: login, single-use rotation,
// logout, and explicit revocation.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	tokens    *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
	}
}

// Login verifies credentials and issues an access/refresh token pair. The
// bcrypt comparison is the only credential check performed.
func (s *AuthService) Login(username, password string) (*TokenPair, error) {
	user, err := s.userRepo.FindActiveByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, refreshRow, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Create(refreshRow); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked and the replacement inserted in one transaction, so a token is
// usable exactly once.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	entity, err := s.tokenRepo.FindByToken(refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	now := time.Now()
	if !entity.Active(now) || !entity.User.IsActive {
		return nil, ErrInvalidToken
	}

	user := entity.User
	pair, replacement, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	entity.IsRevoked = true
	entity.RevokedAt = &now

	if err := s.tokenRepo.Rotate(entity, replacement); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return pair, nil
}

// Logout revokes every active refresh token of the user. Calling it again is
// a no-op.
func (s *AuthService) Logout(userID uint64) error {
	if err := s.tokenRepo.RevokeAllForUser(userID, time.Now()); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

// RevokeToken revokes a single named token. It reports false when the token
// string is unknown.
func (s *AuthService) RevokeToken(refreshToken string) (bool, error) {
	entity, err := s.tokenRepo.FindByToken(refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find refresh token: %w", err)
	}

	if err := s.tokenRepo.Revoke(entity, time.Now()); err != nil {
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}

	return true, nil
}

// issueTokens builds a signed access token plus the refresh-token row to
// persist. The row is returned unsaved so callers control the write.
func (s *AuthService) issueTokens(user *models.User) (*TokenPair, *models.RefreshToken, error) {
	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	row := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.tokens.RefreshTokenTTL()),
	}

	pair := &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}

	return pair, row, nil
}
