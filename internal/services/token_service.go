package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/protrack/protrack-api/internal/config"
	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/utils"
)

// ErrInvalidAccessToken is returned for any unusable access token; callers
// never learn which check failed.
var ErrInvalidAccessToken = errors.New("invalid access token")

// AccessClaims are the claims carried by every access token.
type AccessClaims struct {
	UserID    uint64      `json:"user_id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	jwt.RegisteredClaims
}

// TokenService issues signed access tokens and opaque refresh-token strings.
type TokenService struct {
	secret          []byte
	issuer          string
	audience        string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewTokenService creates a TokenService from configuration.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:          []byte(cfg.JWTSecret),
		issuer:          cfg.JWTIssuer,
		audience:        cfg.JWTAudience,
		accessTokenTTL:  time.Duration(cfg.AccessTokenMinutes) * time.Minute,
		refreshTokenTTL: time.Duration(cfg.RefreshTokenDays) * 24 * time.Hour,
	}
}

// GenerateAccessToken signs a short-lived HS256 token carrying the user's
// identity and role.
func (s *TokenService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTokenTTL)

	claims := AccessClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   strconv.FormatUint(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// GenerateRefreshToken returns a new opaque refresh-token string. The caller
// persists it; refresh tokens are never self-describing.
func (s *TokenService) GenerateRefreshToken() (string, error) {
	return utils.GenerateOpaqueToken()
}

// RefreshTokenTTL returns the configured refresh-token lifetime.
func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.refreshTokenTTL
}

// ValidateAccessToken verifies signature, issuer, audience, and expiry, and
// returns the embedded claims.
func (s *TokenService) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidAccessToken
			}
			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidAccessToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidAccessToken
	}

	return claims, nil
}
