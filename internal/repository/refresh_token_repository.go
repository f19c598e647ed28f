package repository

import (
	"time"

	"github.com/protrack/protrack-api/internal/models"
	"gorm.io/gorm"
)

// GormRefreshTokenRepository is a GORM implementation of RefreshTokenRepository
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

// Create persists a new refresh token row
func (r *GormRefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// FindByToken finds a token by its opaque string with the user preloaded
func (r *GormRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	var entity models.RefreshToken
	if err := r.db.Preload("User").
		Where("token = ?", token).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// Revoke marks a single token revoked
func (r *GormRefreshTokenRepository) Revoke(token *models.RefreshToken, now time.Time) error {
	token.IsRevoked = true
	token.RevokedAt = &now
	return r.db.Save(token).Error
}

// Rotate revokes the old token and inserts its replacement atomically. A
// crash between the two writes must never leave the old token usable with no
// replacement issued.
func (r *GormRefreshTokenRepository) Rotate(old *models.RefreshToken, replacement *models.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(old).Error; err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})
}

// RevokeAllForUser marks every unrevoked token of the user revoked
func (r *GormRefreshTokenRepository) RevokeAllForUser(userID uint64, now time.Time) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"revoked_at": now,
		}).Error
}
