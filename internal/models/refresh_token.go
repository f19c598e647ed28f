package models

import "time"

// RefreshToken is an opaque, single-use credential. Tokens are revoked on
// logout, rotation, or explicit revocation and are never hard-deleted.
type RefreshToken struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	UserID    uint64     `gorm:"not null;index" json:"user_id"`
	Token     string     `gorm:"type:varchar(500);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at"`
	IsRevoked bool       `gorm:"not null;default:false" json:"is_revoked"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Active reports whether the token can still be exchanged at the given instant.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}
