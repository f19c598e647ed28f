package repository

import (
	"github.com/protrack/protrack-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByUsername finds a non-deactivated user by username
func (r *GormUserRepository) FindActiveByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ? AND is_active = ?", username, true).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns the users matching the given IDs
func (r *GormUserRepository) FindByIDs(ids []uint64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List retrieves users, optionally filtered by role, ordered by name
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, error) {
	query := r.db.Model(&models.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	var users []models.User
	if err := query.Order("first_name ASC, last_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UsernameExists reports whether another row holds the username. Deactivated
// users keep their username reserved.
func (r *GormUserRepository) UsernameExists(username string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

// EmailExists reports whether another row holds the email, including
// deactivated rows.
func (r *GormUserRepository) EmailExists(email string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CountByRoles counts users holding any of the given roles
func (r *GormUserRepository) CountByRoles(roles []models.Role, activeOnly bool) (int64, error) {
	query := r.db.Model(&models.User{}).Where("role IN ?", roles)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
