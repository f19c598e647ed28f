package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/protrack/protrack-api/internal/config"
	"github.com/protrack/protrack-api/internal/database"
	"github.com/protrack/protrack-api/internal/models"
)

// testPassword is the plaintext behind every seeded account.
const testPassword = "supersecret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectUser{},
		&models.TaskItem{},
		&models.TaskHistory{},
		&models.RefreshToken{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTIssuer:          "protrack-api",
		JWTAudience:        "protrack-clients",
		AccessTokenMinutes: 60,
		RefreshTokenDays:   7,
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, name string, managerID uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:      name,
		Status:    models.ProjectStatusActive,
		ManagerID: managerID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func seedMember(t *testing.T, db *gorm.DB, projectID, userID uint64) {
	t.Helper()

	require.NoError(t, db.Create(&models.ProjectUser{
		ProjectID:    projectID,
		UserID:       userID,
		AssignedDate: time.Now(),
	}).Error)
}

func seedTask(t *testing.T, db *gorm.DB, projectID, assignedByID uint64, assignedToID *uint64, status models.TaskStatus) *models.TaskItem {
	t.Helper()

	task := &models.TaskItem{
		Title:        "Seeded task",
		ProjectID:    projectID,
		AssignedToID: assignedToID,
		AssignedByID: assignedByID,
		Status:       status,
		Priority:     models.TaskPriorityMedium,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func actorFor(user *models.User) Actor {
	return Actor{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

func ptr[T any](v T) *T {
	return &v
}
