package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/protrack/protrack-api/internal/config"
	"github.com/protrack/protrack-api/internal/database"
	"github.com/protrack/protrack-api/internal/middleware"
	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/repository"
	"github.com/protrack/protrack-api/internal/services"
)

const testPassword = "supersecret"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *services.TokenService
}

// setupTestEnv wires the full router against an in-memory database, mirroring
// the route layout of cmd/server.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

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

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTIssuer:          "protrack-api",
		JWTAudience:        "protrack-clients",
		AccessTokenMinutes: 60,
		RefreshTokenDays:   7,
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	tokens := services.NewTokenService(cfg)
	authService := services.NewAuthService(userRepo, tokenRepo, tokens)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	dashboardService := services.NewDashboardService(projectRepo, taskRepo, userRepo)

	authHandler := NewAuthHandler(authService, logger)
	userHandler := NewUserHandler(userService, logger)
	projectHandler := NewProjectHandler(projectService, logger)
	taskHandler := NewTaskHandler(taskService, logger)
	dashboardHandler := NewDashboardHandler(dashboardService, logger)

	r := gin.New()

	requireAuth := middleware.RequireAuth(tokens)
	requireAdminOrManager := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", requireAuth, authHandler.Logout)
	auth.POST("/revoke", requireAuth, requireAdminOrManager, authHandler.Revoke)
	auth.GET("/me", requireAuth, authHandler.Me)

	users := api.Group("/users")
	users.Use(requireAuth, requireAdminOrManager)
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)

	projects := api.Group("/projects")
	projects.Use(requireAuth)
	projects.GET("", projectHandler.ListProjects)
	projects.POST("", requireAdminOrManager, projectHandler.CreateProject)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", requireAdminOrManager, projectHandler.UpdateProject)
	projects.DELETE("/:id", requireAdminOrManager, projectHandler.DeleteProject)
	projects.POST("/:id/users", requireAdminOrManager, projectHandler.AssignUsers)
	projects.GET("/:id/users", requireAdminOrManager, projectHandler.GetProjectMembers)

	tasks := api.Group("/tasks")
	tasks.Use(requireAuth)
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", requireAdminOrManager, taskHandler.CreateTask)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", requireAdminOrManager, taskHandler.UpdateTask)
	tasks.PUT("/:id/status", taskHandler.UpdateTaskStatus)
	tasks.DELETE("/:id", requireAdminOrManager, taskHandler.DeleteTask)

	api.GET("/dashboard", requireAuth, dashboardHandler.GetDashboard)

	return &testEnv{
		db:     db,
		router: r,
		tokens: tokens,
	}
}

func (env *testEnv) seedUser(t *testing.T, username string, role models.Role) *models.User {
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
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *testEnv) seedProject(t *testing.T, name string, managerID uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:      name,
		Status:    models.ProjectStatusActive,
		ManagerID: managerID,
	}
	require.NoError(t, env.db.Create(project).Error)
	return project
}

func (env *testEnv) seedMember(t *testing.T, projectID, userID uint64) {
	t.Helper()

	require.NoError(t, env.db.Create(&models.ProjectUser{
		ProjectID:    projectID,
		UserID:       userID,
		AssignedDate: time.Now(),
	}).Error)
}

// accessTokenFor signs a token directly, bypassing the login endpoint.
func (env *testEnv) accessTokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, _, err := env.tokens.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// do performs a JSON request against the test router.
func (env *testEnv) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
