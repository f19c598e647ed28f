package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/protrack/protrack-api/internal/config"
	"github.com/protrack/protrack-api/internal/database"
	"github.com/protrack/protrack-api/internal/handlers"
	"github.com/protrack/protrack-api/internal/middleware"
	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/repository"
	"github.com/protrack/protrack-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.GinMode == "release" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logger.WithError(err).Fatal("failed to create indexes")
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.GetDB())
	projectRepo := repository.NewProjectRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())
	tokenRepo := repository.NewRefreshTokenRepository(database.GetDB())

	// Services
	tokenService := services.NewTokenService(cfg)
	authService := services.NewAuthService(userRepo, tokenRepo, tokenService)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	dashboardService := services.NewDashboardService(projectRepo, taskRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	projectHandler := handlers.NewProjectHandler(projectService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, logger)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	requireAuth := middleware.RequireAuth(tokenService)
	requireAdminOrManager := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "ProTrack API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.POST("/revoke", requireAuth, requireAdminOrManager, authHandler.Revoke)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		// User management (Admin and Manager only; fine-grained rules live
		// in the service layer)
		users := api.Group("/users")
		users.Use(requireAuth, requireAdminOrManager)
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Project routes
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", requireAdminOrManager, projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", requireAdminOrManager, projectHandler.UpdateProject)
			projects.DELETE("/:id", requireAdminOrManager, projectHandler.DeleteProject)
			projects.POST("/:id/users", requireAdminOrManager, projectHandler.AssignUsers)
			projects.GET("/:id/users", requireAdminOrManager, projectHandler.GetProjectMembers)
		}

		// Task routes
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", requireAdminOrManager, taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", requireAdminOrManager, taskHandler.UpdateTask)
			tasks.PUT("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", requireAdminOrManager, taskHandler.DeleteTask)
		}

		// Dashboard
		api.GET("/dashboard", requireAuth, dashboardHandler.GetDashboard)
	}

	// Start server
	logger.WithField("port", cfg.ServerPort).Info("server starting")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
}
