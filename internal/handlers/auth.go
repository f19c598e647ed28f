package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/protrack/protrack-api/internal/dto"
	apierrors "github.com/protrack/protrack-api/internal/errors"
	"github.com/protrack/protrack-api/internal/middleware"
	"github.com/protrack/protrack-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	logger      *logrus.Logger
}

func NewAuthHandler(authService *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login verifies credentials and returns an access/refresh token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Username and password are required")
		return
	}

	pair, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.RespondWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "Invalid username or password"))
			return
		}
		h.logger.WithError(err).Error("login failed")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenResponse(pair))
}

// Refresh rotates a refresh token and returns a fresh pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Refresh token is required")
		return
	}

	pair, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			apierrors.RespondWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, "Invalid or expired refresh token"))
			return
		}
		h.logger.WithError(err).Error("token refresh failed")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenResponse(pair))
}

// Logout revokes every active refresh token of the current user
func (h *AuthHandler) Logout(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authService.Logout(actor.ID); err != nil {
		h.logger.WithError(err).Error("logout failed")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Revoke invalidates a single named refresh token
func (h *AuthHandler) Revoke(c *gin.Context) {
	var req dto.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Refresh token is required")
		return
	}

	revoked, err := h.authService.RevokeToken(req.RefreshToken)
	if err != nil {
		h.logger.WithError(err).Error("token revocation failed")
		apierrors.InternalError(c, "")
		return
	}
	if !revoked {
		apierrors.NotFound(c, "Refresh token not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token revoked successfully"})
}

// Me returns the identity claims of the current access token
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       actor.ID,
		"username": actor.Username,
		"role":     actor.Role,
	})
}
