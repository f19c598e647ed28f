package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/protrack/protrack-api/internal/dto"
	apierrors "github.com/protrack/protrack-api/internal/errors"
	"github.com/protrack/protrack-api/internal/middleware"
	"github.com/protrack/protrack-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	logger           *logrus.Logger
}

func NewDashboardHandler(dashboardService *services.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetDashboard returns the aggregated view for the caller's role and scope
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(actor)
	if err != nil {
		h.logger.WithError(err).Error("failed to build dashboard")
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard))
}
