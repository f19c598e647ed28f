package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/dto"
	"github.com/protrack/protrack-api/internal/models"
)

func TestDashboardHandler_RoleShapes(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.seedUser(t, "admin", models.RoleAdmin)
	manager := env.seedUser(t, "manager", models.RoleManager)
	alice := env.seedUser(t, "alice", models.RoleUser)

	project := env.seedProject(t, "Rollout", manager.ID)
	env.seedMember(t, project.ID, alice.ID)

	managerToken := env.accessTokenFor(t, manager)
	env.do(t, http.MethodPost, "/api/tasks", managerToken, map[string]any{
		"title":          "Wire the API",
		"project_id":     project.ID,
		"assigned_to_id": alice.ID,
	})

	// Admin sees global counts including user tallies
	w := env.do(t, http.MethodGet, "/api/dashboard", env.accessTokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	adminView := decode[dto.DashboardResponse](t, w)
	require.Equal(t, 1, adminView.TotalProjects)
	require.Equal(t, 1, adminView.TotalTasks)
	require.Equal(t, int64(2), adminView.TotalUsers)
	require.Len(t, adminView.ProjectSummaries, 1)

	// Manager sees their projects and distinct member counts
	w = env.do(t, http.MethodGet, "/api/dashboard", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	managerView := decode[dto.DashboardResponse](t, w)
	require.Equal(t, 1, managerView.TotalProjects)
	require.Equal(t, int64(1), managerView.TotalUsers)

	// User sees their own slice with no user tallies
	w = env.do(t, http.MethodGet, "/api/dashboard", env.accessTokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	userView := decode[dto.DashboardResponse](t, w)
	require.Equal(t, 1, userView.TotalTasks)
	require.Equal(t, 1, userView.TotalProjects)
	require.Zero(t, userView.TotalUsers)
	require.Empty(t, userView.ProjectSummaries)
	require.Len(t, userView.RecentTasks, 1)

	// Unauthenticated callers are rejected
	w = env.do(t, http.MethodGet, "/api/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
