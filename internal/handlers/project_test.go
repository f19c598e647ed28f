package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/dto"
	"github.com/protrack/protrack-api/internal/models"
)

func TestProjectHandler_CreateForcesManagerToSelf(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	other := env.seedUser(t, "other", models.RoleManager)

	w := env.do(t, http.MethodPost, "/api/projects", env.accessTokenFor(t, manager), map[string]any{
		"name":       "Rollout",
		"manager_id": other.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[dto.ProjectDTO](t, w)
	require.Equal(t, manager.ID, created.ManagerID)
	require.Equal(t, models.ProjectStatusActive, created.Status)
}

func TestProjectHandler_CreateForbiddenForUserRole(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.seedUser(t, "alice", models.RoleUser)

	w := env.do(t, http.MethodPost, "/api/projects", env.accessTokenFor(t, alice), map[string]any{
		"name": "Nope",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectHandler_AssignAndListMembers(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	alice := env.seedUser(t, "alice", models.RoleUser)
	bob := env.seedUser(t, "bob", models.RoleUser)
	project := env.seedProject(t, "Rollout", manager.ID)
	token := env.accessTokenFor(t, manager)

	membersPath := fmt.Sprintf("/api/projects/%d/users", project.ID)

	type memberList struct {
		Users []dto.UserDTO `json:"users"`
	}

	// Nonexistent IDs are skipped silently
	w := env.do(t, http.MethodPost, membersPath, token, map[string]any{
		"user_ids": []uint64{alice.ID, bob.ID, 9999},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, membersPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[memberList](t, w).Users, 2)

	// Replacing with a single ID drops the other member
	w = env.do(t, http.MethodPost, membersPath, token, map[string]any{
		"user_ids": []uint64{bob.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, membersPath, token, nil)
	final := decode[memberList](t, w)
	require.Len(t, final.Users, 1)
	require.Equal(t, "bob", final.Users[0].Username)
}

func TestProjectHandler_GetVisibility(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	alice := env.seedUser(t, "alice", models.RoleUser)
	outsider := env.seedUser(t, "outsider", models.RoleUser)
	project := env.seedProject(t, "Rollout", manager.ID)
	env.seedMember(t, project.ID, alice.ID)

	path := fmt.Sprintf("/api/projects/%d", project.ID)

	w := env.do(t, http.MethodGet, path, env.accessTokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)

	fetched := decode[dto.ProjectDTO](t, w)
	require.Equal(t, "Rollout", fetched.Name)
	require.Len(t, fetched.AssignedUsers, 1)

	w = env.do(t, http.MethodGet, path, env.accessTokenFor(t, outsider), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/projects/9999", env.accessTokenFor(t, manager), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_DeleteCascades(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	project := env.seedProject(t, "Rollout", manager.ID)
	token := env.accessTokenFor(t, manager)

	env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Wire the API",
		"project_id": project.ID,
	})

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks int64
	require.NoError(t, env.db.Model(&models.TaskItem{}).Count(&tasks).Error)
	require.Zero(t, tasks)
}

func TestProjectHandler_InvalidManagerRejected(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.seedUser(t, "admin", models.RoleAdmin)
	alice := env.seedUser(t, "alice", models.RoleUser)

	w := env.do(t, http.MethodPost, "/api/projects", env.accessTokenFor(t, admin), map[string]any{
		"name":       "Bad",
		"manager_id": alice.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
