package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/dto"
	"github.com/protrack/protrack-api/internal/models"
)

func TestTaskHandler_CreateAndGet(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	alice := env.seedUser(t, "alice", models.RoleUser)
	project := env.seedProject(t, "Rollout", manager.ID)
	env.seedMember(t, project.ID, alice.ID)
	token := env.accessTokenFor(t, manager)

	w := env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":          "Wire the API",
		"project_id":     project.ID,
		"assigned_to_id": alice.ID,
		"priority":       "High",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[dto.TaskDTO](t, w)
	require.Equal(t, "Wire the API", created.Title)
	// The initial status comes from the assignee, not the payload
	require.Equal(t, models.TaskStatusAssigned, created.Status)
	require.Equal(t, models.TaskPriorityHigh, created.Priority)

	get := env.do(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, get.Code)

	fetched := decode[dto.TaskDTO](t, get)
	require.Len(t, fetched.History, 1)
	require.Equal(t, "Created", fetched.History[0].FieldName)
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	outsider := env.seedUser(t, "outsider", models.RoleUser)
	project := env.seedProject(t, "Rollout", manager.ID)
	token := env.accessTokenFor(t, manager)

	// Missing title fails binding
	w := env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"project_id": project.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown project
	w = env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Bad",
		"project_id": 9999,
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	// Assignee outside the project
	w = env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":          "Bad",
		"project_id":     project.ID,
		"assigned_to_id": outsider.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_CreateForbiddenForUserRole(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	alice := env.seedUser(t, "alice", models.RoleUser)
	project := env.seedProject(t, "Rollout", manager.ID)

	w := env.do(t, http.MethodPost, "/api/tasks", env.accessTokenFor(t, alice), map[string]any{
		"title":      "Nope",
		"project_id": project.ID,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskHandler_StatusUpdateByAssignee(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	alice := env.seedUser(t, "alice", models.RoleUser)
	bob := env.seedUser(t, "bob", models.RoleUser)
	project := env.seedProject(t, "Rollout", manager.ID)
	env.seedMember(t, project.ID, alice.ID)
	env.seedMember(t, project.ID, bob.ID)

	created := decode[dto.TaskDTO](t, env.do(t, http.MethodPost, "/api/tasks",
		env.accessTokenFor(t, manager), map[string]any{
			"title":          "Wire the API",
			"project_id":     project.ID,
			"assigned_to_id": alice.ID,
		}))

	path := fmt.Sprintf("/api/tasks/%d/status", created.ID)

	// The assignee may move their own task
	w := env.do(t, http.MethodPut, path, env.accessTokenFor(t, alice), map[string]any{
		"status":       "Completed",
		"actual_hours": 8.0,
		"comment":      "done",
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[dto.TaskDTO](t, w)
	require.Equal(t, models.TaskStatusCompleted, updated.Status)
	require.Equal(t, 8.0, updated.ActualHours)
	require.NotNil(t, updated.CompletedDate)

	// Another User in the same project may not
	w = env.do(t, http.MethodPut, path, env.accessTokenFor(t, bob), map[string]any{
		"status": "InProgress",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// An unknown status fails binding
	w = env.do(t, http.MethodPut, path, env.accessTokenFor(t, alice), map[string]any{
		"status": "Paused",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_ListScopedByRole(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	other := env.seedUser(t, "other", models.RoleManager)
	alice := env.seedUser(t, "alice", models.RoleUser)

	mine := env.seedProject(t, "Mine", manager.ID)
	theirs := env.seedProject(t, "Theirs", other.ID)
	env.seedMember(t, mine.ID, alice.ID)

	managerToken := env.accessTokenFor(t, manager)
	env.do(t, http.MethodPost, "/api/tasks", managerToken, map[string]any{
		"title":          "Visible",
		"project_id":     mine.ID,
		"assigned_to_id": alice.ID,
	})
	env.do(t, http.MethodPost, "/api/tasks", env.accessTokenFor(t, other), map[string]any{
		"title":      "Hidden",
		"project_id": theirs.ID,
	})

	w := env.do(t, http.MethodGet, "/api/tasks", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.TaskListResponse](t, w)
	require.Len(t, list.Tasks, 1)
	require.Equal(t, "Visible", list.Tasks[0].Title)
	require.Equal(t, int64(1), list.Pagination.Total)

	// The assignee sees the same single task
	w = env.do(t, http.MethodGet, "/api/tasks", env.accessTokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[dto.TaskListResponse](t, w)
	require.Len(t, list.Tasks, 1)
}

func TestTaskHandler_UpdateRecordsHistory(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	project := env.seedProject(t, "Rollout", manager.ID)
	token := env.accessTokenFor(t, manager)

	created := decode[dto.TaskDTO](t, env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Wire the API",
		"project_id": project.ID,
	}))

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", created.ID), token, map[string]any{
		"title":    "Wire the REST API",
		"status":   "InProgress",
		"priority": "High",
	})
	require.Equal(t, http.StatusOK, w.Code)

	get := env.do(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), token, nil)
	fetched := decode[dto.TaskDTO](t, get)

	// Created + Title + Status + Priority
	require.Len(t, fetched.History, 4)
}

func TestTaskHandler_DeleteRequiresOwnership(t *testing.T) {
	env := setupTestEnv(t)
	manager := env.seedUser(t, "manager", models.RoleManager)
	other := env.seedUser(t, "other", models.RoleManager)
	project := env.seedProject(t, "Rollout", manager.ID)

	created := decode[dto.TaskDTO](t, env.do(t, http.MethodPost, "/api/tasks",
		env.accessTokenFor(t, manager), map[string]any{
			"title":      "Wire the API",
			"project_id": project.ID,
		}))

	path := fmt.Sprintf("/api/tasks/%d", created.ID)

	w := env.do(t, http.MethodDelete, path, env.accessTokenFor(t, other), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, path, env.accessTokenFor(t, manager), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, path, env.accessTokenFor(t, manager), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
