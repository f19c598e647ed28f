package services

import (
	"fmt"
	"math"
	"time"

	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/policy"
	"github.com/protrack/protrack-api/internal/repository"
)

// dashboardListCap bounds the recent-task and upcoming-deadline lists.
const dashboardListCap = 10

// Dashboard is the role-scoped read projection returned to every caller.
type Dashboard struct {
	TotalProjects   int
	ActiveProjects  int
	TotalTasks      int
	CompletedTasks  int
	InProgressTasks int
	OverdueTasks    int
	TotalUsers      int64
	ActiveUsers     int64

	ProjectSummaries  []ProjectTaskSummary
	RecentTasks       []models.TaskItem
	UpcomingDeadlines []models.TaskItem
}

// ProjectTaskSummary aggregates task progress for one project.
type ProjectTaskSummary struct {
	ProjectID            uint64
	ProjectName          string
	TotalTasks           int
	CompletedTasks       int
	InProgressTasks      int
	CompletionPercentage float64
}

// DashboardService builds the dashboard projection. It only reads.
type DashboardService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// GetDashboard assembles the projection for the actor's role and scope.
func (s *DashboardService) GetDashboard(actor Actor) (*Dashboard, error) {
	scope := policy.ListScope(actor.ID, actor.Role)

	tasks, _, err := s.taskRepo.List(repository.TaskFilter{Scope: scope})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	dashboard := &Dashboard{}
	s.fillTaskCounts(dashboard, tasks)

	switch actor.Role {
	case models.RoleUser:
		// Projects counted among the distinct projects of the user's
		// assigned tasks; user counts are not meaningful at this scope.
		seen := map[uint64]bool{}
		for _, t := range tasks {
			if !seen[t.ProjectID] {
				seen[t.ProjectID] = true
				dashboard.TotalProjects++
				if t.Project.Status == models.ProjectStatusActive {
					dashboard.ActiveProjects++
				}
			}
		}
	default:
		projects, err := s.projectRepo.List(scope)
		if err != nil {
			return nil, fmt.Errorf("failed to load projects: %w", err)
		}

		dashboard.TotalProjects = len(projects)
		for _, p := range projects {
			if p.Status == models.ProjectStatusActive {
				dashboard.ActiveProjects++
			}
		}
		dashboard.ProjectSummaries = buildProjectSummaries(projects, tasks)

		if actor.Role == models.RoleAdmin {
			countedRoles := []models.Role{models.RoleUser, models.RoleManager}
			if dashboard.TotalUsers, err = s.userRepo.CountByRoles(countedRoles, false); err != nil {
				return nil, fmt.Errorf("failed to count users: %w", err)
			}
			if dashboard.ActiveUsers, err = s.userRepo.CountByRoles(countedRoles, true); err != nil {
				return nil, fmt.Errorf("failed to count active users: %w", err)
			}
		} else {
			projectIDs := make([]uint64, 0, len(projects))
			for _, p := range projects {
				projectIDs = append(projectIDs, p.ID)
			}
			if dashboard.TotalUsers, err = s.projectRepo.CountDistinctMembers(projectIDs, false); err != nil {
				return nil, fmt.Errorf("failed to count members: %w", err)
			}
			if dashboard.ActiveUsers, err = s.projectRepo.CountDistinctMembers(projectIDs, true); err != nil {
				return nil, fmt.Errorf("failed to count active members: %w", err)
			}
		}
	}

	if dashboard.RecentTasks, err = s.taskRepo.ListRecent(scope, dashboardListCap); err != nil {
		return nil, fmt.Errorf("failed to load recent tasks: %w", err)
	}
	if dashboard.UpcomingDeadlines, err = s.taskRepo.ListUpcoming(scope, startOfToday(), dashboardListCap); err != nil {
		return nil, fmt.Errorf("failed to load upcoming deadlines: %w", err)
	}

	return dashboard, nil
}

// fillTaskCounts computes the task tallies. Overdue means past due and not
// in a terminal status, for every role.
func (s *DashboardService) fillTaskCounts(dashboard *Dashboard, tasks []models.TaskItem) {
	today := startOfToday()

	dashboard.TotalTasks = len(tasks)
	for _, t := range tasks {
		switch {
		case t.Status.Terminal():
			dashboard.CompletedTasks++
		case t.Status == models.TaskStatusInProgress:
			dashboard.InProgressTasks++
		}
		if t.DueDate != nil && t.DueDate.Before(today) && !t.Status.Terminal() {
			dashboard.OverdueTasks++
		}
	}
}

func buildProjectSummaries(projects []models.Project, tasks []models.TaskItem) []ProjectTaskSummary {
	byProject := make(map[uint64][]models.TaskItem, len(projects))
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}

	summaries := make([]ProjectTaskSummary, 0, len(projects))
	for _, p := range projects {
		summary := ProjectTaskSummary{
			ProjectID:   p.ID,
			ProjectName: p.Name,
		}
		for _, t := range byProject[p.ID] {
			summary.TotalTasks++
			switch {
			case t.Status.Terminal():
				summary.CompletedTasks++
			case t.Status == models.TaskStatusInProgress:
				summary.InProgressTasks++
			}
		}
		if summary.TotalTasks > 0 {
			pct := float64(summary.CompletedTasks) / float64(summary.TotalTasks) * 100
			summary.CompletionPercentage = math.Round(pct*100) / 100
		}
		summaries = append(summaries, summary)
	}

	return summaries
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
