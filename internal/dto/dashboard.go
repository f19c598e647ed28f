package dto

import "github.com/protrack/protrack-api/internal/services"

// DashboardResponse is the role-scoped dashboard projection
type DashboardResponse struct {
	TotalProjects   int   `json:"total_projects"`
	ActiveProjects  int   `json:"active_projects"`
	TotalTasks      int   `json:"total_tasks"`
	CompletedTasks  int   `json:"completed_tasks"`
	InProgressTasks int   `json:"in_progress_tasks"`
	OverdueTasks    int   `json:"overdue_tasks"`
	TotalUsers      int64 `json:"total_users"`
	ActiveUsers     int64 `json:"active_users"`

	ProjectSummaries  []ProjectTaskSummaryDTO `json:"project_summaries"`
	RecentTasks       []TaskDTO               `json:"recent_tasks"`
	UpcomingDeadlines []TaskDTO               `json:"upcoming_deadlines"`
}

// ProjectTaskSummaryDTO aggregates task progress for one project
type ProjectTaskSummaryDTO struct {
	ProjectID            uint64  `json:"project_id"`
	ProjectName          string  `json:"project_name"`
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	InProgressTasks      int     `json:"in_progress_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ToDashboardResponse converts the service projection
func ToDashboardResponse(d *services.Dashboard) DashboardResponse {
	summaries := make([]ProjectTaskSummaryDTO, len(d.ProjectSummaries))
	for i, s := range d.ProjectSummaries {
		summaries[i] = ProjectTaskSummaryDTO{
			ProjectID:            s.ProjectID,
			ProjectName:          s.ProjectName,
			TotalTasks:           s.TotalTasks,
			CompletedTasks:       s.CompletedTasks,
			InProgressTasks:      s.InProgressTasks,
			CompletionPercentage: s.CompletionPercentage,
		}
	}

	return DashboardResponse{
		TotalProjects:     d.TotalProjects,
		ActiveProjects:    d.ActiveProjects,
		TotalTasks:        d.TotalTasks,
		CompletedTasks:    d.CompletedTasks,
		InProgressTasks:   d.InProgressTasks,
		OverdueTasks:      d.OverdueTasks,
		TotalUsers:        d.TotalUsers,
		ActiveUsers:       d.ActiveUsers,
		ProjectSummaries:  summaries,
		RecentTasks:       ToTaskDTOs(d.RecentTasks),
		UpcomingDeadlines: ToTaskDTOs(d.UpcomingDeadlines),
	}
}
