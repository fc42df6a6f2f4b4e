package services

import (
	"context"
	"strings"
	"time"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/Devanshi-cloud/ias-management/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const recentTaskLimit = 10

// DashboardService aggregates status and priority distributions, overdue
// counts and recent tasks. All three dashboards run the same algorithm and
// differ only in the base filter.
type DashboardService struct {
	tasks repositories.TaskRepository
	users repositories.UserRepository

	// Now is swappable so overdue counting is deterministic in tests.
	Now func() time.Time
}

func NewDashboardService(tasks repositories.TaskRepository, users repositories.UserRepository) *DashboardService {
	return &DashboardService{tasks: tasks, users: users, Now: time.Now}
}

// AdminDashboard aggregates over every task with no filter.
func (s *DashboardService) AdminDashboard(ctx context.Context) (*models.DashboardData, error) {
	return s.buildDashboard(ctx, repositories.TaskFilter{})
}

// DepartmentDashboard aggregates over tasks assigned to the caller's
// department. A caller without a department cannot resolve the scope and is
// rejected before any task query is issued.
func (s *DashboardService) DepartmentDashboard(ctx context.Context, identity models.Identity) (*models.DashboardData, error) {
	base, _, err := resolveBaseFilter(ctx, s.users, identity)
	if err != nil {
		return nil, err
	}
	return s.buildDashboard(ctx, base)
}

// MemberDashboard aggregates over the caller's own assigned tasks. The scope
// is always the caller, regardless of role.
func (s *DashboardService) MemberDashboard(ctx context.Context, identity models.Identity) (*models.DashboardData, error) {
	base := repositories.TaskFilter{
		RestrictAssignees: true,
		AssignedToAny:     []primitive.ObjectID{identity.ID},
	}
	return s.buildDashboard(ctx, base)
}

func (s *DashboardService) buildDashboard(ctx context.Context, base repositories.TaskFilter) (*models.DashboardData, error) {
	stats := models.DashboardStatistics{}
	var err error
	if stats.TotalTasks, err = s.tasks.Count(ctx, base); err != nil {
		return nil, err
	}
	if stats.PendingTasks, err = s.tasks.Count(ctx, base.WithStatus(models.StatusPending)); err != nil {
		return nil, err
	}
	if stats.CompletedTasks, err = s.tasks.Count(ctx, base.WithStatus(models.StatusCompleted)); err != nil {
		return nil, err
	}

	overdueFilter := base
	overdueFilter.NotStatus = models.StatusCompleted
	overdueFilter.DueBefore = s.Now()
	if stats.OverdueTasks, err = s.tasks.Count(ctx, overdueFilter); err != nil {
		return nil, err
	}

	statusCounts, err := s.tasks.CountByField(ctx, base, "status")
	if err != nil {
		return nil, err
	}
	// Keys lose their spaces ("In Progress" -> "InProgress") and every enum
	// value is present even at zero, plus the merged "All" total.
	distribution := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range models.TaskStatuses {
		key := strings.ReplaceAll(string(status), " ", "")
		distribution[key] = statusCounts[string(status)]
	}
	distribution["All"] = stats.TotalTasks

	priorityCounts, err := s.tasks.CountByField(ctx, base, "priority")
	if err != nil {
		return nil, err
	}
	priorityLevels := make(map[string]int64, len(models.TaskPriorities))
	for _, priority := range models.TaskPriorities {
		priorityLevels[string(priority)] = priorityCounts[string(priority)]
	}

	recent, err := s.tasks.FindRecent(ctx, base, recentTaskLimit)
	if err != nil {
		return nil, err
	}
	recentTasks := make([]models.TaskSummary, 0, len(recent))
	for _, task := range recent {
		recentTasks = append(recentTasks, models.TaskSummary{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			Priority:  task.Priority,
			DueDate:   task.DueDate,
			CreatedAt: task.CreatedAt,
		})
	}

	return &models.DashboardData{
		Statistics: stats,
		Charts: models.DashboardCharts{
			TaskDistribution:   distribution,
			TaskPriorityLevels: priorityLevels,
		},
		RecentTasks: recentTasks,
	}, nil
}
