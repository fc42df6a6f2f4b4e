package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DashboardStatistics struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

// DashboardCharts holds the per-status distribution (space-stripped keys plus
// an "All" total) and the per-priority distribution. Every enum value is
// present even when its count is zero.
type DashboardCharts struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

// TaskSummary is the recent-tasks projection on the dashboard.
type TaskSummary struct {
	ID        primitive.ObjectID `json:"_id"`
	Title     string             `json:"title"`
	Status    TaskStatus         `json:"status"`
	Priority  TaskPriority       `json:"priority"`
	DueDate   time.Time          `json:"dueDate"`
	CreatedAt time.Time          `json:"createdAt"`
}

type DashboardData struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []TaskSummary       `json:"recentTasks"`
}
