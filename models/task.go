package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type TodoItem struct {
	Text      string `bson:"text" json:"text"`
	Completed bool   `bson:"completed" json:"completed"`
}

type Task struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`
	Priority      TaskPriority         `bson:"priority" json:"priority"`
	Status        TaskStatus           `bson:"status" json:"status"`
	DueDate       time.Time            `bson:"dueDate" json:"dueDate"`
	AssignedTo    []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	CreatedBy     primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Attachments   []string             `bson:"attachments,omitempty" json:"attachments,omitempty"`
	TodoChecklist []TodoItem           `bson:"todoChecklist" json:"todoChecklist"`
	Progress      int                  `bson:"progress" json:"progress"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (t *Task) IsAssignedTo(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

func (t *Task) CompletedTodoCount() int {
	count := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			count++
		}
	}
	return count
}

// ApplyChecklist replaces the checklist wholesale, recomputes progress from
// the completion ratio and derives the status from the new progress. This is
// the only path that derives progress from the checklist.
func (t *Task) ApplyChecklist(items []TodoItem) {
	t.TodoChecklist = items
	if len(items) == 0 {
		t.Progress = 0
	} else {
		t.Progress = int(math.Round(float64(t.CompletedTodoCount()) / float64(len(items)) * 100))
	}

	switch {
	case t.Progress == 100:
		t.Status = StatusCompleted
	case t.Progress > 0:
		t.Status = StatusInProgress
	default:
		t.Status = StatusPending
	}
}

// MarkCompleted is the side effect of setting the status to Completed: every
// checklist item is completed and progress jumps to 100.
func (t *Task) MarkCompleted() {
	t.Status = StatusCompleted
	for i := range t.TodoChecklist {
		t.TodoChecklist[i].Completed = true
	}
	t.Progress = 100
}

// TaskDetails is a task with its assignee display fields attached. The outer
// assignedTo shadows the raw id list on the embedded task when serialised.
type TaskDetails struct {
	Task
	AssignedTo         []UserSummary `json:"assignedTo"`
	CompletedTodoCount int           `json:"completedTodoCount"`
}

// StatusSummary counts tasks per status within the caller's base visibility
// scope, independent of any selected status filter.
type StatusSummary struct {
	All        int64 `json:"all"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
}

type TaskListResult struct {
	Tasks         []TaskDetails `json:"tasks"`
	StatusSummary StatusSummary `json:"statusSummary"`
}
