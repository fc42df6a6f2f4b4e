package services

import (
	"context"
	"time"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/Devanshi-cloud/ias-management/policy"
	"github.com/Devanshi-cloud/ias-management/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskService struct {
	tasks repositories.TaskRepository
	users repositories.UserRepository

	// Later revisions restrict members to status and checklist updates on
	// their own tasks; the flag keeps the earlier permissive behaviour
	// reachable through configuration.
	allowMemberBasicEdits bool
}

func NewTaskService(tasks repositories.TaskRepository, users repositories.UserRepository, allowMemberBasicEdits bool) *TaskService {
	return &TaskService{
		tasks:                 tasks,
		users:                 users,
		allowMemberBasicEdits: allowMemberBasicEdits,
	}
}

type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      models.TaskPriority
	DueDate       time.Time
	AssignedTo    []primitive.ObjectID
	Attachments   []string
	TodoChecklist []models.TodoItem
}

// UpdateTaskInput carries a partial update: nil fields keep their prior
// value. Progress and status are deliberately absent; they only change
// through UpdateTaskStatus and UpdateTaskChecklist.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Priority      *models.TaskPriority
	DueDate       *time.Time
	AssignedTo    *[]primitive.ObjectID
	Attachments   *[]string
	TodoChecklist *[]models.TodoItem
}

// GetTasks lists the tasks inside the caller's visibility scope, optionally
// narrowed to one status. The status summary is always computed against the
// unnarrowed base filter so the totals do not move with the selected tab.
func (s *TaskService) GetTasks(ctx context.Context, identity models.Identity, status models.TaskStatus) (*models.TaskListResult, error) {
	if status != "" && !status.IsValid() {
		return nil, models.NewValidationError("invalid task status: %s", status)
	}

	base, _, err := resolveBaseFilter(ctx, s.users, identity)
	if err != nil {
		return nil, err
	}

	query := base
	if status != "" {
		query = query.WithStatus(status)
	}
	tasks, err := s.tasks.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	details, err := s.attachAssignees(ctx, tasks)
	if err != nil {
		return nil, err
	}

	summary := models.StatusSummary{}
	if summary.All, err = s.tasks.Count(ctx, base); err != nil {
		return nil, err
	}
	if summary.Pending, err = s.tasks.Count(ctx, base.WithStatus(models.StatusPending)); err != nil {
		return nil, err
	}
	if summary.InProgress, err = s.tasks.Count(ctx, base.WithStatus(models.StatusInProgress)); err != nil {
		return nil, err
	}
	if summary.Completed, err = s.tasks.Count(ctx, base.WithStatus(models.StatusCompleted)); err != nil {
		return nil, err
	}

	return &models.TaskListResult{Tasks: details, StatusSummary: summary}, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, identity models.Identity, taskID primitive.ObjectID) (*models.TaskDetails, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	members, err := departmentMemberSet(ctx, s.users, identity)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(identity, task, members) {
		return nil, models.ErrForbidden
	}

	details, err := s.attachAssignees(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *TaskService) CreateTask(ctx context.Context, identity models.Identity, input CreateTaskInput) (*models.Task, error) {
	if !policy.CanCreateTasks(identity.Role) {
		return nil, models.ErrForbidden
	}
	if input.Title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if input.Priority != "" && !input.Priority.IsValid() {
		return nil, models.NewValidationError("invalid task priority: %s", input.Priority)
	}

	members, err := departmentMemberSet(ctx, s.users, identity)
	if err != nil {
		return nil, err
	}
	if err := policy.ValidateAssignees(identity, input.AssignedTo, members); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:         input.Title,
		Description:   input.Description,
		Priority:      input.Priority,
		Status:        models.StatusPending,
		DueDate:       input.DueDate,
		AssignedTo:    input.AssignedTo,
		CreatedBy:     identity.ID,
		Attachments:   input.Attachments,
		TodoChecklist: input.TodoChecklist,
		Progress:      0,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.TodoChecklist == nil {
		task.TodoChecklist = []models.TodoItem{}
	}

	return s.tasks.Insert(ctx, task)
}

func (s *TaskService) UpdateTask(ctx context.Context, identity models.Identity, taskID primitive.ObjectID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	members, err := departmentMemberSet(ctx, s.users, identity)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(identity, task, members) {
		return nil, models.ErrForbidden
	}

	basicFieldChange := input.Title != nil || input.Description != nil ||
		input.Priority != nil || input.DueDate != nil ||
		input.Attachments != nil || input.TodoChecklist != nil
	if identity.Role == models.RoleMember && basicFieldChange && !s.allowMemberBasicEdits {
		return nil, models.ErrForbidden
	}

	// Reassignment is validated before any field is applied so a rejected
	// update persists nothing.
	if input.AssignedTo != nil {
		if !policy.CanCreateTasks(identity.Role) {
			return nil, models.ErrForbidden
		}
		if err := policy.ValidateAssignees(identity, *input.AssignedTo, members); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil && !input.Priority.IsValid() {
		return nil, models.NewValidationError("invalid task priority: %s", *input.Priority)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Attachments != nil {
		task.Attachments = *input.Attachments
	}
	if input.TodoChecklist != nil {
		task.TodoChecklist = *input.TodoChecklist
	}
	if input.AssignedTo != nil {
		task.AssignedTo = *input.AssignedTo
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, identity models.Identity, taskID primitive.ObjectID) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	members, err := departmentMemberSet(ctx, s.users, identity)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTask(identity, task, members) {
		return models.ErrForbidden
	}

	return s.tasks.Delete(ctx, taskID)
}

// UpdateTaskStatus sets the task status. Setting Completed also completes the
// whole checklist and forces progress to 100; any other status leaves the
// checklist and progress untouched.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, identity models.Identity, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, models.NewValidationError("invalid task status: %s", status)
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	members, err := departmentMemberSet(ctx, s.users, identity)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(identity, task, members) {
		return nil, models.ErrForbidden
	}

	if status == models.StatusCompleted {
		task.MarkCompleted()
	} else {
		task.Status = status
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskChecklist replaces the checklist wholesale and re-derives
// progress and status from the new completion ratio.
func (s *TaskService) UpdateTaskChecklist(ctx context.Context, identity models.Identity, taskID primitive.ObjectID, checklist []models.TodoItem) (*models.TaskDetails, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	members, err := departmentMemberSet(ctx, s.users, identity)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(identity, task, members) {
		return nil, models.ErrForbidden
	}

	task.ApplyChecklist(checklist)

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	details, err := s.attachAssignees(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// attachAssignees projects every referenced assignee onto its display fields.
// Assignee ids that no longer resolve are dropped from the projection;
// "assigned to nobody found" is distinct from unassigned only in the raw ids.
func (s *TaskService) attachAssignees(ctx context.Context, tasks []models.Task) ([]models.TaskDetails, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, task := range tasks {
		for _, id := range task.AssignedTo {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for _, u := range users {
		summaries[u.ID] = u.Summary()
	}

	details := make([]models.TaskDetails, 0, len(tasks))
	for _, task := range tasks {
		assignees := make([]models.UserSummary, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			if summary, ok := summaries[id]; ok {
				assignees = append(assignees, summary)
			}
		}
		details = append(details, models.TaskDetails{
			Task:               task,
			AssignedTo:         assignees,
			CompletedTodoCount: task.CompletedTodoCount(),
		})
	}
	return details, nil
}
