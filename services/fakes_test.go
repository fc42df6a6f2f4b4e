package services_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/Devanshi-cloud/ias-management/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTaskRepo is an in-memory stand-in honouring the same filter semantics
// as the Mongo adapter.
type fakeTaskRepo struct {
	tasks   map[primitive.ObjectID]models.Task
	inserts int
	updates int
	queries int
	clock   time.Time
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks: make(map[primitive.ObjectID]models.Task),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeTaskRepo) seed(task models.Task) models.Task {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.CreatedAt.IsZero() {
		f.clock = f.clock.Add(time.Minute)
		task.CreatedAt = f.clock
	}
	f.tasks[task.ID] = task
	return task
}

func matchesTaskFilter(task models.Task, filter repositories.TaskFilter) bool {
	if filter.RestrictAssignees {
		found := false
		for _, id := range filter.AssignedToAny {
			if task.IsAssignedTo(id) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.Status == "" && filter.NotStatus != "" && task.Status == filter.NotStatus {
		return false
	}
	if !filter.DueBefore.IsZero() && !task.DueDate.Before(filter.DueBefore) {
		return false
	}
	return true
}

func (f *fakeTaskRepo) matching(filter repositories.TaskFilter) []models.Task {
	f.queries++
	var out []models.Task
	for _, task := range f.tasks {
		if matchesTaskFilter(task, filter) {
			out = append(out, task)
		}
	}
	return out
}

func (f *fakeTaskRepo) Find(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	return f.matching(filter), nil
}

func (f *fakeTaskRepo) FindRecent(ctx context.Context, filter repositories.TaskFilter, limit int64) ([]models.Task, error) {
	tasks := f.matching(filter)
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	if int64(len(tasks)) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (f *fakeTaskRepo) Count(ctx context.Context, filter repositories.TaskFilter) (int64, error) {
	return int64(len(f.matching(filter))), nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	f.queries++
	task, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id.Hex(), models.ErrNotFound)
	}
	copied := task
	return &copied, nil
}

func (f *fakeTaskRepo) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {
	f.inserts++
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	f.clock = f.clock.Add(time.Minute)
	task.CreatedAt = f.clock
	task.UpdatedAt = f.clock
	f.tasks[task.ID] = *task
	return task, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return fmt.Errorf("task %s: %w", task.ID.Hex(), models.ErrNotFound)
	}
	f.updates++
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id.Hex(), models.ErrNotFound)
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) CountByField(ctx context.Context, filter repositories.TaskFilter, field string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, task := range f.matching(filter) {
		switch field {
		case "status":
			counts[string(task.Status)]++
		case "priority":
			counts[string(task.Priority)]++
		}
	}
	return counts, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]models.User

	findByEmailErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUserRepo) seed(user models.User) models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Find(ctx context.Context, filter repositories.UserFilter) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Department != "" && user.Department != filter.Department {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findByEmailErr != nil {
		return nil, f.findByEmailErr
	}
	for _, user := range f.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user: %w", models.ErrNotFound)
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID.Hex(), models.ErrNotFound)
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id.Hex(), models.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}
