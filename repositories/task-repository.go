package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskFilter is the query predicate the services build from the visibility
// policy. RestrictAssignees distinguishes "no assignee restriction" from
// "restricted to an empty set"; the latter matches nothing, which is what an
// empty department must see.
type TaskFilter struct {
	RestrictAssignees bool
	AssignedToAny     []primitive.ObjectID
	Status            models.TaskStatus
	NotStatus         models.TaskStatus
	DueBefore         time.Time
}

// WithStatus returns a copy of the filter narrowed to one status.
func (f TaskFilter) WithStatus(status models.TaskStatus) TaskFilter {
	f.Status = status
	return f
}

type TaskRepository interface {
	Find(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	FindRecent(ctx context.Context, filter TaskFilter, limit int64) ([]models.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Insert(ctx context.Context, task *models.Task) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByField(ctx context.Context, filter TaskFilter, field string) (map[string]int64, error)
}

// MongoTaskRepository stores tasks in a MongoDB collection. Every call goes
// through the shared circuit breaker so a struggling database trips all
// repositories at once.
type MongoTaskRepository struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
}

func NewMongoTaskRepository(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *MongoTaskRepository {
	return &MongoTaskRepository{collection: collection, breaker: breaker}
}

func taskFilterQuery(f TaskFilter) bson.M {
	query := bson.M{}
	if f.RestrictAssignees {
		ids := f.AssignedToAny
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		query["assignedTo"] = bson.M{"$in": ids}
	}
	if f.Status != "" {
		query["status"] = f.Status
	} else if f.NotStatus != "" {
		query["status"] = bson.M{"$ne": f.NotStatus}
	}
	if !f.DueBefore.IsZero() {
		query["dueDate"] = bson.M{"$lt": primitive.NewDateTimeFromTime(f.DueBefore)}
	}
	return query
}

func (r *MongoTaskRepository) Find(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		cursor, err := r.collection.Find(ctx, taskFilterQuery(filter))
		if err != nil {
			return nil, fmt.Errorf("failed to query tasks: %w", err)
		}
		defer cursor.Close(ctx)

		var tasks []models.Task
		if err := cursor.All(ctx, &tasks); err != nil {
			return nil, fmt.Errorf("failed to decode tasks: %w", err)
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Task), nil
}

func (r *MongoTaskRepository) FindRecent(ctx context.Context, filter TaskFilter, limit int64) ([]models.Task, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(limit)
		cursor, err := r.collection.Find(ctx, taskFilterQuery(filter), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to query recent tasks: %w", err)
		}
		defer cursor.Close(ctx)

		var tasks []models.Task
		if err := cursor.All(ctx, &tasks); err != nil {
			return nil, fmt.Errorf("failed to decode recent tasks: %w", err)
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Task), nil
}

func (r *MongoTaskRepository) Count(ctx context.Context, filter TaskFilter) (int64, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.collection.CountDocuments(ctx, taskFilterQuery(filter))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return result.(int64), nil
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		var task models.Task
		err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Absence is not a database failure; keep it off the breaker.
			return (*models.Task)(nil), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch task: %w", err)
		}
		return &task, nil
	})
	if err != nil {
		return nil, err
	}
	task := result.(*models.Task)
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", id.Hex(), models.ErrNotFound)
	}
	return task, nil
}

func (r *MongoTaskRepository) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.collection.InsertOne(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Update replaces the whole document. Two concurrent read-modify-write cycles
// on the same task race with last-write-wins semantics.
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.(*mongo.UpdateResult).MatchedCount == 0 {
		return fmt.Errorf("task %s: %w", task.ID.Hex(), models.ErrNotFound)
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.collection.DeleteOne(ctx, bson.M{"_id": id})
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.(*mongo.DeleteResult).DeletedCount == 0 {
		return fmt.Errorf("task %s: %w", id.Hex(), models.ErrNotFound)
	}
	return nil
}

// CountByField groups matching tasks by one document field and returns the
// count per value. Used for the dashboard status and priority distributions.
func (r *MongoTaskRepository) CountByField(ctx context.Context, filter TaskFilter, field string) (map[string]int64, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: taskFilterQuery(filter)}},
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + field},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
		}
		cursor, err := r.collection.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate tasks by %s: %w", field, err)
		}
		defer cursor.Close(ctx)

		var rows []struct {
			Value string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.All(ctx, &rows); err != nil {
			return nil, fmt.Errorf("failed to decode aggregation result: %w", err)
		}

		counts := make(map[string]int64, len(rows))
		for _, row := range rows {
			counts[row.Value] = row.Count
		}
		return counts, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]int64), nil
}
