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
)

// UserFilter narrows a user listing. Zero values mean "any".
type UserFilter struct {
	Role       models.Role
	Department string
}

type UserRepository interface {
	Find(ctx context.Context, filter UserFilter) ([]models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoUserRepository struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
}

func NewMongoUserRepository(collection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *MongoUserRepository {
	return &MongoUserRepository{collection: collection, breaker: breaker}
}

func userFilterQuery(f UserFilter) bson.M {
	query := bson.M{}
	if f.Role != "" {
		query["role"] = f.Role
	}
	if f.Department != "" {
		query["department"] = f.Department
	}
	return query
}

func (r *MongoUserRepository) Find(ctx context.Context, filter UserFilter) ([]models.User, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		cursor, err := r.collection.Find(ctx, userFilterQuery(filter))
		if err != nil {
			return nil, fmt.Errorf("failed to query users: %w", err)
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, fmt.Errorf("failed to decode users: %w", err)
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.User), nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, query bson.M) (*models.User, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		var user models.User
		err := r.collection.FindOne(ctx, query).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return (*models.User)(nil), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch user: %w", err)
		}
		return &user, nil
	})
	if err != nil {
		return nil, err
	}
	user := result.(*models.User)
	if user == nil {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	return user, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	result, err := r.breaker.Execute(func() (interface{}, error) {
		cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, fmt.Errorf("failed to query users by ids: %w", err)
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, fmt.Errorf("failed to decode users: %w", err)
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.User), nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.(*mongo.UpdateResult).MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", user.ID.Hex(), models.ErrNotFound)
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.collection.DeleteOne(ctx, bson.M{"_id": id})
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.(*mongo.DeleteResult).DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", id.Hex(), models.ErrNotFound)
	}
	return nil
}
