package services

import (
	"context"
	"errors"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/Devanshi-cloud/ias-management/policy"
	"github.com/Devanshi-cloud/ias-management/repositories"
	"github.com/Devanshi-cloud/ias-management/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users repositories.UserRepository
	tasks repositories.TaskRepository
}

func NewUserService(users repositories.UserRepository, tasks repositories.TaskRepository) *UserService {
	return &UserService{users: users, tasks: tasks}
}

// UpdateUserInput is a partial user update. Role and Department only pass the
// policy check for admin callers.
type UpdateUserInput struct {
	Name            *string
	Email           *string
	Password        *string
	ProfileImageURL *string
	Role            *models.Role
	Department      *string
	Supervisor      *primitive.ObjectID
}

// GetUsers lists the member accounts inside the caller's visibility scope,
// each annotated with its task counts per status.
func (s *UserService) GetUsers(ctx context.Context, identity models.Identity) ([]models.UserWithTaskCounts, error) {
	var list []models.User
	var err error

	switch identity.Role {
	case models.RoleAdmin:
		list, err = s.users.Find(ctx, repositories.UserFilter{Role: models.RoleMember})
	case models.RoleVP, models.RoleHead:
		if identity.Department == "" {
			return nil, models.NewValidationError("no department is set for this account")
		}
		list, err = s.users.Find(ctx, repositories.UserFilter{
			Role:       models.RoleMember,
			Department: identity.Department,
		})
	default:
		var self *models.User
		self, err = s.users.FindByID(ctx, identity.ID)
		if self != nil {
			list = []models.User{*self}
		}
	}
	if err != nil {
		return nil, err
	}

	annotated := make([]models.UserWithTaskCounts, 0, len(list))
	for _, user := range list {
		entry := models.UserWithTaskCounts{User: user}
		scope := repositories.TaskFilter{
			RestrictAssignees: true,
			AssignedToAny:     []primitive.ObjectID{user.ID},
		}
		if entry.PendingTasks, err = s.tasks.Count(ctx, scope.WithStatus(models.StatusPending)); err != nil {
			return nil, err
		}
		if entry.InProgressTasks, err = s.tasks.Count(ctx, scope.WithStatus(models.StatusInProgress)); err != nil {
			return nil, err
		}
		if entry.CompletedTasks, err = s.tasks.Count(ctx, scope.WithStatus(models.StatusCompleted)); err != nil {
			return nil, err
		}
		annotated = append(annotated, entry)
	}
	return annotated, nil
}

func (s *UserService) GetUserByID(ctx context.Context, identity models.Identity, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewUser(identity, user) {
		return nil, models.ErrForbidden
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, identity models.Identity, userID primitive.ObjectID, input UpdateUserInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditUser(identity, user) {
		return nil, models.ErrForbidden
	}

	// Role and department moves change what the target is allowed to see, so
	// they stay admin-only even for callers who may edit the rest.
	if input.Role != nil || input.Department != nil {
		if !policy.CanChangeUserScope(identity.Role) {
			return nil, models.ErrForbidden
		}
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, models.NewValidationError("invalid role: %s", *input.Role)
	}
	if input.Department != nil && !models.IsValidDepartment(*input.Department) {
		return nil, models.NewValidationError("invalid department: %s", *input.Department)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.ProfileImageURL != nil {
		user.ProfileImageURL = *input.ProfileImageURL
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Supervisor != nil {
		user.Supervisor = input.Supervisor
	}
	if input.Password != nil && *input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, identity models.Identity, userID primitive.ObjectID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteUser(identity, user) {
		return models.ErrForbidden
	}
	return s.users.Delete(ctx, userID)
}

// Login checks the credentials and issues a signed token carrying the
// identity claims the middleware later trusts.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
