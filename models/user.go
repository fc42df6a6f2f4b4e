package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVP     Role = "vp"
	RoleHead   Role = "head"
	RoleMember Role = "member"
)

// IsDepartmentScoped reports whether the role's visibility is limited to its
// own department rather than the whole organisation.
func (r Role) IsDepartmentScoped() bool {
	return r == RoleVP || r == RoleHead
}

// CanManageTasks reports whether the role may create, reassign or delete tasks.
func (r Role) CanManageTasks() bool {
	return r == RoleAdmin || r == RoleVP || r == RoleHead
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleVP, RoleHead, RoleMember:
		return true
	}
	return false
}

// Departments is the fixed set of organisational units. The department field
// on a user may also be empty (unset).
var Departments = []string{
	"COMMUNICATION",
	"FINANCE",
	"DESIGN AND MEDIA",
	"TECH",
	"HOSPITALITY",
	"Other",
}

func IsValidDepartment(department string) bool {
	if department == "" {
		return true
	}
	for _, d := range Departments {
		if d == department {
			return true
		}
	}
	return false
}

// User is a single user document. Supervisor and TeamMembers are informational
// back-references; the department field is what authorization decisions use.
type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name            string               `bson:"name" json:"name"`
	Email           string               `bson:"email" json:"email"`
	Password        string               `bson:"password" json:"-"`
	ProfileImageURL string               `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	Role            Role                 `bson:"role" json:"role"`
	Department      string               `bson:"department,omitempty" json:"department,omitempty"`
	Supervisor      *primitive.ObjectID  `bson:"supervisor,omitempty" json:"supervisor,omitempty"`
	TeamMembers     []primitive.ObjectID `bson:"teamMembers,omitempty" json:"teamMembers,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the assignee projection attached to task responses.
type UserSummary struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	ProfileImageURL string             `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// UserWithTaskCounts is a user list entry annotated with the caller-visible
// task totals per status.
type UserWithTaskCounts struct {
	User
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}
