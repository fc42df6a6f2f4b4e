// Package policy centralises every visibility and mutation rule so that the
// task and user paths cannot drift apart. All functions are pure: department
// membership is resolved by the caller and handed in as a set.
package policy

import (
	"github.com/Devanshi-cloud/ias-management/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDSet is a lookup set of user ids, usually the members of a department.
type IDSet map[primitive.ObjectID]struct{}

func NewIDSet(ids ...primitive.ObjectID) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func UserIDSet(users []models.User) IDSet {
	set := make(IDSet, len(users))
	for _, u := range users {
		set[u.ID] = struct{}{}
	}
	return set
}

func (s IDSet) Contains(id primitive.ObjectID) bool {
	_, ok := s[id]
	return ok
}

// CanCreateTasks reports whether the role may create tasks at all.
func CanCreateTasks(role models.Role) bool {
	return role.CanManageTasks()
}

// CanAccessTask is the single-resource check: a disjunction over the
// caller's role. One department or assignment match is sufficient.
func CanAccessTask(identity models.Identity, task *models.Task, departmentMembers IDSet) bool {
	switch identity.Role {
	case models.RoleAdmin:
		return true
	case models.RoleVP, models.RoleHead:
		for _, assignee := range task.AssignedTo {
			if departmentMembers.Contains(assignee) {
				return true
			}
		}
		return false
	case models.RoleMember:
		return task.IsAssignedTo(identity.ID)
	}
	return false
}

// CanDeleteTask allows admins everywhere and vp/head for tasks scoped to
// their department. Members never delete.
func CanDeleteTask(identity models.Identity, task *models.Task, departmentMembers IDSet) bool {
	if identity.Role == models.RoleMember {
		return false
	}
	return CanAccessTask(identity, task, departmentMembers)
}

// ValidateAssignees checks an assignedTo set for create or reassignment. The
// set must be non-empty, and a department-scoped caller must stay inside the
// department member set: a single outside id rejects the whole operation.
func ValidateAssignees(identity models.Identity, assignees []primitive.ObjectID, departmentMembers IDSet) error {
	if len(assignees) == 0 {
		return models.NewValidationError("assignedTo must be a non-empty array of user IDs")
	}
	if identity.Role.IsDepartmentScoped() {
		for _, id := range assignees {
			if !departmentMembers.Contains(id) {
				return models.NewValidationError("user %s is not a member of the %s department", id.Hex(), identity.Department)
			}
		}
	}
	return nil
}

// CanViewUser applies the user-record analogue of the task visibility rules.
func CanViewUser(identity models.Identity, user *models.User) bool {
	switch identity.Role {
	case models.RoleAdmin:
		return true
	case models.RoleVP, models.RoleHead:
		return identity.Department != "" && user.Department == identity.Department
	case models.RoleMember:
		return user.ID == identity.ID
	}
	return false
}

// CanEditUser mirrors CanViewUser; whether individual fields may change is a
// separate question answered by CanChangeUserScope.
func CanEditUser(identity models.Identity, user *models.User) bool {
	return CanViewUser(identity, user)
}

// CanDeleteUser allows admins to delete anyone and vp/head to delete member
// accounts inside their own department.
func CanDeleteUser(identity models.Identity, user *models.User) bool {
	switch identity.Role {
	case models.RoleAdmin:
		return true
	case models.RoleVP, models.RoleHead:
		return identity.Department != "" &&
			user.Department == identity.Department &&
			user.Role == models.RoleMember
	}
	return false
}

// CanChangeUserScope reports whether the caller may change a user's role or
// department. Only admins may; a vp/head rejection applies even when the
// caller is otherwise allowed to edit the user.
func CanChangeUserScope(role models.Role) bool {
	return role == models.RoleAdmin
}
