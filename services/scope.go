package services

import (
	"context"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/Devanshi-cloud/ias-management/policy"
	"github.com/Devanshi-cloud/ias-management/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resolveBaseFilter maps the caller's role onto the task query predicate that
// bounds everything they can see. The same resolution backs the task listing,
// its status summary and the dashboards, so the numbers cannot drift apart.
//
// For department-scoped roles the returned set holds the department member
// ids, for use in single-resource checks.
func resolveBaseFilter(ctx context.Context, users repositories.UserRepository, identity models.Identity) (repositories.TaskFilter, policy.IDSet, error) {
	switch identity.Role {
	case models.RoleAdmin:
		return repositories.TaskFilter{}, nil, nil

	case models.RoleVP, models.RoleHead:
		if identity.Department == "" {
			return repositories.TaskFilter{}, nil, models.NewValidationError("no department is set for this account")
		}
		members, err := users.Find(ctx, repositories.UserFilter{Department: identity.Department})
		if err != nil {
			return repositories.TaskFilter{}, nil, err
		}
		ids := make([]primitive.ObjectID, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		return repositories.TaskFilter{
			RestrictAssignees: true,
			AssignedToAny:     ids,
		}, policy.UserIDSet(members), nil

	default:
		return repositories.TaskFilter{
			RestrictAssignees: true,
			AssignedToAny:     []primitive.ObjectID{identity.ID},
		}, nil, nil
	}
}

// departmentMemberSet resolves the caller's department member ids for
// single-resource authorization. Non-scoped roles need no set; a scoped
// caller without a department gets an empty set and so matches nothing.
func departmentMemberSet(ctx context.Context, users repositories.UserRepository, identity models.Identity) (policy.IDSet, error) {
	if !identity.Role.IsDepartmentScoped() || identity.Department == "" {
		return nil, nil
	}
	members, err := users.Find(ctx, repositories.UserFilter{Department: identity.Department})
	if err != nil {
		return nil, err
	}
	return policy.UserIDSet(members), nil
}
