package policy

import (
	"testing"

	"github.com/Devanshi-cloud/ias-management/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanAccessTask(t *testing.T) {
	inDept := primitive.NewObjectID()
	outDept := primitive.NewObjectID()
	caller := primitive.NewObjectID()
	members := NewIDSet(inDept)

	cases := []struct {
		name     string
		identity models.Identity
		task     models.Task
		want     bool
	}{
		{
			"admin sees everything",
			models.Identity{ID: caller, Role: models.RoleAdmin},
			models.Task{AssignedTo: []primitive.ObjectID{outDept}},
			true,
		},
		{
			"head with in-department assignee",
			models.Identity{ID: caller, Role: models.RoleHead, Department: "TECH"},
			models.Task{AssignedTo: []primitive.ObjectID{outDept, inDept}},
			true,
		},
		{
			"vp with no in-department assignee",
			models.Identity{ID: caller, Role: models.RoleVP, Department: "TECH"},
			models.Task{AssignedTo: []primitive.ObjectID{outDept}},
			false,
		},
		{
			"member assigned to the task",
			models.Identity{ID: caller, Role: models.RoleMember},
			models.Task{AssignedTo: []primitive.ObjectID{caller, outDept}},
			true,
		},
		{
			"member not assigned",
			models.Identity{ID: caller, Role: models.RoleMember},
			models.Task{AssignedTo: []primitive.ObjectID{outDept}},
			false,
		},
		{
			"member with unassigned task",
			models.Identity{ID: caller, Role: models.RoleMember},
			models.Task{},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessTask(tc.identity, &tc.task, members); got != tc.want {
				t.Errorf("CanAccessTask() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanDeleteTaskNeverForMembers(t *testing.T) {
	caller := primitive.NewObjectID()
	identity := models.Identity{ID: caller, Role: models.RoleMember}
	task := models.Task{AssignedTo: []primitive.ObjectID{caller}}

	if CanDeleteTask(identity, &task, nil) {
		t.Error("assigned member must not be able to delete a task")
	}
}

func TestValidateAssignees(t *testing.T) {
	inDept := primitive.NewObjectID()
	outDept := primitive.NewObjectID()
	members := NewIDSet(inDept)

	head := models.Identity{Role: models.RoleHead, Department: "TECH"}
	admin := models.Identity{Role: models.RoleAdmin}

	if err := ValidateAssignees(head, nil, members); err == nil {
		t.Error("empty assignee set must be rejected")
	} else if !models.IsValidationError(err) {
		t.Errorf("want ValidationError, got %v", err)
	}

	if err := ValidateAssignees(admin, []primitive.ObjectID{outDept}, nil); err != nil {
		t.Errorf("admin assignment failed: %v", err)
	}

	if err := ValidateAssignees(head, []primitive.ObjectID{inDept}, members); err != nil {
		t.Errorf("in-department assignment failed: %v", err)
	}

	// a single outside id rejects the whole set
	err := ValidateAssignees(head, []primitive.ObjectID{inDept, outDept}, members)
	if err == nil {
		t.Fatal("cross-department assignment must be rejected")
	}
	if !models.IsValidationError(err) {
		t.Errorf("want ValidationError, got %v", err)
	}
}

func TestUserVisibilityRules(t *testing.T) {
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()

	vp := models.Identity{ID: self, Role: models.RoleVP, Department: "FINANCE"}
	member := models.Identity{ID: self, Role: models.RoleMember}

	sameDept := models.User{ID: other, Role: models.RoleMember, Department: "FINANCE"}
	otherDept := models.User{ID: other, Role: models.RoleMember, Department: "TECH"}
	sameDeptHead := models.User{ID: other, Role: models.RoleHead, Department: "FINANCE"}

	if !CanViewUser(vp, &sameDept) {
		t.Error("vp must see same-department users")
	}
	if CanViewUser(vp, &otherDept) {
		t.Error("vp must not see other departments")
	}
	if !CanViewUser(member, &models.User{ID: self}) {
		t.Error("member must see their own record")
	}
	if CanViewUser(member, &sameDept) {
		t.Error("member must not see other users")
	}

	// deletion is narrower than visibility
	if !CanDeleteUser(vp, &sameDept) {
		t.Error("vp must be able to delete same-department members")
	}
	if CanDeleteUser(vp, &sameDeptHead) {
		t.Error("vp must not delete a same-department head")
	}
	if CanDeleteUser(member, &models.User{ID: self}) {
		t.Error("members must not delete accounts")
	}

	if CanChangeUserScope(models.RoleHead) || CanChangeUserScope(models.RoleVP) {
		t.Error("role/department changes are admin-only")
	}
	if !CanChangeUserScope(models.RoleAdmin) {
		t.Error("admin must be able to change role/department")
	}
}

func TestDepartmentScopedCallerWithoutDepartment(t *testing.T) {
	vp := models.Identity{ID: primitive.NewObjectID(), Role: models.RoleVP}
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleMember, Department: "TECH"}

	if CanViewUser(vp, &user) {
		t.Error("vp without a department must not match any department")
	}
	if CanDeleteUser(vp, &user) {
		t.Error("vp without a department must not delete users")
	}
}
