package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-rbac-service/internal/model"
	"go-rbac-service/pkg/apierror"
)

type edge struct{ a, b int64 }

type fakeRBACStore struct {
	nextID      int64
	roles       map[int64]model.Role
	permissions map[int64]model.Permission
	rolePerms   map[edge]bool
	userRoles   map[edge]bool
}

func newFakeRBACStore() *fakeRBACStore {
	return &fakeRBACStore{
		roles:       map[int64]model.Role{},
		permissions: map[int64]model.Permission{},
		rolePerms:   map[edge]bool{},
		userRoles:   map[edge]bool{},
	}
}

func (s *fakeRBACStore) CreateRole(_ context.Context, name string, roleType string) (model.Role, error) {
	name = strings.TrimSpace(name)
	for _, r := range s.roles {
		if r.Name == name {
			return model.Role{}, apierror.DuplicateName("role name already exists", name)
		}
	}
	s.nextID++
	role := model.Role{ID: s.nextID, Name: name, RoleType: strings.TrimSpace(roleType)}
	s.roles[role.ID] = role
	return role, nil
}

func (s *fakeRBACStore) CreatePermission(_ context.Context, name string, permissionType string) (model.Permission, error) {
	name = strings.TrimSpace(name)
	for _, p := range s.permissions {
		if p.Name == name {
			return model.Permission{}, apierror.DuplicateName("permission name already exists", name)
		}
	}
	s.nextID++
	perm := model.Permission{ID: s.nextID, Name: name, PermissionType: strings.TrimSpace(permissionType)}
	s.permissions[perm.ID] = perm
	return perm, nil
}

func (s *fakeRBACStore) GrantPermission(_ context.Context, roleID int64, permissionID int64) error {
	if _, ok := s.roles[roleID]; !ok {
		return apierror.BadRequest("unknown role or permission", "")
	}
	if _, ok := s.permissions[permissionID]; !ok {
		return apierror.BadRequest("unknown role or permission", "")
	}
	e := edge{roleID, permissionID}
	if s.rolePerms[e] {
		return apierror.DuplicateEdge("permission already granted to role", "")
	}
	s.rolePerms[e] = true
	return nil
}

func (s *fakeRBACStore) AssignRole(_ context.Context, userID int64, roleID int64) error {
	if _, ok := s.roles[roleID]; !ok {
		return apierror.BadRequest("unknown user or role", "")
	}
	e := edge{userID, roleID}
	if s.userRoles[e] {
		return apierror.DuplicateEdge("role already assigned to user", "")
	}
	s.userRoles[e] = true
	return nil
}

func (s *fakeRBACStore) HasPermission(_ context.Context, userID int64, permission string) (bool, error) {
	for ur := range s.userRoles {
		if ur.a != userID {
			continue
		}
		for rp := range s.rolePerms {
			if rp.a != ur.b {
				continue
			}
			if s.permissions[rp.b].Name == permission {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *fakeRBACStore) ListPermissionsForRole(_ context.Context, roleID int64) ([]model.Permission, error) {
	perms := make([]model.Permission, 0)
	for rp := range s.rolePerms {
		if rp.a == roleID {
			perms = append(perms, s.permissions[rp.b])
		}
	}
	return perms, nil
}

func (s *fakeRBACStore) ListRolesForUser(_ context.Context, userID int64) ([]model.Role, error) {
	roles := make([]model.Role, 0)
	for ur := range s.userRoles {
		if ur.a == userID {
			roles = append(roles, s.roles[ur.b])
		}
	}
	return roles, nil
}

func TestHasPermissionUnionAcrossRoles(t *testing.T) {
	ctx := context.Background()
	store := newFakeRBACStore()
	svc := NewRBACService(store)

	editor, err := svc.CreateRole(ctx, "editor", "staff")
	require.NoError(t, err)
	auditor, err := svc.CreateRole(ctx, "auditor", "staff")
	require.NoError(t, err)

	write, err := svc.CreatePermission(ctx, "ITEM_WRITE", "item")
	require.NoError(t, err)
	read, err := svc.CreatePermission(ctx, "ITEM_READ", "item")
	require.NoError(t, err)

	require.NoError(t, svc.GrantPermission(ctx, editor.ID, write.ID))
	require.NoError(t, svc.GrantPermission(ctx, auditor.ID, read.ID))

	const alice int64 = 100
	require.NoError(t, svc.AssignRole(ctx, alice, editor.ID))
	require.NoError(t, svc.AssignRole(ctx, alice, auditor.ID))

	for _, perm := range []string{"ITEM_WRITE", "ITEM_READ"} {
		granted, err := svc.HasPermission(ctx, alice, perm)
		require.NoError(t, err)
		assert.True(t, granted, perm)
	}

	granted, err := svc.HasPermission(ctx, alice, "ITEM_DELETE")
	require.NoError(t, err)
	assert.False(t, granted)

	// A user with no roles holds nothing.
	granted, err = svc.HasPermission(ctx, 999, "ITEM_WRITE")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestDuplicateGrantSurfacesDuplicateEdge(t *testing.T) {
	ctx := context.Background()
	store := newFakeRBACStore()
	svc := NewRBACService(store)

	role, err := svc.CreateRole(ctx, "editor", "")
	require.NoError(t, err)
	perm, err := svc.CreatePermission(ctx, "ITEM_WRITE", "")
	require.NoError(t, err)

	require.NoError(t, svc.GrantPermission(ctx, role.ID, perm.ID))

	err = svc.GrantPermission(ctx, role.ID, perm.ID)
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "DUPLICATE_EDGE", apiErr.Code)

	// The duplicate attempt leaves the effective permission set unchanged.
	perms, err := svc.ListPermissionsForRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Len(t, perms, 1)
}

func TestCreateRoleRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := NewRBACService(newFakeRBACStore())

	_, err := svc.CreateRole(ctx, "editor", "")
	require.NoError(t, err)

	_, err = svc.CreateRole(ctx, "editor", "other")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "DUPLICATE_NAME", apiErr.Code)
}

func TestCreateRoleRequiresName(t *testing.T) {
	ctx := context.Background()
	svc := NewRBACService(newFakeRBACStore())

	_, err := svc.CreateRole(ctx, "  ", "")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestHasPermissionShortCircuitsOnEmptyInput(t *testing.T) {
	ctx := context.Background()
	svc := NewRBACService(newFakeRBACStore())

	granted, err := svc.HasPermission(ctx, 0, "ITEM_WRITE")
	require.NoError(t, err)
	assert.False(t, granted)

	granted, err = svc.HasPermission(ctx, 1, "   ")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestListsReturnEmptyNotError(t *testing.T) {
	ctx := context.Background()
	svc := NewRBACService(newFakeRBACStore())

	perms, err := svc.ListPermissionsForRole(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, perms)

	roles, err := svc.ListRolesForUser(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, roles)
}
