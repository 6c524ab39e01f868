package service

import (
	"context"
	"strings"

	"go-rbac-service/internal/model"
	"go-rbac-service/pkg/apierror"
)

// RBACStore is the persistence contract for the role/permission graph.
type RBACStore interface {
	CreateRole(ctx context.Context, name string, roleType string) (model.Role, error)
	CreatePermission(ctx context.Context, name string, permissionType string) (model.Permission, error)
	GrantPermission(ctx context.Context, roleID int64, permissionID int64) error
	AssignRole(ctx context.Context, userID int64, roleID int64) error
	HasPermission(ctx context.Context, userID int64, permission string) (bool, error)
	ListPermissionsForRole(ctx context.Context, roleID int64) ([]model.Permission, error)
	ListRolesForUser(ctx context.Context, userID int64) ([]model.Role, error)
}

type RBACService struct {
	store RBACStore
}

func NewRBACService(store RBACStore) *RBACService {
	return &RBACService{store: store}
}

func (s *RBACService) CreateRole(ctx context.Context, name string, roleType string) (model.Role, error) {
	if strings.TrimSpace(name) == "" {
		return model.Role{}, apierror.BadRequest("role name is required", "")
	}
	return s.store.CreateRole(ctx, name, roleType)
}

func (s *RBACService) CreatePermission(ctx context.Context, name string, permissionType string) (model.Permission, error) {
	if strings.TrimSpace(name) == "" {
		return model.Permission{}, apierror.BadRequest("permission name is required", "")
	}
	return s.store.CreatePermission(ctx, name, permissionType)
}

func (s *RBACService) GrantPermission(ctx context.Context, roleID int64, permissionID int64) error {
	if roleID <= 0 || permissionID <= 0 {
		return apierror.BadRequest("role_id and permission_id must be positive", "")
	}
	return s.store.GrantPermission(ctx, roleID, permissionID)
}

func (s *RBACService) AssignRole(ctx context.Context, userID int64, roleID int64) error {
	if userID <= 0 || roleID <= 0 {
		return apierror.BadRequest("user_id and role_id must be positive", "")
	}
	return s.store.AssignRole(ctx, userID, roleID)
}

// HasPermission reports whether any role assigned to the user carries the
// named permission. The effective permission set is never materialized; each
// check is a single store round trip.
func (s *RBACService) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	permission = strings.TrimSpace(permission)
	if userID <= 0 || permission == "" {
		return false, nil
	}
	return s.store.HasPermission(ctx, userID, permission)
}

func (s *RBACService) ListPermissionsForRole(ctx context.Context, roleID int64) ([]model.Permission, error) {
	return s.store.ListPermissionsForRole(ctx, roleID)
}

func (s *RBACService) ListRolesForUser(ctx context.Context, userID int64) ([]model.Role, error) {
	return s.store.ListRolesForUser(ctx, userID)
}
