package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-rbac-service/internal/model"
	"go-rbac-service/pkg/apierror"
)

type RBACRepository struct {
	pool      *pgxpool.Pool
	opTimeout time.Duration
}

func NewRBACRepository(pool *pgxpool.Pool, opTimeout time.Duration) *RBACRepository {
	return &RBACRepository{pool: pool, opTimeout: opTimeout}
}

func (r *RBACRepository) CreateRole(ctx context.Context, name string, roleType string) (model.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var role model.Role
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, role_type) VALUES ($1, $2)
		 RETURNING id, name, role_type`,
		strings.TrimSpace(name), strings.TrimSpace(roleType)).
		Scan(&role.ID, &role.Name, &role.RoleType)

	if isUniqueViolation(err) {
		return model.Role{}, apierror.DuplicateName("role name already exists", name)
	}
	if err != nil {
		return model.Role{}, wrapStoreErr("create role", err)
	}
	return role, nil
}

func (r *RBACRepository) CreatePermission(ctx context.Context, name string, permissionType string) (model.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var perm model.Permission
	err := r.pool.QueryRow(ctx,
		`INSERT INTO permissions (name, permission_type) VALUES ($1, $2)
		 RETURNING id, name, permission_type`,
		strings.TrimSpace(name), strings.TrimSpace(permissionType)).
		Scan(&perm.ID, &perm.Name, &perm.PermissionType)

	if isUniqueViolation(err) {
		return model.Permission{}, apierror.DuplicateName("permission name already exists", name)
	}
	if err != nil {
		return model.Permission{}, wrapStoreErr("create permission", err)
	}
	return perm, nil
}

func (r *RBACRepository) FindRoleByName(ctx context.Context, name string) (model.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var role model.Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, role_type FROM roles WHERE name = $1`,
		strings.TrimSpace(name)).
		Scan(&role.ID, &role.Name, &role.RoleType)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Role{}, apierror.NotFound("role not found", name)
	}
	if err != nil {
		return model.Role{}, wrapStoreErr("find role by name", err)
	}
	return role, nil
}

func (r *RBACRepository) FindPermissionByName(ctx context.Context, name string) (model.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var perm model.Permission
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, permission_type FROM permissions WHERE name = $1`,
		strings.TrimSpace(name)).
		Scan(&perm.ID, &perm.Name, &perm.PermissionType)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Permission{}, apierror.NotFound("permission not found", name)
	}
	if err != nil {
		return model.Permission{}, wrapStoreErr("find permission by name", err)
	}
	return perm, nil
}

func (r *RBACRepository) GrantPermission(ctx context.Context, roleID int64, permissionID int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`,
		roleID, permissionID)

	if isUniqueViolation(err) {
		return apierror.DuplicateEdge("permission already granted to role", "")
	}
	if isForeignKeyViolation(err) {
		return apierror.BadRequest("unknown role or permission", "")
	}
	if err != nil {
		return wrapStoreErr("grant permission", err)
	}
	return nil
}

func (r *RBACRepository) AssignRole(ctx context.Context, userID int64, roleID int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users_roles (user_id, role_id) VALUES ($1, $2)`,
		userID, roleID)

	if isUniqueViolation(err) {
		return apierror.DuplicateEdge("role already assigned to user", "")
	}
	if isForeignKeyViolation(err) {
		return apierror.BadRequest("unknown user or role", "")
	}
	if err != nil {
		return wrapStoreErr("assign role", err)
	}
	return nil
}

// HasPermission answers the per-request authorization check with a single
// EXISTS semi-join through both edge tables: one round trip regardless of
// how many roles the user holds. Permission names match exactly.
func (r *RBACRepository) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var granted bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1
			FROM users_roles ur
			JOIN role_permissions rp ON rp.role_id = ur.role_id
			JOIN permissions p ON p.id = rp.permission_id
			WHERE ur.user_id = $1 AND p.name = $2
		)`, userID, permission).Scan(&granted)

	if err != nil {
		return false, wrapStoreErr("check permission", err)
	}
	return granted, nil
}

func (r *RBACRepository) ListPermissionsForRole(ctx context.Context, roleID int64) ([]model.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.permission_type
		 FROM role_permissions rp
		 JOIN permissions p ON p.id = rp.permission_id
		 WHERE rp.role_id = $1
		 ORDER BY p.name`, roleID)
	if err != nil {
		return nil, wrapStoreErr("list permissions for role", err)
	}
	defer rows.Close()

	perms := make([]model.Permission, 0)
	for rows.Next() {
		var p model.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.PermissionType); err != nil {
			return nil, wrapStoreErr("scan permission", err)
		}
		perms = append(perms, p)
	}
	return perms, wrapStoreErr("list permissions for role", rows.Err())
}

func (r *RBACRepository) ListRolesForUser(ctx context.Context, userID int64) ([]model.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT ro.id, ro.name, ro.role_type
		 FROM users_roles ur
		 JOIN roles ro ON ro.id = ur.role_id
		 WHERE ur.user_id = $1
		 ORDER BY ro.name`, userID)
	if err != nil {
		return nil, wrapStoreErr("list roles for user", err)
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var ro model.Role
		if err := rows.Scan(&ro.ID, &ro.Name, &ro.RoleType); err != nil {
			return nil, wrapStoreErr("scan role", err)
		}
		roles = append(roles, ro)
	}
	return roles, wrapStoreErr("list roles for user", rows.Err())
}
