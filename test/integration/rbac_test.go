//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-rbac-service/internal/database"
	"go-rbac-service/internal/repository"
	"go-rbac-service/pkg/apierror"
)

const opTimeout = 5 * time.Second

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, databaseURL, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

// unique produces names that survive reruns against a shared database.
func unique(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func apiCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Code
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db.Pool, opTimeout)
	ctx := context.Background()

	username := unique("alice")
	created, err := users.Create(ctx, username, "$2a$04$fakehashfakehashfakehash")
	require.NoError(t, err)
	require.Positive(t, created.ID)

	found, err := users.FindByUsername(ctx, username)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = users.Create(ctx, username, "$2a$04$otherhashotherhashotherh")
	require.Equal(t, "DUPLICATE_NAME", apiCode(t, err))

	_, err = users.FindByID(ctx, -1)
	require.Equal(t, "NOT_FOUND", apiCode(t, err))
}

func TestRoleAndPermissionUniqueness(t *testing.T) {
	db := newTestDB(t)
	rbac := repository.NewRBACRepository(db.Pool, opTimeout)
	ctx := context.Background()

	roleName := unique("editor")
	_, err := rbac.CreateRole(ctx, roleName, "staff")
	require.NoError(t, err)
	_, err = rbac.CreateRole(ctx, roleName, "staff")
	require.Equal(t, "DUPLICATE_NAME", apiCode(t, err))

	permName := unique("ITEM_READ")
	_, err = rbac.CreatePermission(ctx, permName, "item")
	require.NoError(t, err)
	_, err = rbac.CreatePermission(ctx, permName, "item")
	require.Equal(t, "DUPLICATE_NAME", apiCode(t, err))
}

func TestGrantAssignAndPermissionLookup(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepository(db.Pool, opTimeout)
	rbac := repository.NewRBACRepository(db.Pool, opTimeout)
	ctx := context.Background()

	user, err := users.Create(ctx, unique("bob"), "$2a$04$fakehashfakehashfakehash")
	require.NoError(t, err)

	role, err := rbac.CreateRole(ctx, unique("auditor"), "staff")
	require.NoError(t, err)
	perm, err := rbac.CreatePermission(ctx, unique("REPORT_VIEW"), "report")
	require.NoError(t, err)

	has, err := rbac.HasPermission(ctx, user.ID, perm.Name)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, rbac.GrantPermission(ctx, role.ID, perm.ID))
	require.NoError(t, rbac.AssignRole(ctx, user.ID, role.ID))

	has, err = rbac.HasPermission(ctx, user.ID, perm.Name)
	require.NoError(t, err)
	require.True(t, has)

	// Second identical edges are rejected and leave the graph unchanged.
	err = rbac.GrantPermission(ctx, role.ID, perm.ID)
	require.Equal(t, "DUPLICATE_EDGE", apiCode(t, err))
	err = rbac.AssignRole(ctx, user.ID, role.ID)
	require.Equal(t, "DUPLICATE_EDGE", apiCode(t, err))

	perms, err := rbac.ListPermissionsForRole(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	require.Equal(t, perm.Name, perms[0].Name)

	roles, err := rbac.ListRolesForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, role.Name, roles[0].Name)
}

func TestGrantToMissingRowsIsBadRequest(t *testing.T) {
	db := newTestDB(t)
	rbac := repository.NewRBACRepository(db.Pool, opTimeout)
	ctx := context.Background()

	err := rbac.GrantPermission(ctx, -1, -2)
	require.Equal(t, "BAD_REQUEST", apiCode(t, err))

	err = rbac.AssignRole(ctx, -1, -2)
	require.Equal(t, "BAD_REQUEST", apiCode(t, err))
}

func TestListEndpointsReturnEmptySlices(t *testing.T) {
	db := newTestDB(t)
	rbac := repository.NewRBACRepository(db.Pool, opTimeout)
	ctx := context.Background()

	role, err := rbac.CreateRole(ctx, unique("empty"), "staff")
	require.NoError(t, err)

	perms, err := rbac.ListPermissionsForRole(ctx, role.ID)
	require.NoError(t, err)
	require.NotNil(t, perms)
	require.Empty(t, perms)

	roles, err := rbac.ListRolesForUser(ctx, int64(1<<40))
	require.NoError(t, err)
	require.NotNil(t, roles)
	require.Empty(t, roles)
}

func TestOperationTimeoutSurfacesUnavailable(t *testing.T) {
	db := newTestDB(t)
	// A timeout too small for any round trip must fail fast, not hang.
	rbac := repository.NewRBACRepository(db.Pool, time.Nanosecond)

	_, err := rbac.HasPermission(context.Background(), 1, "ANY")
	require.Error(t, err)

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		require.Equal(t, "UNAVAILABLE", apiErr.Code)
	}
}
