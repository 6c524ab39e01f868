// Command seed bootstraps the RBAC graph: it creates the baseline
// permissions and an admin role holding them, and assigns that role to an
// existing user. The rbac management endpoints themselves require
// RBAC_ADMIN, so the first grant has to happen out of band.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"go-rbac-service/internal/config"
	"go-rbac-service/internal/database"
	"go-rbac-service/internal/logger"
	"go-rbac-service/internal/repository"
	"go-rbac-service/internal/router"
	"go-rbac-service/pkg/apierror"
)

func main() {
	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(logHandler))

	username := flag.String("admin-user", "", "username to receive the admin role")
	flag.Parse()

	if *username == "" {
		slog.Error("missing required flag", "flag", "-admin-user")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	if err := seed(ctx, db, *username); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}

	slog.Info("seed complete", "admin_user", *username)
}

func seed(ctx context.Context, db *database.DB, username string) error {
	users := repository.NewUserRepository(db.Pool, 5*time.Second)
	rbac := repository.NewRBACRepository(db.Pool, 5*time.Second)

	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	role, err := rbac.CreateRole(ctx, "admin", "system")
	if isDuplicate(err) {
		slog.Info("admin role already present")
		role, err = rbac.FindRoleByName(ctx, "admin")
	}
	if err != nil {
		return err
	}

	for _, permName := range []string{router.PermRBACAdmin, router.PermItemWrite} {
		perm, err := rbac.CreatePermission(ctx, permName, "system")
		if isDuplicate(err) {
			slog.Info("permission already present", "permission", permName)
			perm, err = rbac.FindPermissionByName(ctx, permName)
		}
		if err != nil {
			return err
		}
		if err := rbac.GrantPermission(ctx, role.ID, perm.ID); err != nil && !isDuplicate(err) {
			return err
		}
	}

	if err := rbac.AssignRole(ctx, user.ID, role.ID); err != nil && !isDuplicate(err) {
		return err
	}

	return nil
}

func isDuplicate(err error) bool {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == "DUPLICATE_NAME" || apiErr.Code == "DUPLICATE_EDGE"
}
