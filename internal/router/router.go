package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-rbac-service/internal/config"
	"go-rbac-service/internal/handler"
	"go-rbac-service/internal/middleware"
)

// Permission names checked by the gate. RBACAdmin guards every rbac
// management route; ItemWrite guards item mutations.
const (
	PermRBACAdmin = "RBAC_ADMIN"
	PermItemWrite = "ITEM_WRITE"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	rbacHandler *handler.RBACHandler,
	itemHandler *handler.ItemHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.With(authMiddleware.RequirePermission(middleware.AuthenticatedOnly)).Get("/me", authHandler.Me)
		})

		api.Route("/rbac", func(rbac chi.Router) {
			rbac.Use(authMiddleware.RequirePermission(PermRBACAdmin))
			rbac.Post("/roles", rbacHandler.CreateRole)
			rbac.Post("/permissions", rbacHandler.CreatePermission)
			rbac.Post("/roles/{role_id}/permissions", rbacHandler.GrantPermission)
			rbac.Get("/roles/{role_id}/permissions", rbacHandler.ListRolePermissions)
			rbac.Post("/users/{user_id}/roles", rbacHandler.AssignRole)
			rbac.Get("/users/{user_id}/roles", rbacHandler.ListUserRoles)
		})

		api.With(authMiddleware.RequirePermission(middleware.AuthenticatedOnly)).Get("/items", itemHandler.List)
		api.With(authMiddleware.RequirePermission(PermItemWrite)).Post("/items", itemHandler.Create)
		api.With(authMiddleware.RequirePermission(PermItemWrite)).Put("/items/{id}", itemHandler.Update)
		api.With(authMiddleware.RequirePermission(PermItemWrite)).Delete("/items/{id}", itemHandler.Delete)
	})

	return r
}
