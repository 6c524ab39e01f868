package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"go-rbac-service/internal/model"
	"go-rbac-service/internal/service"
	"go-rbac-service/pkg/apierror"
)

type RBACHandler struct {
	service  *service.RBACService
	validate *validator.Validate
}

func NewRBACHandler(service *service.RBACService) *RBACHandler {
	return &RBACHandler{service: service, validate: validator.New()}
}

func (h *RBACHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	role, err := h.service.CreateRole(r.Context(), payload.Name, payload.RoleType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, role)
}

func (h *RBACHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	perm, err := h.service.CreatePermission(r.Context(), payload.Name, payload.PermissionType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, perm)
}

func (h *RBACHandler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	roleID, err := pathID(r, "role_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.GrantPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.GrantPermission(r.Context(), roleID, payload.PermissionID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.RolePermission{RoleID: roleID, PermissionID: payload.PermissionID})
}

func (h *RBACHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.AssignRole(r.Context(), userID, payload.RoleID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.UserRole{UserID: userID, RoleID: payload.RoleID})
}

func (h *RBACHandler) ListRolePermissions(w http.ResponseWriter, r *http.Request) {
	roleID, err := pathID(r, "role_id")
	if err != nil {
		writeError(w, err)
		return
	}

	perms, err := h.service.ListPermissionsForRole(r.Context(), roleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, perms)
}

func (h *RBACHandler) ListUserRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	roles, err := h.service.ListRolesForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, roles)
}

func pathID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("invalid path parameter", param)
	}
	return id, nil
}
