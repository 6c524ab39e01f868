package model

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,max=255"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type CreateRoleRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	RoleType string `json:"role_type" validate:"max=255"`
}

type CreatePermissionRequest struct {
	Name           string `json:"name" validate:"required,max=255"`
	PermissionType string `json:"permission_type" validate:"max=255"`
}

type GrantPermissionRequest struct {
	PermissionID int64 `json:"permission_id" validate:"required,gt=0"`
}

type AssignRoleRequest struct {
	RoleID int64 `json:"role_id" validate:"required,gt=0"`
}

type ItemRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}
