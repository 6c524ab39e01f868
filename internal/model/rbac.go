package model

type Role struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	RoleType string `json:"role_type"`
}

type Permission struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	PermissionType string `json:"permission_type"`
}

// RolePermission is a role->permission edge; the composite key is the payload.
type RolePermission struct {
	RoleID       int64 `json:"role_id"`
	PermissionID int64 `json:"permission_id"`
}

// UserRole is a user->role edge.
type UserRole struct {
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
}
