package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Permission strings attached to roles. The dashboard permissions gate which
// task listing shape a caller may invoke.
const (
	PermissionTaskDashboardView        = "TASK_DASHBOARD_VIEW_V3"
	PermissionTaskDashboardTeacherView = "TASK_DASHBOARD_TEACHER_VIEW_V3"
	PermissionNewsView                 = "NEWS_VIEW"
	PermissionNewsEdit                 = "NEWS_EDIT"
	PermissionUserImport               = "USER_IMPORT"
)

// Role groups the permission strings granted to its users.
type Role struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Permissions datatypes.JSON `gorm:"type:json" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PermissionList decodes the stored permission strings. Invalid or empty
// payloads yield an empty list.
func (r Role) PermissionList() []string {
	if len(r.Permissions) == 0 {
		return []string{}
	}

	var permissions []string
	if err := json.Unmarshal(r.Permissions, &permissions); err != nil {
		return []string{}
	}

	return permissions
}

// HasPermission reports whether the role grants the given permission.
func (r Role) HasPermission(permission string) bool {
	for _, p := range r.PermissionList() {
		if p == permission {
			return true
		}
	}

	return false
}

// User represents an account known to the school backend. Courses, tasks and
// teams reference users by id; a user never owns those entities directly.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:255;not null" json:"first_name"`
	LastName  string    `gorm:"size:255;not null" json:"last_name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	RoleID    uint      `json:"role_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPermission reports whether the user's role grants the permission.
func (u User) HasPermission(permission string) bool {
	return u.Role.HasPermission(permission)
}

// HasOneOfPermissions reports whether the user's role grants at least one of
// the given permissions.
func (u User) HasOneOfPermissions(permissions ...string) bool {
	for _, permission := range permissions {
		if u.HasPermission(permission) {
			return true
		}
	}

	return false
}

// NewPermissions encodes a permission list for storage on a role.
func NewPermissions(permissions ...string) datatypes.JSON {
	payload, err := json.Marshal(permissions)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}

	return datatypes.JSON(payload)
}
