package model

// Role is a user's role within an organization
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	RoleSystem Role = "system"
)

// Permission names a guarded operation class
type Permission string

const (
	PermManageBilling Permission = "billing:manage"
	PermManageUsers   Permission = "users:manage"
	PermManageKeys    Permission = "keys:manage"
	PermWriteRecords  Permission = "records:write"
	PermReadRecords   Permission = "records:read"
)

// RolePermissions is the role → permission table checked by middleware
var RolePermissions = map[Role][]Permission{
	RoleOwner:  {PermManageBilling, PermManageUsers, PermManageKeys, PermWriteRecords, PermReadRecords},
	RoleAdmin:  {PermManageUsers, PermManageKeys, PermWriteRecords, PermReadRecords},
	RoleEditor: {PermWriteRecords, PermReadRecords},
	RoleViewer: {PermReadRecords},
	RoleSystem: {PermManageBilling, PermManageUsers, PermManageKeys, PermWriteRecords, PermReadRecords},
}

// IsValid reports whether the role is assignable to a tenant user
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Can reports whether the role carries the given permission
func (r Role) Can(p Permission) bool {
	for _, perm := range RolePermissions[r] {
		if perm == p {
			return true
		}
	}
	return false
}
