package models

import "github.com/golang-jwt/jwt/v5"

// Staff roles
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
)

// Application permissions
const (
	PermissionMenuWrite   = "menu:write"
	PermissionTokenWrite  = "token:write"
	PermissionOrderWrite  = "order:write"
	PermissionWalletWrite = "wallet:write"
	PermissionWalletRead  = "wallet:read"
)

// StaffClaims are carried by bearer tokens issued to counter staff and managers.
type StaffClaims struct {
	jwt.RegisteredClaims
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *StaffClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleManager:
		return []string{
			PermissionMenuWrite,
			PermissionTokenWrite,
			PermissionOrderWrite,
			PermissionWalletRead,
			PermissionWalletWrite,
		}
	case RoleStaff:
		return []string{
			PermissionMenuWrite,
			PermissionTokenWrite,
			PermissionOrderWrite,
		}
	default:
		return []string{}
	}
}
