// Package membership defines the user-to-tenant link and the role model.
package membership

import "time"

// Role is the integer authorization level stored on a membership.
type Role int

const (
	RoleMember     Role = 0
	RoleAdmin      Role = 1
	RoleOwner      Role = 2
	RoleSuperadmin Role = 3
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r >= RoleMember && r <= RoleSuperadmin
}

// String returns the human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	case RoleSuperadmin:
		return "superadmin"
	default:
		return "unknown"
	}
}

// Membership links a user to exactly one tenant with a role.
type Membership struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is the authenticated caller resolved once per request:
// the user identity plus their tenant membership.
type Principal struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id"`
	Role     Role   `json:"role"`
}
