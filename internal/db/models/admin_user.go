// admin_user.go defines operator accounts for the admin console. The role
// column distinguishes full admins from subadmins, who cannot manage other
// operator accounts.
package models

import "time"

// Operator roles
const (
	RoleAdmin    = "admin"
	RoleSubadmin = "subadmin"
)

// AdminUser represents an operator account
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
