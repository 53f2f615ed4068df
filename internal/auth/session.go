// session.go defines the Session value placed in the request context by the
// auth middleware, and the role constants it carries.
package auth

// Roles a session can carry
const (
	RoleAdmin    = "admin"
	RoleSubadmin = "subadmin"
	RoleVendor   = "vendor"
)

// Session identifies an authenticated account for the duration of one request
type Session struct {
	UserID string
	Email  string
	Role   string
}

// IsOperator reports whether the session belongs to an admin console account
func (s *Session) IsOperator() bool {
	return s.Role == RoleAdmin || s.Role == RoleSubadmin
}
