package domain

import "time"

// Session binds an opaque token to a user identity. Role and Department are
// joined live from the user row at resolution time, not snapshotted at issue.
type Session struct {
	Token      string
	Username   string
	CreatedAt  time.Time
	Role       Role
	Department string
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
