package models

import "slices"

// SessionContext is the per-request identity carrier. It is built by the
// login handler from verified credentials plus the user's role set, held
// in the session store for the lifetime of the session, and passed
// explicitly into service calls that need an identity. A nil
// SessionContext means the request is anonymous.
type SessionContext struct {
	UserID int      `json:"userId"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
}

// HasRole reports whether the identity holds the named role
func (s *SessionContext) HasRole(role string) bool {
	return s != nil && slices.Contains(s.Roles, role)
}
