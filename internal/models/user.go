package models

import "strings"

// AdminMarker is the reserved substring that grants the admin role.
const AdminMarker = "admin"

// User is an account record. The admin role is not part of it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is a materialized signed-in user.
// IsAdmin is recomputed from the email on every materialization and never persisted.
type Session struct {
	User    User `json:"user"`
	IsAdmin bool `json:"isAdmin"`
}

// IsAdmin reports whether email carries the admin marker, ignoring case.
func IsAdmin(email string) bool {
	return strings.Contains(strings.ToLower(email), AdminMarker)
}

func NewSession(u User) *Session {
	return &Session{User: u, IsAdmin: IsAdmin(u.Email)}
}
