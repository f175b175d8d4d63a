package models

import "time"

// Role name constants. Role rows are seeded by migrations and read-only at runtime.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// RoleUserID is the roles table id of the default role assigned at registration
const RoleUserID = 1

// User represents a registered user
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the credential
	RegisteredAt time.Time `json:"registeredAt"`
}

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
