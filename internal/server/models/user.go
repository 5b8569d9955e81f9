// Package models defines server-side data models persisted in the database.
package models

import "time"

// User roles. PRO covers real-estate agents and contractors.
const (
	RoleHomeowner = "HOMEOWNER"
	RolePro       = "PRO"
	RoleAdmin     = "ADMIN"
)

// User is an authenticated principal.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	// LastHomeID remembers the home the user most recently claimed or
	// opened, so the UI can land there after login. Empty when unset.
	LastHomeID string
	CreatedAt  time.Time
}

// RefreshToken is an opaque, server-stored token exchanged for a new
// access/refresh pair.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
