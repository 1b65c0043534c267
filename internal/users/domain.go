// Package users owns the user store: account records, principal
// resolution for the authorization gate, and the aggregate counts shown on
// the admin dashboard.
package users

import (
	"time"

	"github.com/plumecms/plume/internal/authz"
)

// User represents a stored user account.
type User struct {
	ID              int64
	Email           string
	Username        string
	PasswordHash    string
	Role            authz.Role
	IsActive        bool
	IsEmailVerified bool
	IsSuperuser     bool
	DateJoined      time.Time
	UpdatedAt       time.Time
}

// Principal projects the account into the facts the authorization gate
// evaluates.
func (u *User) Principal() *authz.Principal {
	return &authz.Principal{
		ID:              u.ID,
		Email:           u.Email,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		IsSuperuser:     u.IsSuperuser,
	}
}

// RoleCounts aggregates accounts per role for the dashboard.
type RoleCounts struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Admins  int64 `json:"admins"`
	Authors int64 `json:"authors"`
	Readers int64 `json:"readers"`
	Recent  int64 `json:"recent"`
}
