// Package authz implements the access-control gate: principals carrying
// role and verification facts, capability predicates over them, and
// policies that compose predicates into a single allow/deny decision.
package authz

// Role classifies what an account is allowed to do platform-wide.
type Role string

// The role set is closed; every account holds exactly one of these.
const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleReader:
		return true
	}
	return false
}

// Principal captures the identity facts about the acting user that
// authorization decisions depend on. It is assembled from the user store
// per request and never persisted by this package.
type Principal struct {
	ID              int64
	Email           string
	Role            Role
	IsActive        bool
	IsEmailVerified bool
	IsSuperuser     bool
}

// IsAdmin reports whether the principal has administrative power, either
// through the admin role or the superuser flag.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin || p.IsSuperuser
}

// IsAuthor reports whether the principal may author content. Admins are
// always authors.
func (p *Principal) IsAuthor() bool {
	return p.Role == RoleAuthor || p.IsAdmin()
}
