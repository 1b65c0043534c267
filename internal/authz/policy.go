package authz

import (
	"errors"
	"strings"
)

// ErrUnauthenticated is returned when no principal is present. Callers must
// translate this into a redirect to login, never into a 403.
var ErrUnauthenticated = errors.New("authz: unauthenticated")

// ForbiddenError carries the labels of the predicates the principal failed,
// for presentation to the caller.
type ForbiddenError struct {
	Required []string
}

func (e *ForbiddenError) Error() string {
	return "requires " + strings.Join(e.Required, "; ")
}

// Predicate is an atomic boolean rule over a principal and an optional
// resource. Check must be pure: no side effects, deterministic for the
// same inputs. Label feeds the ForbiddenError message.
type Predicate struct {
	Label string
	Check func(p *Principal, resource any) bool
}

// Policy is an ordered AND-composition of predicates.
type Policy struct {
	predicates []Predicate
}

// NewPolicy builds a policy from one or more predicates.
func NewPolicy(predicates ...Predicate) Policy {
	return Policy{predicates: predicates}
}

// Evaluate runs the policy for the given principal and resource.
// It returns nil when every predicate passes, ErrUnauthenticated when the
// principal is nil, and a *ForbiddenError naming every predicate that fails
// from the first failure onward otherwise. Evaluation of the leading
// predicates short-circuits on the first failure; the remaining predicates
// are still consulted so the reported reason covers all unmet requirements.
func (pol Policy) Evaluate(p *Principal, resource any) error {
	if p == nil {
		return ErrUnauthenticated
	}
	for i, pred := range pol.predicates {
		if pred.Check(p, resource) {
			continue
		}
		failed := []string{pred.Label}
		for _, rest := range pol.predicates[i+1:] {
			if !rest.Check(p, resource) {
				failed = append(failed, rest.Label)
			}
		}
		return &ForbiddenError{Required: failed}
	}
	return nil
}

// RoleIn accepts principals whose role is in the given set.
func RoleIn(roles ...Role) Predicate {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return Predicate{
		Label: "role: " + strings.Join(names, ", "),
		Check: func(p *Principal, _ any) bool {
			for _, r := range roles {
				if p.Role == r {
					return true
				}
			}
			return false
		},
	}
}

// EmailVerified accepts principals with a verified email address.
func EmailVerified() Predicate {
	return Predicate{
		Label: "verified email",
		Check: func(p *Principal, _ any) bool {
			return p.IsEmailVerified
		},
	}
}

// Owner accepts the principal that owns the resource, resolved through the
// supplied accessor, or any admin. The accessor is typed to the resource,
// so a policy built for posts cannot silently run against comments: a
// resource of the wrong type fails the predicate.
func Owner[T any](ownerID func(T) int64) Predicate {
	return Predicate{
		Label: "resource ownership",
		Check: func(p *Principal, resource any) bool {
			if p.IsAdmin() {
				return true
			}
			typed, ok := resource.(T)
			if !ok {
				return false
			}
			return ownerID(typed) == p.ID
		},
	}
}
