package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/plumecms/plume/internal/shared"
)

// LoginPath is where unauthenticated requests are redirected.
const LoginPath = "/login"

// PrincipalResolver loads the principal facts for a logged-in user ID.
type PrincipalResolver interface {
	Principal(ctx context.Context, userID int64) (*Principal, error)
}

// ResourceResolver loads the resource a policy's ownership predicates run
// against. A shared.ErrNotFound result maps to 404, never to 403.
type ResourceResolver func(r *http.Request) (any, error)

// Middleware evaluates policies at handler mount sites. The policy appears
// at the call site rather than inside the handler so the authorization
// contract of each route stays visible where the route is declared.
type Middleware struct {
	Resolver PrincipalResolver
	Logger   *slog.Logger
}

// Require guards a subtree with a policy that needs no resource.
func (m Middleware) Require(policy Policy) func(http.Handler) http.Handler {
	return m.guard(policy, nil)
}

// RequireResource guards a subtree with a policy evaluated against a
// resolved resource. The resolved resource is not stored; handlers that
// need it perform their own lookup.
func (m Middleware) RequireResource(policy Policy, resolve ResourceResolver) func(http.Handler) http.Handler {
	return m.guard(policy, resolve)
}

func (m Middleware) guard(policy Policy, resolve ResourceResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := m.currentPrincipal(r)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("resolve principal", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			// Anonymous requests are turned away before the resource is
			// touched: the redirect must not depend on whether the resource
			// exists, and anonymous clients must not learn which IDs do.
			if principal == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			var resource any
			if resolve != nil {
				resource, err = resolve(r)
				if err != nil {
					if errors.Is(err, shared.ErrNotFound) {
						http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
						return
					}
					if m.Logger != nil {
						m.Logger.Error("resolve resource", slog.Any("error", err))
					}
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}

			switch err := policy.Evaluate(principal, resource); {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
			case errors.Is(err, ErrUnauthenticated):
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			default:
				var forbidden *ForbiddenError
				if errors.As(err, &forbidden) {
					http.Error(w, forbidden.Error(), http.StatusForbidden)
					return
				}
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			}
		})
	}
}

// currentPrincipal resolves the session user into a principal. An empty or
// unparsable session yields a nil principal, which the gate reports as
// unauthenticated. An unknown user ID (stale session after deletion) is
// treated the same way rather than as a server error.
func (m Middleware) currentPrincipal(r *http.Request) (*Principal, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("parse session user id", slog.String("value", raw))
		}
		return nil, nil
	}
	principal, err := m.Resolver.Principal(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return principal, nil
}
