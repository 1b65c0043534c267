package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/plumecms/plume/internal/authz"
	"github.com/plumecms/plume/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) (int64, error)
	Counts(ctx context.Context) (RoleCounts, error)
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Principal resolves the authorization facts for a user ID. Inactive
// accounts resolve to not-found so a stale session behaves like an
// anonymous request rather than acting with frozen privileges.
func (s *Service) Principal(ctx context.Context, userID int64) (*authz.Principal, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrNotFound
	}
	return user.Principal(), nil
}

// Register creates a reader account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, &User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         authz.RoleReader,
		IsActive:     true,
	})
}

// Counts returns dashboard aggregates.
func (s *Service) Counts(ctx context.Context) (RoleCounts, error) {
	return s.repo.Counts(ctx)
}

var _ authz.PrincipalResolver = (*Service)(nil)
