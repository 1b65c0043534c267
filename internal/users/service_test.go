package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/plumecms/plume/internal/authz"
	"github.com/plumecms/plume/internal/shared"
)

type stubRepo struct {
	byID    map[int64]*User
	created *User
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range s.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, user *User) (int64, error) {
	s.created = user
	return 99, nil
}

func (s *stubRepo) Counts(_ context.Context) (RoleCounts, error) {
	return RoleCounts{Total: int64(len(s.byID))}, nil
}

func TestPrincipalProjection(t *testing.T) {
	repo := &stubRepo{byID: map[int64]*User{
		1: {ID: 1, Email: "admin@test.local", Role: authz.RoleAdmin, IsActive: true, IsEmailVerified: true},
	}}
	service := NewService(repo)

	principal, err := service.Principal(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), principal.ID)
	assert.Equal(t, authz.RoleAdmin, principal.Role)
	assert.True(t, principal.IsEmailVerified)
}

func TestPrincipalInactiveUserIsNotFound(t *testing.T) {
	repo := &stubRepo{byID: map[int64]*User{
		2: {ID: 2, Email: "frozen@test.local", Role: authz.RoleAdmin, IsActive: false},
	}}
	service := NewService(repo)

	_, err := service.Principal(context.Background(), 2)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPrincipalUnknownUser(t *testing.T) {
	service := NewService(&stubRepo{})
	_, err := service.Principal(context.Background(), 404)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegisterCreatesReader(t *testing.T) {
	repo := &stubRepo{}
	service := NewService(repo)

	id, err := service.Register(context.Background(), "new@test.local", "newbie", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)

	require.NotNil(t, repo.created)
	assert.Equal(t, authz.RoleReader, repo.created.Role)
	assert.True(t, repo.created.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("hunter2hunter2")))
}
