package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plumecms/plume/internal/shared"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, username, password_hash, role, is_active, is_email_verified, is_superuser, date_joined, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.IsEmailVerified, &user.IsSuperuser,
		&user.DateJoined, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a user by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Create inserts a new account. A duplicate email or username maps to
// shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, user *User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, username, password_hash, role, is_active, is_email_verified, is_superuser, date_joined, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		 RETURNING id`,
		user.Email, user.Username, user.PasswordHash, user.Role,
		user.IsActive, user.IsEmailVerified, user.IsSuperuser,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, shared.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// Counts aggregates account statistics for the dashboard. Recent counts
// registrations within the trailing week.
func (r *Repository) Counts(ctx context.Context) (RoleCounts, error) {
	weekAgo := time.Now().AddDate(0, 0, -7)
	var counts RoleCounts
	err := r.pool.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE is_active),
		        count(*) FILTER (WHERE role = 'admin'),
		        count(*) FILTER (WHERE role = 'author'),
		        count(*) FILTER (WHERE role = 'reader'),
		        count(*) FILTER (WHERE date_joined >= $1)
		 FROM users`, weekAgo,
	).Scan(&counts.Total, &counts.Active, &counts.Admins, &counts.Authors, &counts.Readers, &counts.Recent)
	if err != nil {
		return RoleCounts{}, err
	}
	return counts, nil
}
