package blog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plumecms/plume/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetPost fetches a post by primary key.
func (r *Repository) GetPost(ctx context.Context, id int64) (*Post, error) {
	var post Post
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, slug, content, status, author_id, views_count, created_at, updated_at
		 FROM posts WHERE id = $1`, id,
	).Scan(
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.Status,
		&post.AuthorID, &post.ViewsCount, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost rewrites the mutable fields of a post.
func (r *Repository) UpdatePost(ctx context.Context, id int64, title, content, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET title = $2, content = $3, status = $4, updated_at = now() WHERE id = $1`,
		id, title, content, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeletePost removes a post and, through cascading constraints, its
// comments.
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Counts aggregates content statistics for the dashboard.
func (r *Repository) Counts(ctx context.Context) (ContentCounts, error) {
	var counts ContentCounts
	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT count(*) FROM posts),
		   (SELECT count(*) FROM posts WHERE status = 'published'),
		   (SELECT count(*) FROM posts WHERE status = 'draft'),
		   (SELECT count(*) FROM comments),
		   (SELECT count(*) FROM comments WHERE is_approved),
		   (SELECT count(*) FROM comments WHERE NOT is_approved),
		   (SELECT count(*) FROM categories),
		   (SELECT count(*) FROM tags)`,
	).Scan(
		&counts.Posts, &counts.PublishedPosts, &counts.DraftPosts,
		&counts.Comments, &counts.ApprovedComments, &counts.PendingComments,
		&counts.Categories, &counts.Tags,
	)
	if err != nil {
		return ContentCounts{}, err
	}
	return counts, nil
}
