// Package blog holds the slice of the blog domain the authorization gate
// and admin dashboard depend on: post ownership lookups, gated mutation of
// a post, and content counts. Publishing, rendering and search live
// elsewhere.
package blog

import "time"

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a stored blog post.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	AuthorID   int64     `json:"author_id"`
	ViewsCount int64     `json:"views_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ContentCounts aggregates content statistics for the dashboard.
type ContentCounts struct {
	Posts            int64 `json:"posts"`
	PublishedPosts   int64 `json:"published_posts"`
	DraftPosts       int64 `json:"draft_posts"`
	Comments         int64 `json:"comments"`
	ApprovedComments int64 `json:"approved_comments"`
	PendingComments  int64 `json:"pending_comments"`
	Categories       int64 `json:"categories"`
	Tags             int64 `json:"tags"`
}
