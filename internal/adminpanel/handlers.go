// Package adminpanel serves the operator dashboard.
package adminpanel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plumecms/plume/internal/blog"
	"github.com/plumecms/plume/internal/logadmin"
	"github.com/plumecms/plume/internal/platform/httpx"
	"github.com/plumecms/plume/internal/users"
)

// UserStats supplies account aggregates.
type UserStats interface {
	Counts(ctx context.Context) (users.RoleCounts, error)
}

// ContentStats supplies content aggregates.
type ContentStats interface {
	Counts(ctx context.Context) (blog.ContentCounts, error)
}

// Handler serves the dashboard endpoint.
type Handler struct {
	logger   *slog.Logger
	users    UserStats
	content  ContentStats
	registry *logadmin.Registry
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, userStats UserStats, contentStats ContentStats, registry *logadmin.Registry) *Handler {
	return &Handler{logger: logger, users: userStats, content: contentStats, registry: registry}
}

// MountRoutes registers the dashboard route. The caller wraps the subtree
// in the admin authorization guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)
}

type dashboardResponse struct {
	Users    users.RoleCounts    `json:"users"`
	Content  blog.ContentCounts  `json:"content"`
	LogFiles []logadmin.FileInfo `json:"log_files"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userCounts, err := h.users.Counts(r.Context())
	if err != nil {
		h.serverError(w, "load user counts", err)
		return
	}
	contentCounts, err := h.content.Counts(r.Context())
	if err != nil {
		h.serverError(w, "load content counts", err)
		return
	}
	files := h.registry.Files()
	if files == nil {
		files = []logadmin.FileInfo{}
	}
	httpx.JSON(w, http.StatusOK, dashboardResponse{
		Users:    userCounts,
		Content:  contentCounts,
		LogFiles: files,
	})
}

func (h *Handler) serverError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
