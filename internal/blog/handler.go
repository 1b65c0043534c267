package blog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/plumecms/plume/internal/authz"
	"github.com/plumecms/plume/internal/platform/httpx"
	"github.com/plumecms/plume/internal/shared"
)

// RepositoryPort defines data access the handler depends on.
type RepositoryPort interface {
	GetPost(ctx context.Context, id int64) (*Post, error)
	UpdatePost(ctx context.Context, id int64, title, content, status string) error
	DeletePost(ctx context.Context, id int64) error
}

// Handler wires the gated post mutation endpoints.
type Handler struct {
	logger    *slog.Logger
	repo      RepositoryPort
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo RepositoryPort, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, guard: guard, validator: validator.New()}
}

// MountRoutes registers post mutation routes. The policy sits at the mount
// site: editing requires an author-capable verified account that owns the
// post (admins bypass ownership).
func (h *Handler) MountRoutes(r chi.Router) {
	editPolicy := authz.NewPolicy(
		authz.RoleIn(authz.RoleAdmin, authz.RoleAuthor),
		authz.EmailVerified(),
		authz.Owner(func(p *Post) int64 { return p.AuthorID }),
	)
	r.Route("/posts/{id}", func(pr chi.Router) {
		pr.Use(h.guard.RequireResource(editPolicy, h.resolvePost))
		pr.Put("/", h.updatePost)
		pr.Delete("/", h.deletePost)
	})
}

func (h *Handler) resolvePost(r *http.Request) (any, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return h.repo.GetPost(r.Context(), id)
}

type postForm struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=draft published"`
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
		return
	}
	var form postForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.repo.UpdatePost(r.Context(), id, form.Title, form.Content, form.Status); err != nil {
		h.respondError(w, "update post", err)
		return
	}
	post, err := h.repo.GetPost(r.Context(), id)
	if err != nil {
		h.respondError(w, "reload post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
		return
	}
	if err := h.repo.DeletePost(r.Context(), id); err != nil {
		h.respondError(w, "delete post", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	httpx.RespondError(w, err)
}
