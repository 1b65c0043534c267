package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/plumecms/plume/internal/adminpanel"
	"github.com/plumecms/plume/internal/auth"
	"github.com/plumecms/plume/internal/authz"
	"github.com/plumecms/plume/internal/blog"
	logadminhttp "github.com/plumecms/plume/internal/logadmin/http"
	"github.com/plumecms/plume/internal/observability"
	"github.com/plumecms/plume/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Guard          authz.Middleware

	AuthHandler       *auth.Handler
	BlogHandler       *blog.Handler
	LogAdminHandler   *logadminhttp.Handler
	AdminPanelHandler *adminpanel.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Plume defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AuthHandler != nil {
		params.AuthHandler.MountRoutes(r)
	}
	if params.BlogHandler != nil {
		params.BlogHandler.MountRoutes(r)
	}

	// The whole admin panel sits behind the admin policy; individual
	// routes add their own rate limits on top.
	adminPolicy := authz.NewPolicy(authz.RoleIn(authz.RoleAdmin))
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(params.Guard.Require(adminPolicy))
		if params.AdminPanelHandler != nil {
			params.AdminPanelHandler.MountRoutes(ar)
		}
		if params.LogAdminHandler != nil {
			params.LogAdminHandler.MountRoutes(ar)
		}
	})

	return r
}
