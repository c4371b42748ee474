package app

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/genesislab/siteadmin/internal/admins"
	"github.com/genesislab/siteadmin/internal/applications"
	"github.com/genesislab/siteadmin/internal/auth"
	"github.com/genesislab/siteadmin/internal/contacts"
	"github.com/genesislab/siteadmin/internal/dashboard"
	"github.com/genesislab/siteadmin/internal/demorequests"
	"github.com/genesislab/siteadmin/internal/jobposts"
	"github.com/genesislab/siteadmin/internal/observability"
	"github.com/genesislab/siteadmin/internal/rbac"
	"github.com/genesislab/siteadmin/internal/teams"
	"github.com/genesislab/siteadmin/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	AuthHandler         *auth.Handler
	AdminsHandler       *admins.Handler
	RBACHandler         *rbac.Handler
	DemoRequestsHandler *demorequests.Handler
	JobPostsHandler     *jobposts.Handler
	ApplicationsHandler *applications.Handler
	ContactsHandler     *contacts.Handler
	TeamsHandler        *teams.Handler
	DashboardHandler    *dashboard.Handler
	QueueHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	api := strings.TrimSuffix(params.Config.APIPrefix, "/")
	r.Route(api, func(r chi.Router) {
		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
		}
		r.Route("/admin", func(r chi.Router) {
			if params.AdminsHandler != nil {
				params.AdminsHandler.MountRoutes(r)
			}
			if params.RBACHandler != nil {
				params.RBACHandler.MountRoutes(r)
			}
		})
		if params.DemoRequestsHandler != nil {
			r.Route("/request-demo", params.DemoRequestsHandler.MountRoutes)
		}
		if params.JobPostsHandler != nil {
			r.Route("/job", params.JobPostsHandler.MountRoutes)
		}
		if params.ApplicationsHandler != nil {
			r.Route("/application", params.ApplicationsHandler.MountRoutes)
		}
		if params.ContactsHandler != nil {
			r.Route("/contacts", params.ContactsHandler.MountRoutes)
		}
		if params.TeamsHandler != nil {
			r.Route("/teams", params.TeamsHandler.MountRoutes)
		}
		if params.DashboardHandler != nil {
			r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		}
		if params.QueueHandler != nil {
			r.Route("/queue", params.QueueHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if dir := params.Config.UploadDir; dir != "" {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
		r.Handle("/uploads/*", uploadsHandler(files))
	}

	return r
}

// uploadsHandler serves stored files with a cache header and refuses
// directory listings.
func uploadsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
