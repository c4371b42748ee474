package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Authorizer is the subset of Service used by the middleware.
type Authorizer interface {
	Authorize(ctx context.Context, roleID int64, requestPath, method string) (bool, error)
}

// Middleware guards routes with the role/permission authority.
type Middleware struct {
	Service Authorizer
	Logger  *slog.Logger
}

// Guard allows the request when the principal's role holds a permission for
// the matched route template and method. It must run after routing, so mount
// it with chi's Group/With rather than on a parent router.
func (m Middleware) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := shared.PrincipalFromContext(r.Context())
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		allowed, err := m.Service.Authorize(r.Context(), principal.RoleID, pattern, r.Method)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("rbac guard", slog.String("route", pattern), slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		if !allowed {
			httpx.RespondError(w, shared.ErrPermissionDenied)
			return
		}
		next.ServeHTTP(w, r)
	})
}
