package shared

import "net/http"

// RouteGuards carries the middleware that protects admin routes. Authenticate
// attaches a Principal; Authorize checks the principal's role against the
// matched route.
type RouteGuards struct {
	Authenticate func(http.Handler) http.Handler
	Authorize    func(http.Handler) http.Handler
}

// Authenticated returns the chain for routes any signed-in admin may call.
func (g RouteGuards) Authenticated() []func(http.Handler) http.Handler {
	return nonNil(g.Authenticate)
}

// Permitted returns the chain for routes that also need a role permission.
func (g RouteGuards) Permitted() []func(http.Handler) http.Handler {
	return nonNil(g.Authenticate, g.Authorize)
}

func nonNil(mws ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
