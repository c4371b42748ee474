package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Handler serves the aggregated dashboard.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guards  shared.RouteGuards
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guards shared.RouteGuards) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guards: guards}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guards.Authenticated()...).Get("/statistics", h.statistics)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", summary)
}
