package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veridesk/internal/applicant"
	"veridesk/internal/audit"
	"veridesk/internal/dashboard"
	"veridesk/internal/flow"
	planhandler "veridesk/internal/plan/handler"
	"veridesk/internal/platform/metrics"
	"veridesk/internal/platform/middleware"
	"veridesk/internal/session"
	"veridesk/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// Deps collects everything the router mounts. The transport layer stays
// thin; all business logic lives behind the handlers.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Sessions *session.Service

	SessionHandler   *session.Handler
	ApplicantHandler *applicant.Handler
	FlowHandler      *flow.Handler
	PlanHandler      *planhandler.Handler
	Dashboard        *dashboard.Handler
	AuditHandler     *audit.Handler

	Health func(r *http.Request) error
}

// NewRouter wires the full console API: public login and operational
// endpoints plus the session-guarded surface.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(d.Metrics))

	r.Get("/healthz", handleHealth(d.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		d.SessionHandler.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(d.Sessions, d.Logger))
			d.SessionHandler.RegisterProtected(r)
			d.ApplicantHandler.Register(r)
			d.FlowHandler.Register(r)
			d.PlanHandler.Register(r)
			d.Dashboard.Register(r)
			d.AuditHandler.Register(r)
		})
	})

	return r
}

func handleHealth(check func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
