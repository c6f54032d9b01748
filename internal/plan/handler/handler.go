package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veridesk/internal/audit"
	"veridesk/internal/catalog"
	"veridesk/internal/intake"
	"veridesk/internal/session"
	id "veridesk/pkg/domain"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/httputil"
	"veridesk/pkg/requestcontext"
)

// Handler serves subscription plan listings, the verification catalog, and
// the intake preview endpoint. All three configuration surfaces of the
// console talk to the preview endpoint so they share one derivation engine
// instead of re-implementing the rules per form.
type Handler struct {
	sessions *session.Service
	logger   *slog.Logger
	audit    audit.Publisher
}

func New(sessions *session.Service, logger *slog.Logger, publisher audit.Publisher) *Handler {
	return &Handler{sessions: sessions, logger: logger, audit: publisher}
}

// Register mounts plan and preview endpoints. Routes assume the auth
// middleware already resolved a session.
func (h *Handler) Register(r chi.Router) {
	r.Get("/catalog", h.HandleCatalog)
	r.Get("/plans", h.HandleList)
	r.Post("/plans/refresh", h.HandleRefresh)
	r.Post("/intake/preview", h.HandlePreview)
}

// HandleCatalog handles GET /catalog requests. The catalog is immutable, so
// this is a constant payload.
func (h *Handler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, catalog.Options())
}

// HandleList handles GET /plans requests, serving the plans cached on the
// session profile.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.Plans())
}

// HandleRefresh handles POST /plans/refresh requests: the profile (and with
// it the plan list) is re-fetched from the platform.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)
	if sess == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	refreshed, err := h.sessions.RefreshProfile(ctx, sess)
	if err != nil {
		h.logger.ErrorContext(ctx, "plan refresh failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sess.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.audit.Publish(ctx, audit.Event{
		Action:    audit.ActionPlansRefreshed,
		SessionID: sess.ID,
		Role:      string(sess.Role),
		Actor:     sess.Email,
		RequestID: requestcontext.RequestID(ctx),
	})
	httputil.WriteJSON(w, http.StatusOK, refreshed.Plans())
}

// PreviewRequest drives one derivation round. Verifications and the toggle
// fields are optional: absent fields leave the engine's seeded state alone,
// so a create form can ask "what does plan X look like untouched".
type PreviewRequest struct {
	SubscriptionPlan id.PlanID                   `json:"subscriptionPlan"`
	Record           *intake.VerificationRecord  `json:"record,omitempty"`
	Verifications    *[]catalog.VerificationType `json:"verifications,omitempty"`
	RiskEnabled      *bool                       `json:"riskEnabled,omitempty"`
	SanctionsEnabled *bool                       `json:"sanctionsEnabled,omitempty"`
}

// PreviewResponse is the engine state plus what the round forced off.
type PreviewResponse struct {
	intake.State
	RiskForcedOff      bool `json:"riskForcedOff"`
	SanctionsForcedOff bool `json:"sanctionsForcedOff"`
}

// HandlePreview handles POST /intake/preview requests.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)
	if sess == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req PreviewRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	p := sess.PlanByID(req.SubscriptionPlan)
	if p == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown subscription plan"))
		return
	}

	var cfg *intake.Configurator
	if req.Record != nil {
		cfg = intake.NewFromRecord(p, *req.Record)
	} else {
		cfg = intake.New(p, intake.PolicySelectAll)
	}

	var changes intake.Changes
	if req.Verifications != nil {
		changes = cfg.SetSelection(*req.Verifications)
	}
	if req.RiskEnabled != nil {
		cfg.ToggleRisk(*req.RiskEnabled)
	}
	if req.SanctionsEnabled != nil {
		cfg.ToggleSanctions(*req.SanctionsEnabled)
	}

	httputil.WriteJSON(w, http.StatusOK, PreviewResponse{
		State:              cfg.State(),
		RiskForcedOff:      changes.RiskForcedOff,
		SanctionsForcedOff: changes.SanctionsForcedOff,
	})
}
