package flow

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veridesk/internal/session"
	id "veridesk/pkg/domain"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/httputil"
	"veridesk/pkg/requestcontext"
)

// Handler wires flow endpoints to the flow service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts flow endpoints. All routes assume the auth middleware
// already resolved a session.
func (h *Handler) Register(r chi.Router) {
	r.Get("/flows", h.HandleList)
	r.Post("/flows", h.HandleCreate)
	r.Get("/flows/{id}", h.HandleGet)
	r.Patch("/flows/{id}", h.HandleUpdate)
	r.Delete("/flows/{id}", h.HandleDelete)
}

func sessionOrError(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
	}
	return sess
}

func parseFlowID(w http.ResponseWriter, r *http.Request) (id.FlowID, bool) {
	parsed, err := id.ParseFlowID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid flow id"))
		return "", false
	}
	return parsed, true
}

// HandleList handles GET /flows requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess := sessionOrError(w, r)
	if sess == nil {
		return
	}

	flows, err := h.service.List(r.Context(), sess)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, flows)
}

// HandleCreate handles POST /flows requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionOrError(w, r)
	if sess == nil {
		return
	}

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.service.Create(ctx, sess, req)
	if err != nil {
		h.logger.WarnContext(ctx, "flow create rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /flows/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess := sessionOrError(w, r)
	if sess == nil {
		return
	}
	flowID, ok := parseFlowID(w, r)
	if !ok {
		return
	}

	f, err := h.service.Get(r.Context(), sess, flowID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, f)
}

// HandleUpdate handles PATCH /flows/{id} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionOrError(w, r)
	if sess == nil {
		return
	}
	flowID, ok := parseFlowID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.service.Update(ctx, sess, flowID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "flow update rejected",
			"request_id", requestcontext.RequestID(ctx),
			"flow_id", flowID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /flows/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sess := sessionOrError(w, r)
	if sess == nil {
		return
	}
	flowID, ok := parseFlowID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), sess, flowID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
