package applicant

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"veridesk/internal/backend"
	"veridesk/internal/session"
	id "veridesk/pkg/domain"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/httputil"
	"veridesk/pkg/requestcontext"
)

// Handler wires applicant endpoints to the applicant service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts applicant endpoints. All routes assume the auth middleware
// already resolved a session.
func (h *Handler) Register(r chi.Router) {
	r.Get("/applicants", h.HandleList)
	r.Post("/applicants", h.HandleCreate)
	r.Get("/applicants/{id}", h.HandleGet)
	r.Patch("/applicants/{id}", h.HandleUpdate)
	r.Delete("/applicants/{id}", h.HandleDelete)
	r.Get("/applicants/{id}/results", h.HandleResults)
}

func (h *Handler) sessionOrError(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
	}
	return sess
}

func parseApplicantID(w http.ResponseWriter, r *http.Request) (id.ApplicantID, bool) {
	parsed, err := id.ParseApplicantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid applicant id"))
		return "", false
	}
	return parsed, true
}

// HandleList handles GET /applicants requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionOrError(w, r)
	if sess == nil {
		return
	}

	q := r.URL.Query()
	params := backend.ListParams{SearchText: q.Get("searchText")}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}

	page, err := h.service.List(r.Context(), sess, params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// HandleCreate handles POST /applicants requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessionOrError(w, r)
	if sess == nil {
		return
	}

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Create(ctx, sess, req)
	if err != nil {
		h.logger.WarnContext(ctx, "applicant create rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /applicants/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionOrError(w, r)
	if sess == nil {
		return
	}
	applicantID, ok := parseApplicantID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), sess, applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleUpdate handles PATCH /applicants/{id} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessionOrError(w, r)
	if sess == nil {
		return
	}
	applicantID, ok := parseApplicantID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Update(ctx, sess, applicantID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "applicant update rejected",
			"request_id", requestcontext.RequestID(ctx),
			"applicant_id", applicantID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /applicants/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionOrError(w, r)
	if sess == nil {
		return
	}
	applicantID, ok := parseApplicantID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), sess, applicantID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleResults handles GET /applicants/{id}/results requests.
func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionOrError(w, r)
	if sess == nil {
		return
	}
	applicantID, ok := parseApplicantID(w, r)
	if !ok {
		return
	}

	results, err := h.service.Results(r.Context(), sess, applicantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}
