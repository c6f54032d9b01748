package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veridesk/internal/backend"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/httputil"
	"veridesk/pkg/requestcontext"
)

// Handler wires session endpoints to the session service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public login endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login/admin", h.HandleLoginAdmin)
	r.Post("/auth/login/client", h.HandleLoginClient)
}

// RegisterProtected mounts endpoints that require an authenticated session.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/me", h.HandleMe)
}

// HandleLoginAdmin handles POST /auth/login/admin requests.
func (h *Handler) HandleLoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, backend.RoleAdmin)
}

// HandleLoginClient handles POST /auth/login/client requests.
func (h *Handler) HandleLoginClient(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, backend.RoleClient)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, role backend.Role) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.UserAgent = r.UserAgent()
	req.IPAddress = r.RemoteAddr
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		req.IPAddress = ip
	}

	var (
		result *LoginResult
		err    error
	)
	switch role {
	case backend.RoleAdmin:
		result, err = h.service.LoginAdmin(ctx, req)
	default:
		result, err = h.service.LoginClient(ctx, req)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", requestID,
			"role", role,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleLogout handles POST /auth/logout requests.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := FromContext(ctx)
	if sess == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	if err := h.service.Logout(ctx, sess); err != nil {
		h.logger.ErrorContext(ctx, "logout failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sess.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /me requests.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := FromContext(ctx)
	if sess == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, sess.Summarize())
}
