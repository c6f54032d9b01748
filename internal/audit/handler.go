package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"veridesk/internal/backend"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/httputil"
	"veridesk/pkg/requestcontext"
)

const defaultEventLimit = 50

// Handler exposes the retained audit trail to admin operators.
type Handler struct {
	store  Store
	logger *slog.Logger
}

func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/audit/events", h.HandleRecent)
}

// HandleRecent handles GET /audit/events requests. Admin only; client
// operators have no business reading other operators' trails.
func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if requestcontext.Role(ctx) != string(backend.RoleAdmin) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin access required"))
		return
	}

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	events, err := h.store.Recent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail read failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "audit trail unavailable"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, events)
}
