package httpapi_test

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridesk/internal/applicant"
	"veridesk/internal/audit"
	"veridesk/internal/backend"
	"veridesk/internal/dashboard"
	"veridesk/internal/flow"
	httpapi "veridesk/internal/http"
	planhandler "veridesk/internal/plan/handler"
	"veridesk/internal/session"
	"veridesk/pkg/testutil"
)

func newRouter(t *testing.T) (http.Handler, *backend.StubClient) {
	t.Helper()

	client := backend.NewStubClient()
	client.Tokens["ops@acme.test"] = "platform-token-1"
	client.Profile = backend.ClientProfile{ID: "client-1", Email: "ops@acme.test"}

	logger := slog.New(slog.DiscardHandler)
	publisher := audit.NopPublisher{}

	sessions := session.NewService(
		client,
		session.NewInMemoryStore(),
		session.NewTokenService("test-key", "veridesk", "console"),
		logger,
		publisher,
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		Sessions:         sessions,
		SessionHandler:   session.NewHandler(sessions, logger),
		ApplicantHandler: applicant.NewHandler(applicant.NewService(client, logger, publisher, nil, "https://sdk.test"), logger),
		FlowHandler:      flow.NewHandler(flow.NewService(client, logger, publisher, nil), logger),
		PlanHandler:      planhandler.New(sessions, logger, publisher),
		Dashboard:        dashboard.NewHandler(dashboard.NewService(client, logger), logger),
		AuditHandler:     audit.NewHandler(audit.NewInMemoryStore(0), logger),
	})
	return router, client
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login/client", map[string]string{
		"email":    "ops@acme.test",
		"password": "pw",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	return testutil.UnmarshalResponse[session.LoginResult](t, rr).Token
}

func TestRouter_Health(t *testing.T) {
	router, _ := newRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newRouter(t)

	for _, path := range []string{"/me", "/applicants", "/flows", "/plans", "/dashboard/stats"} {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestRouter_BearerTokenFlows(t *testing.T) {
	router, _ := newRouter(t)
	token := login(t, router)

	req := testutil.NewRequest(t, http.MethodGet, "/me")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	summary := testutil.UnmarshalResponse[session.Summary](t, rr)
	require.Equal(t, "ops@acme.test", summary.Email)
}

func TestRouter_AuditTrailIsAdminOnly(t *testing.T) {
	router, _ := newRouter(t)
	token := login(t, router)

	req := testutil.NewRequest(t, http.MethodGet, "/audit/events")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
}

func TestRouter_MangledTokenRejected(t *testing.T) {
	router, _ := newRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/me")
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}
