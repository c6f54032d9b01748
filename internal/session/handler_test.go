package session_test

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridesk/internal/audit"
	"veridesk/internal/backend"
	"veridesk/internal/plan"
	"veridesk/internal/session"
	"veridesk/pkg/testutil"
)

func newHandler(t *testing.T) (*session.Handler, *session.Service, *backend.StubClient) {
	t.Helper()

	client := backend.NewStubClient()
	client.Tokens["ops@acme.test"] = "platform-token-1"
	client.Profile = backend.ClientProfile{
		ID:                "client-1",
		Email:             "ops@acme.test",
		CompanyName:       "Acme",
		SubscriptionPlans: []plan.SubscriptionPlan{{ID: "plan-1", Name: "Starter"}},
	}

	logger := slog.New(slog.DiscardHandler)
	svc := session.NewService(
		client,
		session.NewInMemoryStore(),
		session.NewTokenService("test-key", "veridesk", "console"),
		logger,
		audit.NopPublisher{},
	)
	return session.NewHandler(svc, logger), svc, client
}

func TestHandleLoginClient(t *testing.T) {
	handler, _, _ := newHandler(t)
	r := chi.NewRouter()
	handler.Register(r)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login/client", map[string]string{
		"email":    "ops@acme.test",
		"password": "pw",
	})
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	result := testutil.UnmarshalResponse[session.LoginResult](t, rr)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, backend.RoleClient, result.Session.Role)
	require.NotNil(t, result.Session.ClientProfile)
}

func TestHandleLoginClient_BadCredentials(t *testing.T) {
	handler, _, _ := newHandler(t)
	r := chi.NewRouter()
	handler.Register(r)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login/client", map[string]string{
		"email":    "nobody@acme.test",
		"password": "pw",
	})
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestHandleLoginClient_MalformedBody(t *testing.T) {
	handler, _, _ := newHandler(t)
	r := chi.NewRouter()
	handler.Register(r)

	req := testutil.NewRequestWithBody(t, http.MethodPost, "/auth/login/client", "{not json")
	rr := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleMe_RequiresSession(t *testing.T) {
	handler, _, _ := newHandler(t)
	r := chi.NewRouter()
	handler.RegisterProtected(r)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/me"))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestHandleMe_WithSession(t *testing.T) {
	handler, svc, _ := newHandler(t)
	r := chi.NewRouter()
	handler.RegisterProtected(r)

	result, err := svc.LoginClient(t.Context(), session.LoginRequest{Email: "ops@acme.test", Password: "pw"})
	require.NoError(t, err)
	sess, err := svc.Resolve(t.Context(), result.Token)
	require.NoError(t, err)

	req := testutil.NewRequest(t, http.MethodGet, "/me")
	req = req.WithContext(session.NewContext(req.Context(), sess))
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	summary := testutil.UnmarshalResponse[session.Summary](t, rr)
	assert.Equal(t, "ops@acme.test", summary.Email)
}

func TestHandleLogout(t *testing.T) {
	handler, svc, _ := newHandler(t)
	r := chi.NewRouter()
	handler.RegisterProtected(r)

	result, err := svc.LoginClient(t.Context(), session.LoginRequest{Email: "ops@acme.test", Password: "pw"})
	require.NoError(t, err)
	sess, err := svc.Resolve(t.Context(), result.Token)
	require.NoError(t, err)

	req := testutil.NewRequest(t, http.MethodPost, "/auth/logout")
	req = req.WithContext(session.NewContext(req.Context(), sess))
	rr := testutil.DoRequest(r, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err = svc.Resolve(t.Context(), result.Token)
	assert.Error(t, err)
}
