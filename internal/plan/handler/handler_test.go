package handler_test

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridesk/internal/audit"
	"veridesk/internal/backend"
	"veridesk/internal/catalog"
	"veridesk/internal/intake"
	"veridesk/internal/plan"
	planhandler "veridesk/internal/plan/handler"
	"veridesk/internal/session"
	"veridesk/pkg/testutil"
)

func newRouter(t *testing.T) (chi.Router, *session.Session, *audit.Recorder) {
	t.Helper()

	client := backend.NewStubClient()
	client.Tokens["ops@acme.test"] = "platform-token-1"
	client.Profile = backend.ClientProfile{
		ID:    "client-1",
		Email: "ops@acme.test",
		SubscriptionPlans: []plan.SubscriptionPlan{
			{
				ID:            "plan-full",
				Name:          "Enterprise",
				IntakeModules: catalog.Types(),
				Defaults:      plan.Defaults{RiskLevel: 3, SanctionsLevel: 2},
			},
		},
	}

	logger := slog.New(slog.DiscardHandler)
	recorder := audit.NewRecorder()
	sessions := session.NewService(
		client,
		session.NewInMemoryStore(),
		session.NewTokenService("test-key", "veridesk", "console"),
		logger,
		recorder,
	)

	result, err := sessions.LoginClient(t.Context(), session.LoginRequest{Email: "ops@acme.test", Password: "pw"})
	require.NoError(t, err)
	sess, err := sessions.Resolve(t.Context(), result.Token)
	require.NoError(t, err)

	r := chi.NewRouter()
	planhandler.New(sessions, logger, recorder).Register(r)
	return r, sess, recorder
}

func withSession(req *http.Request, sess *session.Session) *http.Request {
	return req.WithContext(session.NewContext(req.Context(), sess))
}

func TestHandleCatalog(t *testing.T) {
	r, sess, _ := newRouter(t)

	rr := testutil.DoRequest(r, withSession(testutil.NewRequest(t, http.MethodGet, "/catalog"), sess))

	testutil.AssertStatus(t, rr, http.StatusOK)
	options := *testutil.UnmarshalResponse[[]catalog.Option](t, rr)
	assert.Len(t, options, len(catalog.Types()))
}

func TestHandleList(t *testing.T) {
	r, sess, _ := newRouter(t)

	rr := testutil.DoRequest(r, withSession(testutil.NewRequest(t, http.MethodGet, "/plans"), sess))

	testutil.AssertStatus(t, rr, http.StatusOK)
	plans := *testutil.UnmarshalResponse[[]plan.SubscriptionPlan](t, rr)
	require.Len(t, plans, 1)
	assert.Equal(t, "Enterprise", plans[0].Name)
}

func TestHandleList_RequiresSession(t *testing.T) {
	r, _, _ := newRouter(t)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/plans"))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestHandleRefresh(t *testing.T) {
	r, sess, recorder := newRouter(t)

	rr := testutil.DoRequest(r, withSession(testutil.NewRequest(t, http.MethodPost, "/plans/refresh"), sess))

	testutil.AssertStatus(t, rr, http.StatusOK)
	events := recorder.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, audit.ActionPlansRefreshed, events[len(events)-1].Action)
}

func TestHandlePreview_CreateSeedsDefaults(t *testing.T) {
	r, sess, _ := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/intake/preview", map[string]any{
		"subscriptionPlan": "plan-full",
	})
	rr := testutil.DoRequest(r, withSession(req, sess))

	testutil.AssertStatus(t, rr, http.StatusOK)
	preview := testutil.UnmarshalResponse[planhandler.PreviewResponse](t, rr)
	assert.Equal(t, catalog.Types(), []catalog.VerificationType(preview.Selection))
	assert.True(t, preview.Features.RiskEnabled)
	assert.Equal(t, 3, preview.Features.RiskLevel)
	assert.True(t, preview.CanEnableRisk)
}

func TestHandlePreview_ShrinkingSelectionForcesRiskOff(t *testing.T) {
	r, sess, _ := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/intake/preview", map[string]any{
		"subscriptionPlan": "plan-full",
		"verifications":    []catalog.VerificationType{catalog.TypePhone},
	})
	rr := testutil.DoRequest(r, withSession(req, sess))

	testutil.AssertStatus(t, rr, http.StatusOK)
	preview := testutil.UnmarshalResponse[planhandler.PreviewResponse](t, rr)
	assert.False(t, preview.Features.RiskEnabled)
	assert.True(t, preview.RiskForcedOff)
	assert.True(t, preview.SanctionsForcedOff)
	assert.False(t, preview.CanEnableRisk)
}

func TestHandlePreview_EditRoundTripsRecord(t *testing.T) {
	r, sess, _ := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/intake/preview", map[string]any{
		"subscriptionPlan": "plan-full",
		"record": intake.VerificationRecord{
			SubscriptionPlan: "plan-full",
			RequiredVerifications: []intake.RequiredVerification{
				{VerificationType: catalog.TypeIDDocument, Status: intake.StatusVerified},
				{VerificationType: catalog.TypeEmail, Status: intake.StatusPending},
			},
			VerificationConfig: intake.VerificationConfig{RiskLevel: 2},
		},
		"sanctionsEnabled": true,
	})
	rr := testutil.DoRequest(r, withSession(req, sess))

	testutil.AssertStatus(t, rr, http.StatusOK)
	preview := testutil.UnmarshalResponse[planhandler.PreviewResponse](t, rr)
	assert.Equal(t, 2, preview.Features.RiskLevel, "stored level survives the edit preview")
	assert.True(t, preview.Features.SanctionsEnabled)
	assert.Equal(t, 2, preview.Features.SanctionsLevel)
}

func TestHandlePreview_UnknownPlan(t *testing.T) {
	r, sess, _ := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/intake/preview", map[string]any{
		"subscriptionPlan": "plan-nope",
	})
	rr := testutil.DoRequest(r, withSession(req, sess))

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}
