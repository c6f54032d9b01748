package applicant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"veridesk/internal/audit"
	"veridesk/internal/backend"
	"veridesk/internal/intake"
	"veridesk/internal/intake/metrics"
	"veridesk/internal/session"
	id "veridesk/pkg/domain"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/sentinel"
	"veridesk/pkg/requestcontext"
)

// Service owns applicant operations. Verification configurations are derived
// through the intake configurator before anything reaches the platform, so a
// request that fails validation never makes a network call.
type Service struct {
	client  backend.Client
	logger  *slog.Logger
	audit   audit.Publisher
	metrics *metrics.Metrics
	sdkURL  string
}

func NewService(client backend.Client, logger *slog.Logger, publisher audit.Publisher, m *metrics.Metrics, sdkURL string) *Service {
	return &Service{
		client:  client,
		logger:  logger,
		audit:   publisher,
		metrics: m,
		sdkURL:  sdkURL,
	}
}

// WebSDKLink builds the hosted verification link for an applicant.
func (s *Service) WebSDKLink(applicantID id.ApplicantID) string {
	if s.sdkURL == "" {
		return ""
	}
	return s.sdkURL + "/verification?id=" + applicantID.String()
}

func (s *Service) view(a backend.Applicant) View {
	return View{Applicant: a, WebSDKLink: s.WebSDKLink(a.ID)}
}

// Create derives a fresh verification record from the request and submits it.
// Creation surfaces use the select-all plan-change policy, so the configurator
// is seeded with every module the plan offers before the operator's selection
// narrows it.
func (s *Service) Create(ctx context.Context, sess *session.Session, req CreateRequest) (*View, error) {
	if req.FirstName == "" || req.LastName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "first and last name are required")
	}
	if req.Email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}

	p := sess.PlanByID(req.SubscriptionPlan)
	cfg := intake.New(p, intake.PolicySelectAll)
	changes := cfg.SetSelection(req.Verifications)
	s.recordChanges(changes, "selection")
	cfg.ToggleRisk(req.RiskEnabled)
	cfg.ToggleSanctions(req.SanctionsEnabled)

	record, err := cfg.BuildSubmission(nil)
	if err != nil {
		s.metrics.IncrementBuildOutcome("applicant_create", "invalid")
		return nil, err
	}
	s.metrics.IncrementBuildOutcome("applicant_create", "ok")

	created, err := s.client.CreateApplicant(ctx, sess.PlatformToken, backend.NewApplicant{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		RequiredVerifications: record.RequiredVerifications,
		VerificationConfig:    record.VerificationConfig,
		SubscriptionPlan:      record.SubscriptionPlan,
	})
	if err != nil {
		return nil, platformError(err, "create applicant")
	}

	s.audit.Publish(ctx, audit.Event{
		Action:    audit.ActionApplicantCreated,
		SessionID: sess.ID,
		Role:      string(sess.Role),
		Actor:     sess.Email,
		TargetID:  created.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "applicant created",
		"applicant_id", created.ID,
		"plan_id", record.SubscriptionPlan,
		"verifications", len(record.RequiredVerifications),
	)

	v := s.view(created)
	return &v, nil
}

// Update edits an existing applicant. The configurator is seeded from the
// stored record (intersect policy), so verification statuses already earned
// survive the edit untouched.
func (s *Service) Update(ctx context.Context, sess *session.Session, applicantID id.ApplicantID, req UpdateRequest) (*View, error) {
	existing, err := s.client.GetApplicant(ctx, sess.PlatformToken, applicantID)
	if err != nil {
		return nil, platformError(err, "load applicant")
	}
	record := existing.Record()

	p := sess.PlanByID(record.SubscriptionPlan)
	cfg := intake.NewFromRecord(p, record)

	if !req.SubscriptionPlan.IsZero() && req.SubscriptionPlan != record.SubscriptionPlan {
		changes := cfg.ChangePlan(sess.PlanByID(req.SubscriptionPlan))
		s.recordChanges(changes, "plan_change")
		s.metrics.IncrementPlanChange("applicant_edit")
	}
	changes := cfg.SetSelection(req.Verifications)
	s.recordChanges(changes, "selection")
	cfg.ToggleRisk(req.RiskEnabled)
	cfg.ToggleSanctions(req.SanctionsEnabled)

	updatedRecord, err := cfg.BuildSubmission(&record)
	if err != nil {
		s.metrics.IncrementBuildOutcome("applicant_edit", "invalid")
		return nil, err
	}
	s.metrics.IncrementBuildOutcome("applicant_edit", "ok")

	updated, err := s.client.UpdateApplicant(ctx, sess.PlatformToken, applicantID, backend.ApplicantUpdate{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		RequiredVerifications: updatedRecord.RequiredVerifications,
		VerificationConfig:    updatedRecord.VerificationConfig,
		SubscriptionPlan:      updatedRecord.SubscriptionPlan,
	})
	if err != nil {
		return nil, platformError(err, "update applicant")
	}

	s.audit.Publish(ctx, audit.Event{
		Action:    audit.ActionApplicantUpdated,
		SessionID: sess.ID,
		Role:      string(sess.Role),
		Actor:     sess.Email,
		TargetID:  applicantID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})

	v := s.view(updated)
	return &v, nil
}

// List fetches one page of applicants.
func (s *Service) List(ctx context.Context, sess *session.Session, params backend.ListParams) (*Page, error) {
	page, err := s.client.ListApplicants(ctx, sess.PlatformToken, params)
	if err != nil {
		return nil, platformError(err, "list applicants")
	}

	out := &Page{Total: page.Total, Page: page.Page, Pages: page.Pages}
	for _, a := range page.Applicants {
		out.Applicants = append(out.Applicants, s.view(a))
	}
	return out, nil
}

// Get fetches one applicant.
func (s *Service) Get(ctx context.Context, sess *session.Session, applicantID id.ApplicantID) (*View, error) {
	a, err := s.client.GetApplicant(ctx, sess.PlatformToken, applicantID)
	if err != nil {
		return nil, platformError(err, "load applicant")
	}
	v := s.view(a)
	return &v, nil
}

// Delete removes an applicant.
func (s *Service) Delete(ctx context.Context, sess *session.Session, applicantID id.ApplicantID) error {
	if err := s.client.DeleteApplicant(ctx, sess.PlatformToken, applicantID); err != nil {
		return platformError(err, "delete applicant")
	}

	s.audit.Publish(ctx, audit.Event{
		Action:    audit.ActionApplicantDeleted,
		SessionID: sess.ID,
		Role:      string(sess.Role),
		Actor:     sess.Email,
		TargetID:  applicantID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "applicant deleted", "applicant_id", applicantID)
	return nil
}

// Results fetches the completed verification checks for an applicant.
func (s *Service) Results(ctx context.Context, sess *session.Session, applicantID id.ApplicantID) ([]backend.VerificationResult, error) {
	results, err := s.client.VerificationResults(ctx, sess.PlatformToken, applicantID)
	if err != nil {
		return nil, platformError(err, "load verification results")
	}
	return results, nil
}

func (s *Service) recordChanges(ch intake.Changes, trigger string) {
	if ch.RiskForcedOff {
		s.metrics.IncrementForcedDisable("risk", trigger)
	}
	if ch.SanctionsForcedOff {
		s.metrics.IncrementForcedDisable("sanctions", trigger)
	}
}

// platformError translates sentinel failures from the backend client into
// domain errors with operator-facing messages.
func platformError(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "applicant not found")
	case errors.Is(err, sentinel.ErrUnauthorized):
		return dErrors.New(dErrors.CodeUnauthorized, "platform rejected the session, log in again")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "applicant already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.New(dErrors.CodeUnavailable, "verification platform is unavailable")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
