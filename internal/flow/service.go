package flow

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

// Service owns onboarding flow operations. A flow carries the same derived
// verification record as an applicant, so the same configurator rules apply:
// nothing reaches the platform unless the derived record is valid.
type Service struct {
	client  backend.Client
	logger  *slog.Logger
	audit   audit.Publisher
	metrics *metrics.Metrics
}

func NewService(client backend.Client, logger *slog.Logger, publisher audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		client:  client,
		logger:  logger,
		audit:   publisher,
		metrics: m,
	}
}

// Create derives a verification record and creates the flow.
func (s *Service) Create(ctx context.Context, sess *session.Session, req CreateRequest) (*backend.Flow, error) {
	if req.Name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "flow name is required")
	}
	if req.MaxUses < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "maxUses cannot be negative")
	}

	p := sess.PlanByID(req.SubscriptionPlan)
	cfg := intake.New(p, intake.PolicySelectAll)
	s.recordChanges(cfg.SetSelection(req.Verifications), "selection")
	cfg.ToggleRisk(req.RiskEnabled)
	cfg.ToggleSanctions(req.SanctionsEnabled)

	record, err := cfg.BuildSubmission(nil)
	if err != nil {
		s.metrics.IncrementBuildOutcome("flow", "invalid")
		return nil, err
	}
	s.metrics.IncrementBuildOutcome("flow", "ok")

	created, err := s.client.CreateFlow(ctx, sess.PlatformToken, backend.NewFlow{
		Name:                  req.Name,
		Description:           req.Description,
		MaxUses:               req.MaxUses,
		RequiredVerifications: record.RequiredVerifications,
		VerificationConfig:    record.VerificationConfig,
		SubscriptionPlan:      record.SubscriptionPlan,
	})
	if err != nil {
		return nil, platformError(err, "create flow")
	}

	s.audit.Publish(ctx, audit.Event{
		Action:    audit.ActionFlowCreated,
		SessionID: sess.ID,
		Role:      string(sess.Role),
		Actor:     sess.Email,
		TargetID:  created.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "flow created", "flow_id", created.ID, "name", created.Name)

	return &created, nil
}

// Update edits an existing flow, preserving earned verification statuses the
// same way applicant edits do.
func (s *Service) Update(ctx context.Context, sess *session.Session, flowID id.FlowID, req UpdateRequest) (*backend.Flow, error) {
	existing, err := s.client.GetFlow(ctx, sess.PlatformToken, flowID)
	if err != nil {
		return nil, platformError(err, "load flow")
	}
	record := existing.Record()

	p := sess.PlanByID(record.SubscriptionPlan)
	cfg := intake.NewFromRecord(p, record)

	if !req.SubscriptionPlan.IsZero() && req.SubscriptionPlan != record.SubscriptionPlan {
		s.recordChanges(cfg.ChangePlan(sess.PlanByID(req.SubscriptionPlan)), "plan_change")
		s.metrics.IncrementPlanChange("flow_edit")
	}
	s.recordChanges(cfg.SetSelection(req.Verifications), "selection")
	cfg.ToggleRisk(req.RiskEnabled)
	cfg.ToggleSanctions(req.SanctionsEnabled)

	updatedRecord, err := cfg.BuildSubmission(&record)
	if err != nil {
		s.metrics.IncrementBuildOutcome("flow", "invalid")
		return nil, err
	}
	s.metrics.IncrementBuildOutcome("flow", "ok")

	updated, err := s.client.UpdateFlow(ctx, sess.PlatformToken, flowID, backend.FlowUpdate{
		Name:                  req.Name,
		Description:           req.Description,
		MaxUses:               req.MaxUses,
		RequiredVerifications: updatedRecord.RequiredVerifications,
		VerificationConfig:    updatedRecord.VerificationConfig,
		SubscriptionPlan:      updatedRecord.SubscriptionPlan,
	})
	if err != nil {
		return nil, platformError(err, "update flow")
	}

	s.audit.Publish(ctx, audit.Event{
		Action:    audit.ActionFlowUpdated,
		SessionID: sess.ID,
		Role:      string(sess.Role),
		Actor:     sess.Email,
		TargetID:  flowID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})

	return &updated, nil
}

// List fetches all flows.
func (s *Service) List(ctx context.Context, sess *session.Session) ([]backend.Flow, error) {
	flows, err := s.client.ListFlows(ctx, sess.PlatformToken)
	if err != nil {
		return nil, platformError(err, "list flows")
	}
	return flows, nil
}

// Get fetches one flow.
func (s *Service) Get(ctx context.Context, sess *session.Session, flowID id.FlowID) (*backend.Flow, error) {
	f, err := s.client.GetFlow(ctx, sess.PlatformToken, flowID)
	if err != nil {
		return nil, platformError(err, "load flow")
	}
	return &f, nil
}

// Delete removes a flow.
func (s *Service) Delete(ctx context.Context, sess *session.Session, flowID id.FlowID) error {
	if err := s.client.DeleteFlow(ctx, sess.PlatformToken, flowID); err != nil {
		return platformError(err, "delete flow")
	}

	s.audit.Publish(ctx, audit.Event{
		Action:    audit.ActionFlowDeleted,
		SessionID: sess.ID,
		Role:      string(sess.Role),
		Actor:     sess.Email,
		TargetID:  flowID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "flow deleted", "flow_id", flowID)
	return nil
}

func (s *Service) recordChanges(ch intake.Changes, trigger string) {
	if ch.RiskForcedOff {
		s.metrics.IncrementForcedDisable("risk", trigger)
	}
	if ch.SanctionsForcedOff {
		s.metrics.IncrementForcedDisable("sanctions", trigger)
	}
}

func platformError(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "flow not found")
	case errors.Is(err, sentinel.ErrUnauthorized):
		return dErrors.New(dErrors.CodeUnauthorized, "platform rejected the session, log in again")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "flow already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.New(dErrors.CodeUnavailable, "verification platform is unavailable")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
