package intake

import (
	"veridesk/internal/catalog"
	"veridesk/internal/plan"
	dErrors "veridesk/pkg/domain-errors"
)

// Build assembles the submission payload for applicant or flow creation.
//
// For each selected type an entry from the existing record, when present, is
// carried forward verbatim: status, completedAt, verificationData and notes
// all survive, so toggling the checkbox set during an edit never resets a
// verification the applicant has already completed. Types without an existing
// entry are emitted as pending.
//
// Disabled features always serialize with level 0. Pure construction: the
// caller owns the network call and the backend's verdict. Identical inputs
// yield identical payloads.
func Build(sel Selection, features FeatureToggles, p *plan.SubscriptionPlan, existing *VerificationRecord) (VerificationRecord, error) {
	if p == nil {
		return VerificationRecord{}, dErrors.New(dErrors.CodeBadRequest, "select a subscription plan")
	}
	if sel.IsEmpty() {
		return VerificationRecord{}, dErrors.New(dErrors.CodeBadRequest, "select at least one verification type")
	}

	required := make([]RequiredVerification, 0, len(sel))
	for _, t := range sel {
		if existing != nil {
			if prev, ok := findRequired(existing.RequiredVerifications, t); ok {
				required = append(required, prev)
				continue
			}
		}
		required = append(required, RequiredVerification{
			VerificationType: t,
			Status:           StatusPending,
		})
	}

	cfg := VerificationConfig{}
	if features.RiskEnabled {
		cfg.RiskLevel = features.RiskLevel
	}
	if features.SanctionsEnabled {
		cfg.SanctionsLevel = features.SanctionsLevel
	}

	return VerificationRecord{
		RequiredVerifications: required,
		VerificationConfig:    cfg,
		SubscriptionPlan:      p.ID,
	}, nil
}

// BuildSubmission is the configurator-level entry point for Build.
func (c *Configurator) BuildSubmission(existing *VerificationRecord) (VerificationRecord, error) {
	return Build(c.selection, c.features, c.plan, existing)
}

func findRequired(entries []RequiredVerification, t catalog.VerificationType) (RequiredVerification, bool) {
	for _, e := range entries {
		if e.VerificationType == t {
			return e, true
		}
	}
	return RequiredVerification{}, false
}
