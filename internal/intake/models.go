// Package intake implements the verification configuration model behind the
// console's applicant and flow forms: which verification modules an operator
// may select under a subscription plan, when the optional risk / sanctions
// features may be enabled, and how the final submission payload is assembled.
//
// The three console surfaces (new applicant, edit applicant, onboarding flow)
// share this one engine and differ only in the selection policy they apply on
// plan changes.
package intake

import (
	"encoding/json"
	"time"

	"veridesk/internal/catalog"
	id "veridesk/pkg/domain"
)

// Verification statuses as reported by the platform. The console only ever
// writes StatusPending; everything else is preserved from backend records.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

// RequiredVerification is one entry of an applicant's verification checklist.
//
// Backend records include progress fields only when present; they are modeled
// as optionals here and carried forward verbatim on edit so that re-submitting
// a configuration never resets completed work.
type RequiredVerification struct {
	VerificationType catalog.VerificationType `json:"verificationType"`
	Status           string                   `json:"status"`
	CompletedAt      *time.Time               `json:"completedAt,omitempty"`
	VerificationData json.RawMessage          `json:"verificationData,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
}

// VerificationConfig carries the effective feature levels for a submission.
// A disabled feature always serializes as level 0.
type VerificationConfig struct {
	RiskLevel      int `json:"riskLevel"`
	SanctionsLevel int `json:"sanctionsLevel"`
}

// VerificationRecord is the submission payload for applicant or flow
// creation and update. Ownership transfers to the backend on submit.
type VerificationRecord struct {
	RequiredVerifications []RequiredVerification `json:"requiredVerifications"`
	VerificationConfig    VerificationConfig     `json:"verificationConfig"`
	SubscriptionPlan      id.PlanID              `json:"subscriptionPlan"`
}

// FeatureToggles is the transient toggle state for the optional features.
// Levels are effective only while the corresponding flag is set.
type FeatureToggles struct {
	RiskEnabled      bool `json:"riskEnabled"`
	RiskLevel        int  `json:"riskLevel"`
	SanctionsEnabled bool `json:"sanctionsEnabled"`
	SanctionsLevel   int  `json:"sanctionsLevel"`
}
