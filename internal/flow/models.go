package flow

import (
	"veridesk/internal/catalog"
	id "veridesk/pkg/domain"
)

// CreateRequest is the console payload for a new onboarding flow. The
// verification configuration part matches the applicant forms; flows add a
// name, a description, and an optional usage cap.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MaxUses     int    `json:"maxUses,omitempty"`

	SubscriptionPlan id.PlanID                  `json:"subscriptionPlan"`
	Verifications    []catalog.VerificationType `json:"verifications"`
	RiskEnabled      bool                       `json:"riskEnabled"`
	SanctionsEnabled bool                       `json:"sanctionsEnabled"`
}

// UpdateRequest is the console payload for editing a flow.
type UpdateRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MaxUses     int    `json:"maxUses,omitempty"`

	SubscriptionPlan id.PlanID                  `json:"subscriptionPlan"`
	Verifications    []catalog.VerificationType `json:"verifications"`
	RiskEnabled      bool                       `json:"riskEnabled"`
	SanctionsEnabled bool                       `json:"sanctionsEnabled"`
}
