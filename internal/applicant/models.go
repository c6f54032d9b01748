package applicant

import (
	"veridesk/internal/backend"
	"veridesk/internal/catalog"
	id "veridesk/pkg/domain"
)

// CreateRequest is the console payload for a new applicant. Verifications
// and the feature toggles are the operator's desired configuration; the
// service re-derives eligibility server-side, so an ineligible toggle is
// dropped the same way the form would drop it.
type CreateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`

	SubscriptionPlan id.PlanID                  `json:"subscriptionPlan"`
	Verifications    []catalog.VerificationType `json:"verifications"`
	RiskEnabled      bool                       `json:"riskEnabled"`
	SanctionsEnabled bool                       `json:"sanctionsEnabled"`
}

// UpdateRequest is the console payload for editing an applicant.
type UpdateRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	SubscriptionPlan id.PlanID                  `json:"subscriptionPlan"`
	Verifications    []catalog.VerificationType `json:"verifications"`
	RiskEnabled      bool                       `json:"riskEnabled"`
	SanctionsEnabled bool                       `json:"sanctionsEnabled"`
}

// View is an applicant as returned to the console, with the WebSDK
// verification link attached.
type View struct {
	backend.Applicant
	WebSDKLink string `json:"webSdkLink,omitempty"`
}

// Page is one page of applicants.
type Page struct {
	Applicants []View `json:"applicants"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Pages      int    `json:"pages"`
}
