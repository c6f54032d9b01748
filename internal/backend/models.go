package backend

import (
	"time"

	"veridesk/internal/catalog"
	"veridesk/internal/intake"
	"veridesk/internal/plan"
	id "veridesk/pkg/domain"
)

// Role identifies the operator role granted by a platform login.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Credentials carries a platform login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the opaque bearer token issued by the platform. It never leaves
// the gateway; console clients only ever see the gateway's own session token.
type Token string

// ClientProfile is the authenticated client organization, including the
// subscription plans every configuration surface derives capabilities from.
type ClientProfile struct {
	ID                id.ClientID             `json:"_id"`
	Email             string                  `json:"email"`
	CompanyName       string                  `json:"companyName"`
	SubscriptionPlans []plan.SubscriptionPlan `json:"subscriptionPlans"`
}

// AdminProfile is the authenticated platform administrator.
type AdminProfile struct {
	ID    id.ClientID `json:"_id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
}

// Applicant is a verification subject as stored by the platform. The embedded
// record fields are exactly what the submission builder produces.
type Applicant struct {
	ID        id.ApplicantID `json:"_id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`

	RequiredVerifications []intake.RequiredVerification `json:"requiredVerifications"`
	VerificationConfig    intake.VerificationConfig     `json:"verificationConfig"`
	SubscriptionPlan      id.PlanID                     `json:"subscriptionPlan"`

	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Record extracts the applicant's verification record so edit surfaces can
// seed the configurator from it.
func (a Applicant) Record() intake.VerificationRecord {
	return intake.VerificationRecord{
		RequiredVerifications: a.RequiredVerifications,
		VerificationConfig:    a.VerificationConfig,
		SubscriptionPlan:      a.SubscriptionPlan,
	}
}

// NewApplicant is the create payload.
type NewApplicant struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`

	RequiredVerifications []intake.RequiredVerification `json:"requiredVerifications"`
	VerificationConfig    intake.VerificationConfig     `json:"verificationConfig"`
	SubscriptionPlan      id.PlanID                     `json:"subscriptionPlan"`
}

// ApplicantUpdate is the patch payload for an existing applicant.
type ApplicantUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	RequiredVerifications []intake.RequiredVerification `json:"requiredVerifications"`
	VerificationConfig    intake.VerificationConfig     `json:"verificationConfig"`
	SubscriptionPlan      id.PlanID                     `json:"subscriptionPlan"`
}

// ListParams is the applicant list query. Zero values mean platform defaults.
type ListParams struct {
	Page       int
	Limit      int
	SearchText string
}

// ApplicantPage is one page of a platform applicant listing.
type ApplicantPage struct {
	Applicants []Applicant `json:"applicants"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Pages      int         `json:"pages"`
}

// Flow is a reusable onboarding flow: the same verification record shape as
// an applicant plus flow metadata.
type Flow struct {
	ID          id.FlowID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MaxUses     int       `json:"maxUses,omitempty"`
	UsageCount  int       `json:"usageCount,omitempty"`

	RequiredVerifications []intake.RequiredVerification `json:"requiredVerifications"`
	VerificationConfig    intake.VerificationConfig     `json:"verificationConfig"`
	SubscriptionPlan      id.PlanID                     `json:"subscriptionPlan"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Record extracts the flow's verification record for edit surfaces.
func (f Flow) Record() intake.VerificationRecord {
	return intake.VerificationRecord{
		RequiredVerifications: f.RequiredVerifications,
		VerificationConfig:    f.VerificationConfig,
		SubscriptionPlan:      f.SubscriptionPlan,
	}
}

// NewFlow is the flow create payload.
type NewFlow struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MaxUses     int    `json:"maxUses,omitempty"`

	RequiredVerifications []intake.RequiredVerification `json:"requiredVerifications"`
	VerificationConfig    intake.VerificationConfig     `json:"verificationConfig"`
	SubscriptionPlan      id.PlanID                     `json:"subscriptionPlan"`
}

// FlowUpdate is the patch payload for an existing flow.
type FlowUpdate struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MaxUses     int    `json:"maxUses,omitempty"`

	RequiredVerifications []intake.RequiredVerification `json:"requiredVerifications"`
	VerificationConfig    intake.VerificationConfig     `json:"verificationConfig"`
	SubscriptionPlan      id.PlanID                     `json:"subscriptionPlan"`
}

// VerificationResult is a completed verification check reported by the
// platform for an applicant.
type VerificationResult struct {
	ID               string                   `json:"_id"`
	ApplicantID      id.ApplicantID           `json:"applicantId"`
	VerificationType catalog.VerificationType `json:"verificationType"`
	Status           string                   `json:"status"`
	CompletedAt      *time.Time               `json:"completedAt,omitempty"`
}

// Stats is the platform's aggregate verification statistics, consumed by
// the console dashboard.
type Stats struct {
	TotalApplicants int            `json:"totalApplicants"`
	Verified        int            `json:"verified"`
	Pending         int            `json:"pending"`
	Failed          int            `json:"failed"`
	ByType          map[string]int `json:"byType,omitempty"`
}
