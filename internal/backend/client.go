package backend

import (
	"context"

	id "veridesk/pkg/domain"
)

// Client talks to the verification platform's REST API. Every call carries
// the platform bearer token obtained at login; implementations map platform
// failures to sentinel errors so callers never see raw HTTP status codes.
type Client interface {
	// Auth
	LoginAdmin(ctx context.Context, creds Credentials) (Token, error)
	LoginClient(ctx context.Context, creds Credentials) (Token, error)

	// Profiles
	AdminProfile(ctx context.Context, token Token) (AdminProfile, error)
	ClientProfile(ctx context.Context, token Token) (ClientProfile, error)

	// Applicants
	ListApplicants(ctx context.Context, token Token, params ListParams) (ApplicantPage, error)
	GetApplicant(ctx context.Context, token Token, applicantID id.ApplicantID) (Applicant, error)
	CreateApplicant(ctx context.Context, token Token, payload NewApplicant) (Applicant, error)
	UpdateApplicant(ctx context.Context, token Token, applicantID id.ApplicantID, payload ApplicantUpdate) (Applicant, error)
	DeleteApplicant(ctx context.Context, token Token, applicantID id.ApplicantID) error

	// Flows
	ListFlows(ctx context.Context, token Token) ([]Flow, error)
	GetFlow(ctx context.Context, token Token, flowID id.FlowID) (Flow, error)
	CreateFlow(ctx context.Context, token Token, payload NewFlow) (Flow, error)
	UpdateFlow(ctx context.Context, token Token, flowID id.FlowID, payload FlowUpdate) (Flow, error)
	DeleteFlow(ctx context.Context, token Token, flowID id.FlowID) error

	// Verification results and statistics
	VerificationResults(ctx context.Context, token Token, applicantID id.ApplicantID) ([]VerificationResult, error)
	Stats(ctx context.Context, token Token) (Stats, error)
}
