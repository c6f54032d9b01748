package session

import (
	"time"

	"veridesk/internal/backend"
	"veridesk/internal/plan"
	id "veridesk/pkg/domain"
)

// Session is an authenticated operator session.
//
// Invariants:
//   - The platform bearer token lives only here, server-side. Console clients
//     hold the gateway's own JWT and never see the platform token.
//   - Exactly one of ClientProfile/AdminProfile is set, matching Role.
//   - ExpiresAt bounds both the stored record and the issued JWT.
//   - SecretHash is a bcrypt hash of the secret embedded in the JWT; the
//     plaintext secret is never stored.
type Session struct {
	ID            id.SessionID  `json:"id"`
	Role          backend.Role  `json:"role"`
	Email         string        `json:"email"`
	PlatformToken backend.Token `json:"platform_token"`
	SecretHash    string        `json:"secret_hash"`

	ClientProfile *backend.ClientProfile `json:"client_profile,omitempty"`
	AdminProfile  *backend.AdminProfile  `json:"admin_profile,omitempty"`

	DeviceDisplayName string `json:"device_display_name,omitempty"`
	IPAddress         string `json:"ip_address,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Plans returns the subscription plans cached on the session profile. Admin
// sessions have none; configuration surfaces are client-scoped.
func (s *Session) Plans() []plan.SubscriptionPlan {
	if s.ClientProfile == nil {
		return nil
	}
	return s.ClientProfile.SubscriptionPlans
}

// PlanByID finds a cached plan. Returns nil when the id is unknown, which
// callers treat the same as no plan selected.
func (s *Session) PlanByID(planID id.PlanID) *plan.SubscriptionPlan {
	for i := range s.Plans() {
		if s.ClientProfile.SubscriptionPlans[i].ID == planID {
			return &s.ClientProfile.SubscriptionPlans[i]
		}
	}
	return nil
}

// Summary is the session view returned to the console (GET /me). The
// platform token is deliberately absent.
type Summary struct {
	SessionID id.SessionID `json:"session_id"`
	Role      backend.Role `json:"role"`
	Email     string       `json:"email"`
	Device    string       `json:"device,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`

	ClientProfile *backend.ClientProfile `json:"client_profile,omitempty"`
	AdminProfile  *backend.AdminProfile  `json:"admin_profile,omitempty"`
}

// Summarize builds the console view of the session.
func (s *Session) Summarize() Summary {
	return Summary{
		SessionID:     s.ID,
		Role:          s.Role,
		Email:         s.Email,
		Device:        s.DeviceDisplayName,
		CreatedAt:     s.CreatedAt,
		ExpiresAt:     s.ExpiresAt,
		ClientProfile: s.ClientProfile,
		AdminProfile:  s.AdminProfile,
	}
}
