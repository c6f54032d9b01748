// Package plan models subscription plans and derives the verification
// capabilities a plan grants. Plans are owned by the platform backend; the
// console holds a read-only copy cached on the operator session.
package plan

import (
	"veridesk/internal/catalog"
	id "veridesk/pkg/domain"
)

// Defaults carries the feature levels a plan is provisioned with.
// A level of 0 means the feature is unavailable on the plan.
type Defaults struct {
	RiskLevel      int `json:"riskLevel"`
	SanctionsLevel int `json:"sanctionsLevel"`
}

// SubscriptionPlan is a tier of service.
//
// Invariants:
//   - Defaults levels are never negative
//   - IntakeModules only contains catalog verification types
//
// The console treats plans as read-only: they are created and edited through
// the platform's plan-management API and cached per session.
type SubscriptionPlan struct {
	ID            id.PlanID                  `json:"_id"`
	Name          string                     `json:"name"`
	IntakeModules []catalog.VerificationType `json:"intakeModules"`
	Defaults      Defaults                   `json:"defaults"`
}

// Includes reports whether the plan's intake modules contain t.
func (p *SubscriptionPlan) Includes(t catalog.VerificationType) bool {
	if p == nil {
		return false
	}
	for _, m := range p.IntakeModules {
		if m == t {
			return true
		}
	}
	return false
}
