package plan

import "veridesk/internal/catalog"

// Capabilities is what a subscription plan makes available to the intake
// configurator: which verification modules may be selected and whether the
// optional risk / sanctions features can be offered at all.
type Capabilities struct {
	AvailableModules   []catalog.VerificationType `json:"availableModules"`
	RiskAvailable      bool                       `json:"riskAvailable"`
	SanctionsAvailable bool                       `json:"sanctionsAvailable"`
	MaxRiskLevel       int                        `json:"maxRiskLevel"`
	MaxSanctionsLevel  int                        `json:"maxSanctionsLevel"`
}

// Resolve computes the capabilities granted by a plan.
//
// AvailableModules is the intersection of the verification catalog with the
// plan's intake modules, preserving catalog order. A nil plan (no plan
// selected, or the account has no plans) resolves to zero capabilities.
//
// Pure function of its input; callers re-resolve whenever the active plan
// reference changes.
func Resolve(p *SubscriptionPlan) Capabilities {
	if p == nil {
		return Capabilities{}
	}

	var available []catalog.VerificationType
	for _, t := range catalog.Types() {
		if p.Includes(t) {
			available = append(available, t)
		}
	}

	return Capabilities{
		AvailableModules:   available,
		RiskAvailable:      p.Defaults.RiskLevel > 0,
		SanctionsAvailable: p.Defaults.SanctionsLevel > 0,
		MaxRiskLevel:       p.Defaults.RiskLevel,
		MaxSanctionsLevel:  p.Defaults.SanctionsLevel,
	}
}

// HasModule reports whether t is available under these capabilities.
func (c Capabilities) HasModule(t catalog.VerificationType) bool {
	for _, m := range c.AvailableModules {
		if m == t {
			return true
		}
	}
	return false
}
