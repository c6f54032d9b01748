package intake

import (
	"veridesk/internal/catalog"
	"veridesk/internal/plan"
)

// Configurator is the feature eligibility engine for one form session. It
// owns the selection and the risk / sanctions toggle state and keeps them
// consistent with the active plan's capabilities.
//
// Enablement invariants, restored after every mutation:
//   - risk enabled    ⇒ risk available on the plan AND selection includes
//     idDocument and email
//   - sanctions enabled ⇒ sanctions available on the plan AND selection
//     includes idDocument
//
// When a selection change breaks a prerequisite the affected feature is
// forced off in the same update, so callers never observe an enabled but
// ineligible feature. Re-adding the prerequisite does not re-enable the
// feature; that is a deliberate manual opt-in.
//
// Not safe for concurrent use: each configurator belongs to a single request
// or form session.
type Configurator struct {
	plan      *plan.SubscriptionPlan
	caps      plan.Capabilities
	policy    SelectionPolicy
	selection Selection
	features  FeatureToggles
}

// Changes reports side effects of a mutation: features that were forcibly
// disabled because their prerequisites no longer hold.
type Changes struct {
	RiskForcedOff      bool
	SanctionsForcedOff bool
}

func (ch Changes) Any() bool {
	return ch.RiskForcedOff || ch.SanctionsForcedOff
}

// New starts a configurator for a creation surface. The selection is seeded
// per the policy (select-all for create forms) and the feature toggles are
// initialized from the plan defaults: a feature starts enabled only when the
// plan makes it available, the seeded selection satisfies its prerequisites,
// and the plan default level is positive.
func New(p *plan.SubscriptionPlan, policy SelectionPolicy) *Configurator {
	c := &Configurator{
		plan:   p,
		caps:   plan.Resolve(p),
		policy: policy,
	}
	c.selection = policy.apply(c.caps, nil)
	c.initFeatures()
	return c
}

// NewFromRecord starts a configurator for an edit surface, seeded from an
// existing backend record. The stored selection is clamped to the plan's
// available modules and the toggles reflect the stored config levels. Any
// invariant violation in the stored record (an enabled feature whose
// prerequisites no longer hold) is auto-corrected, not treated as an error.
func NewFromRecord(p *plan.SubscriptionPlan, rec VerificationRecord) *Configurator {
	c := &Configurator{
		plan:   p,
		caps:   plan.Resolve(p),
		policy: PolicyIntersect,
	}

	types := make([]catalog.VerificationType, 0, len(rec.RequiredVerifications))
	for _, rv := range rec.RequiredVerifications {
		types = append(types, rv.VerificationType)
	}
	c.selection = NewSelection(c.caps, types)

	c.features = FeatureToggles{
		RiskEnabled:      rec.VerificationConfig.RiskLevel > 0,
		RiskLevel:        rec.VerificationConfig.RiskLevel,
		SanctionsEnabled: rec.VerificationConfig.SanctionsLevel > 0,
		SanctionsLevel:   rec.VerificationConfig.SanctionsLevel,
	}
	c.enforce()
	return c
}

func (c *Configurator) Plan() *plan.SubscriptionPlan { return c.plan }

func (c *Configurator) Capabilities() plan.Capabilities { return c.caps }

// Selection returns a copy of the current selection.
func (c *Configurator) Selection() Selection {
	out := make(Selection, len(c.selection))
	copy(out, c.selection)
	return out
}

func (c *Configurator) Features() FeatureToggles { return c.features }

// ChangePlan swaps the active plan. The selection is recomputed under the
// configurator's policy; the feature toggles are re-seeded from the new
// plan's defaults on creation surfaces and reset to off on edit surfaces,
// mirroring how the console forms behave.
func (c *Configurator) ChangePlan(p *plan.SubscriptionPlan) Changes {
	prev := c.features

	c.plan = p
	c.caps = plan.Resolve(p)
	c.selection = c.policy.apply(c.caps, c.selection)

	if c.policy == PolicySelectAll {
		c.initFeatures()
	} else {
		c.features = FeatureToggles{}
	}

	return Changes{
		RiskForcedOff:      prev.RiskEnabled && !c.features.RiskEnabled,
		SanctionsForcedOff: prev.SanctionsEnabled && !c.features.SanctionsEnabled,
	}
}

// SetSelection replaces the selection. Types outside the plan's available
// modules are silently dropped. Features whose prerequisites are withdrawn
// by the new selection are forced off within the same update.
func (c *Configurator) SetSelection(types []catalog.VerificationType) Changes {
	c.selection = NewSelection(c.caps, types)
	return c.enforce()
}

// ToggleRisk attempts a risk toggle. Disabling is always permitted; enabling
// requires the plan to offer risk scoring and the selection to satisfy its
// prerequisites, and sets the level to the plan default. An ineligible enable
// is a silent no-op. Returns whether the state changed.
func (c *Configurator) ToggleRisk(enabled bool) bool {
	if !enabled {
		changed := c.features.RiskEnabled
		c.features.RiskEnabled = false
		c.features.RiskLevel = 0
		return changed
	}

	if c.features.RiskEnabled {
		return false
	}
	if !c.caps.RiskAvailable || !CanEnableRisk(c.selection) {
		return false
	}
	c.features.RiskEnabled = true
	c.features.RiskLevel = c.caps.MaxRiskLevel
	return true
}

// ToggleSanctions attempts a sanctions toggle. Same rules as ToggleRisk with
// the sanctions prerequisite set.
func (c *Configurator) ToggleSanctions(enabled bool) bool {
	if !enabled {
		changed := c.features.SanctionsEnabled
		c.features.SanctionsEnabled = false
		c.features.SanctionsLevel = 0
		return changed
	}

	if c.features.SanctionsEnabled {
		return false
	}
	if !c.caps.SanctionsAvailable || !CanEnableSanctions(c.selection) {
		return false
	}
	c.features.SanctionsEnabled = true
	c.features.SanctionsLevel = c.caps.MaxSanctionsLevel
	return true
}

// State is a read-only snapshot of the configurator for the SPA.
type State struct {
	Plan               *plan.SubscriptionPlan `json:"plan,omitempty"`
	Capabilities       plan.Capabilities      `json:"capabilities"`
	Selection          Selection              `json:"selection"`
	Features           FeatureToggles         `json:"features"`
	CanEnableRisk      bool                   `json:"canEnableRisk"`
	CanEnableSanctions bool                   `json:"canEnableSanctions"`
}

func (c *Configurator) State() State {
	return State{
		Plan:               c.plan,
		Capabilities:       c.caps,
		Selection:          c.Selection(),
		Features:           c.features,
		CanEnableRisk:      CanEnableRisk(c.selection),
		CanEnableSanctions: CanEnableSanctions(c.selection),
	}
}

// initFeatures seeds the toggles from the plan defaults, respecting the
// eligibility prerequisites against the current selection.
func (c *Configurator) initFeatures() {
	c.features = FeatureToggles{}
	if c.caps.RiskAvailable && CanEnableRisk(c.selection) && c.caps.MaxRiskLevel > 0 {
		c.features.RiskEnabled = true
		c.features.RiskLevel = c.caps.MaxRiskLevel
	}
	if c.caps.SanctionsAvailable && CanEnableSanctions(c.selection) && c.caps.MaxSanctionsLevel > 0 {
		c.features.SanctionsEnabled = true
		c.features.SanctionsLevel = c.caps.MaxSanctionsLevel
	}
}

// enforce restores the enablement invariants after a mutation, forcing off
// any feature whose prerequisites no longer hold.
func (c *Configurator) enforce() Changes {
	var ch Changes
	if c.features.RiskEnabled && !(c.caps.RiskAvailable && CanEnableRisk(c.selection)) {
		c.features.RiskEnabled = false
		c.features.RiskLevel = 0
		ch.RiskForcedOff = true
	}
	if c.features.SanctionsEnabled && !(c.caps.SanctionsAvailable && CanEnableSanctions(c.selection)) {
		c.features.SanctionsEnabled = false
		c.features.SanctionsLevel = 0
		ch.SanctionsForcedOff = true
	}
	return ch
}
