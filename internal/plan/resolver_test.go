package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridesk/internal/catalog"
)

func TestResolve_NilPlan(t *testing.T) {
	caps := Resolve(nil)

	assert.Empty(t, caps.AvailableModules)
	assert.False(t, caps.RiskAvailable)
	assert.False(t, caps.SanctionsAvailable)
	assert.Zero(t, caps.MaxRiskLevel)
	assert.Zero(t, caps.MaxSanctionsLevel)
}

func TestResolve_PreservesCatalogOrder(t *testing.T) {
	// Intake modules deliberately listed out of catalog order.
	p := &SubscriptionPlan{
		ID:   "plan-pro",
		Name: "Pro",
		IntakeModules: []catalog.VerificationType{
			catalog.TypePhone,
			catalog.TypeIDDocument,
			catalog.TypeEmail,
		},
	}

	caps := Resolve(p)
	require.Equal(t, []catalog.VerificationType{
		catalog.TypeIDDocument,
		catalog.TypeEmail,
		catalog.TypePhone,
	}, caps.AvailableModules)
}

func TestResolve_FeatureAvailability(t *testing.T) {
	tests := []struct {
		name          string
		defaults      Defaults
		wantRisk      bool
		wantSanctions bool
	}{
		{"both zero", Defaults{}, false, false},
		{"risk only", Defaults{RiskLevel: 2}, true, false},
		{"sanctions only", Defaults{SanctionsLevel: 1}, false, true},
		{"both set", Defaults{RiskLevel: 3, SanctionsLevel: 2}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &SubscriptionPlan{
				ID:            "plan-x",
				IntakeModules: catalog.Types(),
				Defaults:      tt.defaults,
			}
			caps := Resolve(p)
			assert.Equal(t, tt.wantRisk, caps.RiskAvailable)
			assert.Equal(t, tt.wantSanctions, caps.SanctionsAvailable)
			assert.Equal(t, tt.defaults.RiskLevel, caps.MaxRiskLevel)
			assert.Equal(t, tt.defaults.SanctionsLevel, caps.MaxSanctionsLevel)
		})
	}
}

// Scenario from the configurator contract: a plan can make the prerequisite
// modules selectable while still withholding a feature through a zero default.
func TestResolve_ZeroDefaultWithEligibleModules(t *testing.T) {
	p := &SubscriptionPlan{
		ID:   "plan-basic",
		Name: "Basic",
		IntakeModules: []catalog.VerificationType{
			catalog.TypeIDDocument,
			catalog.TypeEmail,
			catalog.TypeSelfie,
		},
		Defaults: Defaults{RiskLevel: 2, SanctionsLevel: 0},
	}

	caps := Resolve(p)
	assert.True(t, caps.RiskAvailable)
	assert.False(t, caps.SanctionsAvailable, "zero sanctions default withholds the feature regardless of modules")
	assert.True(t, caps.HasModule(catalog.TypeIDDocument))
	assert.False(t, caps.HasModule(catalog.TypeProofOfAddress))
}
