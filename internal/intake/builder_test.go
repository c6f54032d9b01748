package intake

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridesk/internal/catalog"
	dErrors "veridesk/pkg/domain-errors"
)

func TestBuild_ValidationFailures(t *testing.T) {
	p := fullPlan()

	t.Run("nil plan", func(t *testing.T) {
		_, err := Build(Selection{catalog.TypeIDDocument}, FeatureToggles{}, nil, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		assert.Contains(t, err.Error(), "subscription plan")
	})

	t.Run("empty selection", func(t *testing.T) {
		_, err := Build(Selection{}, FeatureToggles{}, p, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		assert.Contains(t, err.Error(), "at least one verification type")
	})

	t.Run("nil selection", func(t *testing.T) {
		_, err := Build(nil, FeatureToggles{}, p, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestBuild_FreshRecord(t *testing.T) {
	p := fullPlan()
	sel := Selection{catalog.TypeIDDocument, catalog.TypeEmail}
	features := FeatureToggles{RiskEnabled: true, RiskLevel: 3}

	rec, err := Build(sel, features, p, nil)
	require.NoError(t, err)

	require.Len(t, rec.RequiredVerifications, 2)
	for i, entry := range rec.RequiredVerifications {
		assert.Equal(t, sel[i], entry.VerificationType)
		assert.Equal(t, StatusPending, entry.Status)
		assert.Nil(t, entry.CompletedAt)
		assert.Nil(t, entry.VerificationData)
		assert.Empty(t, entry.Notes)
	}
	assert.Equal(t, 3, rec.VerificationConfig.RiskLevel)
	assert.Zero(t, rec.VerificationConfig.SanctionsLevel, "disabled feature submits level 0")
	assert.Equal(t, p.ID, rec.SubscriptionPlan)
}

func TestBuild_PreservesExistingEntries(t *testing.T) {
	p := fullPlan()
	completed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	data := json.RawMessage(`{"documentType":"passport","country":"DE"}`)
	existing := &VerificationRecord{
		RequiredVerifications: []RequiredVerification{
			{
				VerificationType: catalog.TypeIDDocument,
				Status:           StatusVerified,
				CompletedAt:      &completed,
				VerificationData: data,
				Notes:            "manually reviewed",
			},
			{VerificationType: catalog.TypePhone, Status: StatusFailed},
		},
	}

	// The operator keeps idDocument, drops phone, adds selfie.
	sel := Selection{catalog.TypeIDDocument, catalog.TypeSelfie}
	rec, err := Build(sel, FeatureToggles{}, p, existing)
	require.NoError(t, err)

	require.Len(t, rec.RequiredVerifications, 2)

	kept := rec.RequiredVerifications[0]
	assert.Equal(t, catalog.TypeIDDocument, kept.VerificationType)
	assert.Equal(t, StatusVerified, kept.Status)
	assert.Equal(t, &completed, kept.CompletedAt)
	assert.Equal(t, data, kept.VerificationData)
	assert.Equal(t, "manually reviewed", kept.Notes)

	added := rec.RequiredVerifications[1]
	assert.Equal(t, catalog.TypeSelfie, added.VerificationType)
	assert.Equal(t, StatusPending, added.Status)
}

func TestBuild_Idempotent(t *testing.T) {
	p := fullPlan()
	completed := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	existing := &VerificationRecord{
		RequiredVerifications: []RequiredVerification{
			{VerificationType: catalog.TypeIDDocument, Status: StatusVerified, CompletedAt: &completed},
			{VerificationType: catalog.TypeEmail, Status: StatusPending},
		},
	}
	sel := Selection{catalog.TypeIDDocument, catalog.TypeEmail}
	features := FeatureToggles{RiskEnabled: true, RiskLevel: 3, SanctionsEnabled: true, SanctionsLevel: 2}

	first, err := Build(sel, features, p, existing)
	require.NoError(t, err)
	second, err := Build(sel, features, p, &first)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b), "re-submitting an unchanged form must produce an identical payload")
}

func TestBuildSubmission_FromConfigurator(t *testing.T) {
	c := New(fullPlan(), PolicySelectAll)

	rec, err := c.BuildSubmission(nil)
	require.NoError(t, err)

	assert.Len(t, rec.RequiredVerifications, len(catalog.Types()))
	assert.Equal(t, 3, rec.VerificationConfig.RiskLevel)
	assert.Equal(t, 2, rec.VerificationConfig.SanctionsLevel)
}
