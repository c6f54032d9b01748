package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "veridesk/pkg/domain-errors"
)

// TestParseOpaqueID_Invariants validates the parsing invariant:
// backend identifiers must be non-empty, bounded, printable strings.
func TestParseOpaqueID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseApplicantID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects whitespace only", func(t *testing.T) {
		_, err := ParseApplicantID("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		id, err := ParsePlanID("  665f1c2e9b1d8a0012ab34cd  ")
		require.NoError(t, err)
		assert.Equal(t, PlanID("665f1c2e9b1d8a0012ab34cd"), id)
	})

	t.Run("accepts backend-style hex ID", func(t *testing.T) {
		id, err := ParseApplicantID("665f1c2e9b1d8a0012ab34cd")
		require.NoError(t, err)
		assert.Equal(t, "665f1c2e9b1d8a0012ab34cd", id.String())
	})
}

// TestParseOpaqueID_SecurityInvariants validates trust-boundary parsing rules.
// Parsing must reject attack vectors at API entry points.
func TestParseOpaqueID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"null byte injection", "665f1c2e\x009b1d8a0012ab34cd", true},
		{"embedded whitespace", "665f1c2e 9b1d", true},
		{"control character", "665f\n1c2e", true},
		{"oversized input", strings.Repeat("a", 1000), true},
		{"non-ASCII", "665f1c2e​9b1d", true},
		{"valid UUID-shaped ID", "550e8400-e29b-41d4-a716-446655440000", false},
		{"valid short ID", "plan-basic", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlowID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestTypeDistinction verifies the compiler enforces type safety.
// If this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	planID := PlanID("plan-1")
	applicantID := ApplicantID("applicant-1")

	// These would fail to compile if types were interchangeable:
	// var _ PlanID = applicantID      // compile error
	// var _ ApplicantID = planID     // compile error

	assert.NotEqual(t, string(planID), string(applicantID))
}

func TestSessionID(t *testing.T) {
	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseSessionID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-UUID", func(t *testing.T) {
		_, err := ParseSessionID("not-a-uuid")
		require.Error(t, err)
	})

	t.Run("round-trips a generated ID", func(t *testing.T) {
		id := NewSessionID()
		require.False(t, id.IsNil())
		parsed, err := ParseSessionID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("serializes as a canonical UUID string", func(t *testing.T) {
		id := NewSessionID()
		data, err := json.Marshal(id)
		require.NoError(t, err)
		assert.Equal(t, `"`+id.String()+`"`, string(data))

		var decoded SessionID
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, id, decoded)
	})
}
