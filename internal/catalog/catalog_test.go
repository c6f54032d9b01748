package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_CatalogOrder(t *testing.T) {
	types := Types()
	require.Equal(t, []VerificationType{
		TypeIDDocument,
		TypeSelfie,
		TypeEmail,
		TypePhone,
		TypeProofOfAddress,
	}, types)
}

func TestOptions_ReturnsCopy(t *testing.T) {
	opts := Options()
	opts[0].Label = "mutated"

	fresh := Options()
	assert.Equal(t, "Identity Document", fresh[0].Label)
}

func TestLookup(t *testing.T) {
	opt, ok := Lookup(TypeEmail)
	require.True(t, ok)
	assert.Equal(t, "Email Verification", opt.Label)

	_, ok = Lookup(VerificationType("biometricGait"))
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	assert.True(t, TypeIDDocument.IsValid())
	assert.True(t, TypeProofOfAddress.IsValid())
	assert.False(t, VerificationType("").IsValid())
	assert.False(t, VerificationType("IDDOCUMENT").IsValid())
}
