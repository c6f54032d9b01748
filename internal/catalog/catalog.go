// Package catalog defines the immutable catalog of verification modules the
// platform can run against an applicant. Entries carry display metadata for
// the console UI and never change at runtime; subscription plans reference a
// subset of them.
package catalog

// VerificationType identifies a verification module.
type VerificationType string

const (
	TypeIDDocument     VerificationType = "idDocument"
	TypeSelfie         VerificationType = "selfie"
	TypeEmail          VerificationType = "email"
	TypePhone          VerificationType = "phone"
	TypeProofOfAddress VerificationType = "proofOfAddress"
)

// Option is a catalog entry with its display metadata.
type Option struct {
	Type        VerificationType `json:"verificationType"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
}

// all lists every verification module in catalog order. The order is part of
// the contract: derived module lists preserve it.
var all = []Option{
	{
		Type:        TypeIDDocument,
		Label:       "Identity Document",
		Description: "ID card, passport, residence permit or driver's license",
	},
	{
		Type:        TypeSelfie,
		Label:       "Selfie",
		Description: "Face verification selfie",
	},
	{
		Type:        TypeEmail,
		Label:       "Email Verification",
		Description: "Email address verification",
	},
	{
		Type:        TypePhone,
		Label:       "Phone Verification",
		Description: "Phone number verification",
	},
	{
		Type:        TypeProofOfAddress,
		Label:       "POA Verification",
		Description: "Proof of address document",
	},
}

// Options returns the full catalog in catalog order. The caller receives a
// copy; the catalog itself is immutable.
func Options() []Option {
	out := make([]Option, len(all))
	copy(out, all)
	return out
}

// Types returns every verification type in catalog order.
func Types() []VerificationType {
	out := make([]VerificationType, 0, len(all))
	for _, opt := range all {
		out = append(out, opt.Type)
	}
	return out
}

// Lookup returns the catalog entry for t, if it exists.
func Lookup(t VerificationType) (Option, bool) {
	for _, opt := range all {
		if opt.Type == t {
			return opt, true
		}
	}
	return Option{}, false
}

// IsValid reports whether t names a known verification module.
func (t VerificationType) IsValid() bool {
	_, ok := Lookup(t)
	return ok
}
