package intake

import (
	"veridesk/internal/catalog"
	"veridesk/internal/plan"
)

// Selection is the set of verification types currently chosen by an operator,
// held in catalog order. A Selection is always a subset of the active plan's
// available modules; types outside that set are silently dropped on the way in.
type Selection []catalog.VerificationType

// NewSelection builds a selection from the requested types, keeping only
// types available under caps and normalizing to catalog order. Duplicates
// and unknown types are dropped.
func NewSelection(caps plan.Capabilities, requested []catalog.VerificationType) Selection {
	want := make(map[catalog.VerificationType]bool, len(requested))
	for _, t := range requested {
		want[t] = true
	}

	var sel Selection
	for _, t := range caps.AvailableModules {
		if want[t] {
			sel = append(sel, t)
		}
	}
	return sel
}

// Contains reports whether t is selected.
func (s Selection) Contains(t catalog.VerificationType) bool {
	for _, v := range s {
		if v == t {
			return true
		}
	}
	return false
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s) == 0
}

// SelectionPolicy names how the selection reacts when the active plan
// changes. The two console use-cases deliberately diverge:
//
//   - PolicySelectAll (create forms): the selection resets to the full set of
//     the new plan's available modules, so a fresh applicant or flow starts
//     with everything the plan offers.
//   - PolicyIntersect (edit forms): the current selection is intersected with
//     the new plan's available modules, preserving still-valid choices so an
//     operator switching plans mid-edit does not lose work.
//
// This is a per-use-case design choice, not an accident; each surface picks
// its policy explicitly.
type SelectionPolicy string

const (
	PolicySelectAll SelectionPolicy = "select_all"
	PolicyIntersect SelectionPolicy = "intersect"
)

// apply produces the selection after a plan change under this policy.
func (p SelectionPolicy) apply(caps plan.Capabilities, current Selection) Selection {
	switch p {
	case PolicyIntersect:
		return NewSelection(caps, current)
	default:
		// Select-all is the safe default for creation surfaces.
		sel := make(Selection, len(caps.AvailableModules))
		copy(sel, caps.AvailableModules)
		return sel
	}
}

// CanEnableRisk reports whether the selection satisfies the risk scoring
// prerequisites: the backend extracts identity and contact data from the ID
// document and email verifications.
func CanEnableRisk(s Selection) bool {
	return s.Contains(catalog.TypeIDDocument) && s.Contains(catalog.TypeEmail)
}

// CanEnableSanctions reports whether the selection satisfies the sanctions
// screening prerequisite: name, birth date and identifier come from the ID
// document verification.
func CanEnableSanctions(s Selection) bool {
	return s.Contains(catalog.TypeIDDocument)
}
