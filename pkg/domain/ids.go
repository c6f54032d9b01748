// Package domain defines typed identifiers shared across the console.
//
// The remote platform issues opaque string IDs for the records it owns
// (plans, applicants, flows, client accounts); the console never interprets
// them beyond validation. Console-owned identifiers (sessions) are UUIDs.
// Distinct types prevent cross-entity assignment at compile time.
package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	dErrors "veridesk/pkg/domain-errors"
)

// Backend-owned identifiers. Opaque strings; validated at trust boundaries.
type (
	PlanID      string
	ApplicantID string
	FlowID      string
	ClientID    string
)

// SessionID identifies a console operator session.
type SessionID uuid.UUID

const maxIDLength = 64

// parseOpaqueID validates a backend identifier: non-empty after trimming,
// bounded length, printable characters only. Rejects the obvious attack
// vectors (null bytes, control characters, oversized input) at API entry.
func parseOpaqueID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identifier cannot be empty")
	}
	if len(s) > maxIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identifier too long")
	}
	for _, r := range s {
		if r > unicode.MaxASCII || unicode.IsControl(r) || unicode.IsSpace(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "identifier contains invalid characters")
		}
	}
	return s, nil
}

func ParsePlanID(s string) (PlanID, error) {
	v, err := parseOpaqueID(s)
	return PlanID(v), err
}

func ParseApplicantID(s string) (ApplicantID, error) {
	v, err := parseOpaqueID(s)
	return ApplicantID(v), err
}

func ParseFlowID(s string) (FlowID, error) {
	v, err := parseOpaqueID(s)
	return FlowID(v), err
}

func ParseClientID(s string) (ClientID, error) {
	v, err := parseOpaqueID(s)
	return ClientID(v), err
}

func (id PlanID) String() string      { return string(id) }
func (id ApplicantID) String() string { return string(id) }
func (id FlowID) String() string      { return string(id) }
func (id ClientID) String() string    { return string(id) }

func (id PlanID) IsZero() bool      { return id == "" }
func (id ApplicantID) IsZero() bool { return id == "" }
func (id FlowID) IsZero() bool      { return id == "" }
func (id ClientID) IsZero() bool    { return id == "" }

// NewSessionID generates a fresh session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// ParseSessionID validates a session identifier: a valid, non-nil UUID.
func ParseSessionID(s string) (SessionID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid session ID")
	}
	if parsed == uuid.Nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session ID cannot be nil")
	}
	return SessionID(parsed), nil
}

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id SessionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the canonical UUID form so sessions serialize as
// strings rather than byte arrays.
func (id SessionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SessionID) UnmarshalText(data []byte) error {
	parsed, err := ParseSessionID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
