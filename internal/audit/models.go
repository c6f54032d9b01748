package audit

import (
	"time"

	id "veridesk/pkg/domain"
)

// Action names an operator action recorded on the audit trail.
type Action string

const (
	ActionLogin  Action = "operator_login"
	ActionLogout Action = "operator_logout"

	ActionApplicantCreated Action = "applicant_created"
	ActionApplicantUpdated Action = "applicant_updated"
	ActionApplicantDeleted Action = "applicant_deleted"

	ActionFlowCreated Action = "flow_created"
	ActionFlowUpdated Action = "flow_updated"
	ActionFlowDeleted Action = "flow_deleted"

	ActionPlansRefreshed Action = "plans_refreshed"
)

// Event is emitted from domain logic to capture key operator actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action     Action       `json:"action"`
	SessionID  id.SessionID `json:"session_id"`
	Role       string       `json:"role"`
	Actor      string       `json:"actor"`
	TargetID   string       `json:"target_id,omitempty"`
	RequestID  string       `json:"request_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}
