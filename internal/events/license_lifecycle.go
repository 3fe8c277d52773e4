package events

import "time"

const LicenseLifecycleTopic = "hr.license.lifecycle.v1"

const (
	EventTypeLicenseSubmitted     = "license.request.submitted"
	EventTypeLicenseStatusChanged = "license.status.changed"
)

type LicenseSubmittedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	Radicado   string    `json:"radicado"`
	PermitType string    `json:"permit_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LicenseStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	Radicado   string    `json:"radicado"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	OccurredAt time.Time `json:"occurred_at"`
}
