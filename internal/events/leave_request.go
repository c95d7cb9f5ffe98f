package events

import "time"

const LeaveRequestTopic = "leave.request.lifecycle.v1"

const (
	EventTypeSubmitted     = "leave_request.submitted"
	EventTypeCancelled     = "leave_request.cancelled"
	EventTypeStatusChanged = "leave_request.status_changed"
)

type LeaveRequestEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  uint      `json:"request_id"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
