package messages

import "time"

// ActionRecorded is emitted for every entry appended to a console session's
// audit log.
type ActionRecorded struct {
	EventID    string    `json:"event_id"`
	SessionID  string    `json:"session_id"`
	Label      string    `json:"label"`
	OrderID    string    `json:"order_id"`
	Status     *string   `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
