package models

import "time"

// Метки действий в журнале.
const (
	ActionCreated = "Created order"
	ActionTracked = "Tracked order"
	ActionUpdated = "Updated order"
)

type ActionEntry struct {
	Label     string    `json:"label"`
	OrderID   string    `json:"orderId"`
	Timestamp time.Time `json:"timestamp"`
	Status    *string   `json:"status,omitempty"`
}

func (e ActionEntry) StatusOrEmpty() string {
	if e.Status == nil {
		return ""
	}
	return *e.Status
}
