package domain

import "time"

// Notification types.
const (
	NotificationInfo    = "INFO"
	NotificationWarning = "WARNING"
	NotificationSuccess = "SUCCESS"
)

// Notification is an in-app message shown on the dashboard bell.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Category  string    `json:"category,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
