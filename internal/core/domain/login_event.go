package domain

import "time"

// HistoryLimit is the number of login events returned by a history read.
const HistoryLimit = 50

// LoginEvent is one authentication attempt. UserID is nil when the email
// did not match any account.
type LoginEvent struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId"`
	Success   bool      `json:"success"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}
