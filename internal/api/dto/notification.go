package dto

import "time"

type SendNotificationRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID string    `json:"related_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
