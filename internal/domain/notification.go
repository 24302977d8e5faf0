package domain

import "time"

type NotificationType string

const (
	NotifyBidReceived      NotificationType = "bid_received"
	NotifyBidAccepted      NotificationType = "bid_accepted"
	NotifyBidRejected      NotificationType = "bid_rejected"
	NotifyShipmentAssigned NotificationType = "shipment_assigned"
	NotifyStatusChanged    NotificationType = "status_changed"
	NotifyIssueReported    NotificationType = "issue_reported"
	NotifyDelivered        NotificationType = "delivered"
	NotifySystem           NotificationType = "system"
)

// Notification is a per-user inbox row created by workflow transitions.
// Only the read flag ever changes after insert.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	RelatedID string
	Read      bool
	CreatedAt time.Time
}
