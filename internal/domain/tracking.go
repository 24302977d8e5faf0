package domain

import "time"

type TrackingEventType string

const (
	TrackingPosted         TrackingEventType = "posted"
	TrackingBidAccepted    TrackingEventType = "bid_accepted"
	TrackingStatusChange   TrackingEventType = "status_change"
	TrackingLocationUpdate TrackingEventType = "location_update"
	TrackingIssueReported  TrackingEventType = "issue_reported"
	TrackingProofSubmitted TrackingEventType = "proof_submitted"
)

// TrackingEvent is an append-only log entry describing shipment progress.
// Events are never mutated or deleted.
type TrackingEvent struct {
	ID          string
	ShipmentID  string
	Type        TrackingEventType
	Description string
	Lat         *float64
	Lon         *float64
	CreatedBy   string
	CreatedAt   time.Time
}
