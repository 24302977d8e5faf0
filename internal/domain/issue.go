package domain

import "time"

type IssueStatus string

const (
	IssueOpen     IssueStatus = "open"
	IssueResolved IssueStatus = "resolved"
)

type Issue struct {
	ID          string
	ShipmentID  string
	ReporterID  string
	Type        string
	Description string
	Status      IssueStatus
	ResolvedAt  *time.Time
	CreatedAt   time.Time
}
