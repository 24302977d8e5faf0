package dto

import "time"

type ReportIssueRequest struct {
	ShipmentID  string `json:"shipment_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type IssueResponse struct {
	ID          string     `json:"id"`
	ShipmentID  string     `json:"shipment_id"`
	ReporterID  string     `json:"reporter_id"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SubmitProofRequest struct {
	PhotoURL   string `json:"photo_url"`
	SignerName string `json:"signer_name"`
	Notes      string `json:"notes"`
}

type ProofResponse struct {
	ID         string    `json:"id"`
	ShipmentID string    `json:"shipment_id"`
	UploadedBy string    `json:"uploaded_by"`
	PhotoURL   string    `json:"photo_url"`
	SignerName string    `json:"signer_name"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type CustomerResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
