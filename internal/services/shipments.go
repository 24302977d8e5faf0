package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/platform/obs"
	"freight-marketplace-service/internal/ports"
)

// ShipmentService owns shipment creation and the caller-driven status
// workflow: every transition is a conditional update plus an appended
// tracking event plus a notification to the counter-party.
type ShipmentService struct {
	Shipments ports.ShipmentRepository
	Tracking  ports.TrackingRepository
	Proofs    ports.ProofRepository
	Issues    ports.IssueRepository
	Drivers   ports.DriverRepository

	fanout
}

func NewShipmentService(
	shipments ports.ShipmentRepository,
	tracking ports.TrackingRepository,
	proofs ports.ProofRepository,
	issues ports.IssueRepository,
	drivers ports.DriverRepository,
	notifications ports.NotificationRepository,
	notifier ports.Notifier,
	log *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		Shipments: shipments,
		Tracking:  tracking,
		Proofs:    proofs,
		Issues:    issues,
		Drivers:   drivers,
		fanout:    fanout{Notifications: notifications, Notifier: notifier, Log: log},
	}
}

type CreateShipmentInput struct {
	OriginCity       string
	OriginState      string
	DestinationCity  string
	DestinationState string
	WeightKg         float64
	Rate             float64
	Equipment        domain.EquipmentType
	Commodity        string
	PickupDate       *time.Time
	DeliveryDate     *time.Time
}

func (s *ShipmentService) Create(ctx context.Context, shipperID string, in CreateShipmentInput) (*domain.Shipment, error) {
	if strings.TrimSpace(in.OriginCity) == "" || strings.TrimSpace(in.DestinationCity) == "" {
		return nil, domain.Invalid("origin and destination cities are required")
	}
	if in.WeightKg <= 0 {
		return nil, domain.Invalid("weight must be greater than zero")
	}
	if !in.Equipment.Valid() {
		return nil, domain.Invalid("unknown equipment type %q", in.Equipment)
	}

	shipment := &domain.Shipment{
		ID:               uuid.NewString(),
		ShipperID:        shipperID,
		OriginCity:       strings.TrimSpace(in.OriginCity),
		OriginState:      strings.TrimSpace(in.OriginState),
		DestinationCity:  strings.TrimSpace(in.DestinationCity),
		DestinationState: strings.TrimSpace(in.DestinationState),
		WeightKg:         in.WeightKg,
		Rate:             in.Rate,
		Equipment:        in.Equipment,
		Commodity:        strings.TrimSpace(in.Commodity),
		Status:           domain.ShipmentPosted,
		PickupDate:       in.PickupDate,
		DeliveryDate:     in.DeliveryDate,
	}
	if err := s.Shipments.Create(ctx, shipment); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	s.appendEvent(ctx, shipment.ID, domain.TrackingPosted,
		fmt.Sprintf("shipment posted: %s to %s", shipment.OriginCity, shipment.DestinationCity),
		shipperID, nil, nil)

	return shipment, nil
}

// UpdateStatus drives assigned -> in_transit. Delivery happens through
// SubmitProof and assignment through bid acceptance, so this entry point only
// accepts the transitions a carrier may trigger directly.
func (s *ShipmentService) UpdateStatus(ctx context.Context, callerID string, role domain.Role, shipmentID string, to domain.ShipmentStatus, description string) (*domain.Shipment, error) {
	shipment, err := s.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("update shipment status: %w", err)
	}

	if to != domain.ShipmentInTransit {
		return nil, fmt.Errorf("update shipment status: %s is not caller-settable: %w", to, domain.ErrConflict)
	}
	if !s.actsForCarrier(ctx, shipment, callerID, role) {
		return nil, fmt.Errorf("update shipment status: caller is not the assigned carrier: %w", domain.ErrForbidden)
	}

	if err := s.Shipments.TransitionStatus(ctx, shipmentID, shipment.Status, to); err != nil {
		return nil, fmt.Errorf("update shipment status: %w", err)
	}

	if description == "" {
		description = fmt.Sprintf("status changed from %s to %s", shipment.Status, to)
	}
	s.appendEvent(ctx, shipmentID, domain.TrackingStatusChange, description, callerID, nil, nil)

	s.notify(ctx, shipment.ShipperID, domain.NotifyStatusChanged,
		"Shipment update",
		fmt.Sprintf("Your %s to %s shipment is now %s", shipment.OriginCity, shipment.DestinationCity, to),
		shipment.ID)

	return s.Shipments.GetByID(ctx, shipmentID)
}

// Cancel is available to the shipper while the shipment is posted or assigned.
func (s *ShipmentService) Cancel(ctx context.Context, callerID string, role domain.Role, shipmentID string) (*domain.Shipment, error) {
	shipment, err := s.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("cancel shipment: %w", err)
	}
	if shipment.ShipperID != callerID && role != domain.RoleAdmin {
		return nil, fmt.Errorf("cancel shipment: caller is not the shipper: %w", domain.ErrForbidden)
	}

	if err := s.Shipments.TransitionStatus(ctx, shipmentID, shipment.Status, domain.ShipmentCancelled); err != nil {
		return nil, fmt.Errorf("cancel shipment: %w", err)
	}

	s.appendEvent(ctx, shipmentID, domain.TrackingStatusChange, "shipment cancelled by shipper", callerID, nil, nil)

	if shipment.CarrierID != nil {
		s.notify(ctx, *shipment.CarrierID, domain.NotifyStatusChanged,
			"Shipment cancelled",
			fmt.Sprintf("The %s to %s shipment was cancelled", shipment.OriginCity, shipment.DestinationCity),
			shipment.ID)
	}

	return s.Shipments.GetByID(ctx, shipmentID)
}

type SubmitProofInput struct {
	PhotoURL   string
	SignerName string
	Notes      string
}

// SubmitProof records the delivery confirmation and drives the shipment to
// delivered. The proof row is insert-only; the status flip is the CAS update.
func (s *ShipmentService) SubmitProof(ctx context.Context, callerID string, role domain.Role, shipmentID string, in SubmitProofInput) (proof *domain.DeliveryProof, err error) {
	defer obs.Time(ctx, s.Log, "shipments.SubmitProof")(&err)

	shipment, err := s.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("submit proof: %w", err)
	}
	if !s.actsForCarrier(ctx, shipment, callerID, role) {
		return nil, fmt.Errorf("submit proof: caller is not the assigned carrier: %w", domain.ErrForbidden)
	}

	if err := s.Shipments.TransitionStatus(ctx, shipmentID, domain.ShipmentInTransit, domain.ShipmentDelivered); err != nil {
		return nil, fmt.Errorf("submit proof: %w", err)
	}

	proof = &domain.DeliveryProof{
		ID:         uuid.NewString(),
		ShipmentID: shipmentID,
		UploadedBy: callerID,
		PhotoURL:   strings.TrimSpace(in.PhotoURL),
		SignerName: strings.TrimSpace(in.SignerName),
		Notes:      strings.TrimSpace(in.Notes),
	}
	if err := s.Proofs.Create(ctx, proof); err != nil {
		return nil, fmt.Errorf("submit proof: %w", err)
	}

	s.appendEvent(ctx, shipmentID, domain.TrackingProofSubmitted,
		"proof of delivery submitted", callerID, nil, nil)

	s.notify(ctx, shipment.ShipperID, domain.NotifyDelivered,
		"Shipment delivered",
		fmt.Sprintf("Your %s to %s shipment was delivered", shipment.OriginCity, shipment.DestinationCity),
		shipment.ID)

	return proof, nil
}

type ReportIssueInput struct {
	Type        string
	Description string
}

// ReportIssue files an issue against a shipment and notifies the other side
// of the relationship.
func (s *ShipmentService) ReportIssue(ctx context.Context, callerID string, shipmentID string, in ReportIssueInput) (*domain.Issue, error) {
	if strings.TrimSpace(in.Type) == "" {
		return nil, domain.Invalid("issue type is required")
	}

	shipment, err := s.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("report issue: %w", err)
	}

	issue := &domain.Issue{
		ID:          uuid.NewString(),
		ShipmentID:  shipmentID,
		ReporterID:  callerID,
		Type:        strings.TrimSpace(in.Type),
		Description: strings.TrimSpace(in.Description),
		Status:      domain.IssueOpen,
	}
	if err := s.Issues.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("report issue: %w", err)
	}

	s.appendEvent(ctx, shipmentID, domain.TrackingIssueReported,
		fmt.Sprintf("issue reported: %s", issue.Type), callerID, nil, nil)

	// The counter-party is whichever side the reporter is not on.
	counterparty := shipment.ShipperID
	if callerID == shipment.ShipperID && shipment.CarrierID != nil {
		counterparty = *shipment.CarrierID
	}
	if counterparty != callerID {
		s.notify(ctx, counterparty, domain.NotifyIssueReported,
			"Issue reported",
			fmt.Sprintf("An issue (%s) was reported on the %s to %s shipment",
				issue.Type, shipment.OriginCity, shipment.DestinationCity),
			shipment.ID)
	}

	return issue, nil
}

// AppendTracking records a progress event from the assigned carrier or driver.
func (s *ShipmentService) AppendTracking(ctx context.Context, callerID string, role domain.Role, shipmentID, description string, lat, lon *float64) (*domain.TrackingEvent, error) {
	shipment, err := s.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("append tracking: %w", err)
	}
	if !s.actsForCarrier(ctx, shipment, callerID, role) {
		return nil, fmt.Errorf("append tracking: caller is not the assigned carrier: %w", domain.ErrForbidden)
	}

	event := &domain.TrackingEvent{
		ID:          uuid.NewString(),
		ShipmentID:  shipmentID,
		Type:        domain.TrackingLocationUpdate,
		Description: strings.TrimSpace(description),
		Lat:         lat,
		Lon:         lon,
		CreatedBy:   callerID,
	}
	if err := s.Tracking.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("append tracking: %w", err)
	}
	return event, nil
}

func (s *ShipmentService) appendEvent(ctx context.Context, shipmentID string, typ domain.TrackingEventType, description, createdBy string, lat, lon *float64) {
	event := &domain.TrackingEvent{
		ID:          uuid.NewString(),
		ShipmentID:  shipmentID,
		Type:        typ,
		Description: description,
		Lat:         lat,
		Lon:         lon,
		CreatedBy:   createdBy,
	}
	if err := s.Tracking.Append(ctx, event); err != nil {
		s.Log.Error("tracking event insert failed",
			zap.String("shipment_id", shipmentID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}

// CanView reports whether the caller may read a shipment's details. Posted
// shipments are the open marketplace; everything later is scoped to the two
// parties on the load.
func (s *ShipmentService) CanView(ctx context.Context, callerID string, role domain.Role, shipment *domain.Shipment) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleShipper, domain.RoleCompany:
		return shipment.ShipperID == callerID
	default:
		if shipment.Status == domain.ShipmentPosted {
			return true
		}
		return s.actsForCarrier(ctx, shipment, callerID, role)
	}
}

// actsForCarrier reports whether the caller may act on the carrier side of an
// assigned shipment. A driver acts only for their own employer: the driver
// record behind the caller must belong to the assigned carrier.
func (s *ShipmentService) actsForCarrier(ctx context.Context, shipment *domain.Shipment, callerID string, role domain.Role) bool {
	if role == domain.RoleAdmin {
		return true
	}
	if shipment.CarrierID == nil {
		return false
	}
	if *shipment.CarrierID == callerID {
		return true
	}
	if role != domain.RoleDriver {
		return false
	}

	driver, err := s.Drivers.GetByUserID(ctx, callerID)
	if err != nil {
		return false
	}
	return driver.OwnerID == *shipment.CarrierID
}
