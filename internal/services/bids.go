package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/platform/obs"
	"freight-marketplace-service/internal/ports"
)

// BidService owns the bid lifecycle: submit, accept, reject, withdraw.
// Acceptance is the one place in the system with a real concurrency hazard,
// and it is delegated wholesale to the repository's single transaction.
type BidService struct {
	Shipments ports.ShipmentRepository
	Bids      ports.BidRepository

	fanout
}

func NewBidService(
	shipments ports.ShipmentRepository,
	bids ports.BidRepository,
	notifications ports.NotificationRepository,
	notifier ports.Notifier,
	log *zap.Logger,
) *BidService {
	return &BidService{
		Shipments: shipments,
		Bids:      bids,
		fanout:    fanout{Notifications: notifications, Notifier: notifier, Log: log},
	}
}

type SubmitBidInput struct {
	ShipmentID string
	Amount     float64
	Notes      string
}

// Submit validates and persists a pending bid. The amount check happens
// before anything touches storage; the posted-shipment check is re-run
// transactionally inside the repository.
func (s *BidService) Submit(ctx context.Context, carrierID string, in SubmitBidInput) (*domain.Bid, error) {
	if err := domain.ValidateBidAmount(in.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ShipmentID) == "" {
		return nil, domain.Invalid("shipment id is required")
	}

	shipment, err := s.Shipments.GetByID(ctx, in.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("submit bid: %w", err)
	}
	if shipment.Status != domain.ShipmentPosted {
		return nil, fmt.Errorf("submit bid: shipment is %s: %w", shipment.Status, domain.ErrConflict)
	}

	bid := &domain.Bid{
		ID:         uuid.NewString(),
		ShipmentID: in.ShipmentID,
		CarrierID:  carrierID,
		Amount:     in.Amount,
		Notes:      strings.TrimSpace(in.Notes),
		Status:     domain.BidPending,
	}
	if err := s.Bids.Create(ctx, bid); err != nil {
		return nil, fmt.Errorf("submit bid: %w", err)
	}

	s.notify(ctx, shipment.ShipperID, domain.NotifyBidReceived,
		"New bid received",
		fmt.Sprintf("A carrier bid %.2f on your %s to %s shipment",
			bid.Amount, shipment.OriginCity, shipment.DestinationCity),
		shipment.ID)

	return bid, nil
}

// Accept runs the atomic acceptance transaction and fans out notifications to
// the winning and auto-rejected carriers afterwards.
func (s *BidService) Accept(ctx context.Context, callerID, bidID string) (out *ports.AcceptOutcome, err error) {
	defer obs.Time(ctx, s.Log, "bids.Accept")(&err)

	out, err = s.Bids.Accept(ctx, bidID, callerID)
	if err != nil {
		return nil, fmt.Errorf("accept bid: %w", err)
	}

	s.notify(ctx, out.Bid.CarrierID, domain.NotifyBidAccepted,
		"Bid accepted",
		fmt.Sprintf("Your bid of %.2f was accepted; shipment %s to %s is yours",
			out.Bid.Amount, out.Shipment.OriginCity, out.Shipment.DestinationCity),
		out.Shipment.ID)

	for _, carrierID := range out.RejectedCarrierIDs {
		s.notify(ctx, carrierID, domain.NotifyBidRejected,
			"Bid not selected",
			fmt.Sprintf("Another bid was accepted for the %s to %s shipment",
				out.Shipment.OriginCity, out.Shipment.DestinationCity),
			out.Shipment.ID)
	}

	return out, nil
}

// Reject declines a single pending bid without touching the shipment.
func (s *BidService) Reject(ctx context.Context, callerID, bidID string) error {
	bid, err := s.Bids.GetByID(ctx, bidID)
	if err != nil {
		return fmt.Errorf("reject bid: %w", err)
	}
	shipment, err := s.Shipments.GetByID(ctx, bid.ShipmentID)
	if err != nil {
		return fmt.Errorf("reject bid: %w", err)
	}
	if shipment.ShipperID != callerID {
		return fmt.Errorf("reject bid: caller is not the shipper: %w", domain.ErrForbidden)
	}

	if err := s.Bids.SetStatus(ctx, bidID, domain.BidPending, domain.BidRejected); err != nil {
		return fmt.Errorf("reject bid: %w", err)
	}

	s.notify(ctx, bid.CarrierID, domain.NotifyBidRejected,
		"Bid rejected",
		fmt.Sprintf("Your bid of %.2f on the %s to %s shipment was rejected",
			bid.Amount, shipment.OriginCity, shipment.DestinationCity),
		shipment.ID)

	return nil
}

// Withdraw lets a carrier pull their own pending bid.
func (s *BidService) Withdraw(ctx context.Context, callerID, bidID string) error {
	bid, err := s.Bids.GetByID(ctx, bidID)
	if err != nil {
		return fmt.Errorf("withdraw bid: %w", err)
	}
	if bid.CarrierID != callerID {
		return fmt.Errorf("withdraw bid: caller does not own the bid: %w", domain.ErrForbidden)
	}

	if err := s.Bids.SetStatus(ctx, bidID, domain.BidPending, domain.BidWithdrawn); err != nil {
		return fmt.Errorf("withdraw bid: %w", err)
	}
	return nil
}

// ListForShipment applies role scoping: shippers and admins see every bid,
// carriers only their own.
func (s *BidService) ListForShipment(ctx context.Context, callerID string, role domain.Role, shipmentID string) ([]*domain.Bid, error) {
	shipment, err := s.Shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}

	carrierScope := ""
	switch role {
	case domain.RoleAdmin:
	case domain.RoleShipper, domain.RoleCompany:
		if shipment.ShipperID != callerID {
			return nil, fmt.Errorf("list bids: caller is not the shipper: %w", domain.ErrForbidden)
		}
	case domain.RoleCarrier:
		carrierScope = callerID
	default:
		return nil, fmt.Errorf("list bids: role %s: %w", role, domain.ErrForbidden)
	}

	bids, err := s.Bids.ListByShipment(ctx, shipmentID, carrierScope)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}
