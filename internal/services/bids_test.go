package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
)

type fakeShipmentRepo struct {
	shipments map[string]*domain.Shipment
}

func (r *fakeShipmentRepo) Create(ctx context.Context, s *domain.Shipment) error {
	r.shipments[s.ID] = s
	return nil
}

func (r *fakeShipmentRepo) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	s, ok := r.shipments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeShipmentRepo) List(ctx context.Context, f ports.ShipmentFilter) ([]*domain.Shipment, error) {
	var out []*domain.Shipment
	for _, s := range r.shipments {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeShipmentRepo) TransitionStatus(ctx context.Context, id string, from, to domain.ShipmentStatus) error {
	s, ok := r.shipments[id]
	if !ok {
		return domain.ErrNotFound
	}
	if s.Status != from {
		return fmt.Errorf("shipment is %s: %w", s.Status, domain.ErrConflict)
	}
	if err := domain.ValidateTransition(from, to); err != nil {
		return err
	}
	s.Status = to
	return nil
}

type fakeBidRepo struct {
	mu        sync.Mutex // the SQL implementation serializes accepts via row locks
	shipments *fakeShipmentRepo
	bids      map[string]*domain.Bid
}

func (r *fakeBidRepo) Create(ctx context.Context, b *domain.Bid) error {
	r.bids[b.ID] = b
	return nil
}

func (r *fakeBidRepo) GetByID(ctx context.Context, id string) (*domain.Bid, error) {
	b, ok := r.bids[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBidRepo) ListByShipment(ctx context.Context, shipmentID, carrierID string) ([]*domain.Bid, error) {
	var out []*domain.Bid
	for _, b := range r.bids {
		if b.ShipmentID != shipmentID {
			continue
		}
		if carrierID != "" && b.CarrierID != carrierID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Accept mirrors the transactional semantics of the SQL implementation:
// shipper check, pending check, shipment CAS, competitor auto-reject.
func (r *fakeBidRepo) Accept(ctx context.Context, bidID, callerID string) (*ports.AcceptOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	shipment, ok := r.shipments.shipments[bid.ShipmentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if shipment.ShipperID != callerID {
		return nil, domain.ErrForbidden
	}
	if bid.Status != domain.BidPending {
		return nil, fmt.Errorf("bid is %s: %w", bid.Status, domain.ErrConflict)
	}
	if shipment.Status != domain.ShipmentPosted {
		return nil, fmt.Errorf("shipment is %s: %w", shipment.Status, domain.ErrConflict)
	}

	bid.Status = domain.BidAccepted
	shipment.Status = domain.ShipmentAssigned
	shipment.CarrierID = &bid.CarrierID
	shipment.AcceptedBidID = &bid.ID

	var rejected []string
	for _, other := range r.bids {
		if other.ShipmentID == shipment.ID && other.ID != bid.ID && other.Status == domain.BidPending {
			other.Status = domain.BidRejected
			rejected = append(rejected, other.CarrierID)
		}
	}

	bc := *bid
	sc := *shipment
	return &ports.AcceptOutcome{Bid: &bc, Shipment: &sc, RejectedCarrierIDs: rejected}, nil
}

func (r *fakeBidRepo) SetStatus(ctx context.Context, id string, from, to domain.BidStatus) error {
	b, ok := r.bids[id]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Status != from {
		return fmt.Errorf("bid is %s: %w", b.Status, domain.ErrConflict)
	}
	b.Status = to
	return nil
}

func (r *fakeBidRepo) RejectStale(ctx context.Context) (int64, error) { return 0, nil }

type fakeNotificationRepo struct {
	mu   sync.Mutex
	rows []*domain.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.rows {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	for _, n := range r.rows {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, userID, title, message string) error { return nil }

func newBidFixture() (*BidService, *fakeShipmentRepo, *fakeBidRepo, *fakeNotificationRepo) {
	shipments := &fakeShipmentRepo{shipments: map[string]*domain.Shipment{}}
	bids := &fakeBidRepo{shipments: shipments, bids: map[string]*domain.Bid{}}
	inbox := &fakeNotificationRepo{}
	svc := NewBidService(shipments, bids, inbox, noopNotifier{}, zap.NewNop())
	return svc, shipments, bids, inbox
}

func postedShipment(id, shipperID string) *domain.Shipment {
	return &domain.Shipment{
		ID:              id,
		ShipperID:       shipperID,
		OriginCity:      "Casablanca",
		DestinationCity: "Madrid",
		Status:          domain.ShipmentPosted,
	}
}

func TestSubmitBidNotifiesShipper(t *testing.T) {
	svc, shipments, _, inbox := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")

	bid, err := svc.Submit(context.Background(), "carrier-1", SubmitBidInput{
		ShipmentID: "s1", Amount: 1200, Notes: "reefer available",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BidPending, bid.Status)

	require.Len(t, inbox.rows, 1)
	assert.Equal(t, "shipper-1", inbox.rows[0].UserID)
	assert.Equal(t, domain.NotifyBidReceived, inbox.rows[0].Type)
}

func TestSubmitBidRejectsInvalidAmount(t *testing.T) {
	svc, shipments, bids, _ := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")

	_, err := svc.Submit(context.Background(), "carrier-1", SubmitBidInput{
		ShipmentID: "s1", Amount: 0,
	})
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, bids.bids, "nothing may be persisted for an invalid bid")
}

func TestSubmitBidOnAssignedShipmentConflicts(t *testing.T) {
	svc, shipments, _, _ := newBidFixture()
	s := postedShipment("s1", "shipper-1")
	s.Status = domain.ShipmentAssigned
	shipments.shipments["s1"] = s

	_, err := svc.Submit(context.Background(), "carrier-1", SubmitBidInput{
		ShipmentID: "s1", Amount: 900,
	})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestAcceptBidFanOut(t *testing.T) {
	svc, shipments, bids, inbox := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")
	bids.bids["b1"] = &domain.Bid{ID: "b1", ShipmentID: "s1", CarrierID: "carrier-1", Amount: 1200, Status: domain.BidPending}
	bids.bids["b2"] = &domain.Bid{ID: "b2", ShipmentID: "s1", CarrierID: "carrier-2", Amount: 1100, Status: domain.BidPending}

	out, err := svc.Accept(context.Background(), "shipper-1", "b1")
	require.NoError(t, err)

	assert.Equal(t, domain.BidAccepted, out.Bid.Status)
	assert.Equal(t, domain.ShipmentAssigned, out.Shipment.Status)
	require.NotNil(t, out.Shipment.CarrierID)
	assert.Equal(t, "carrier-1", *out.Shipment.CarrierID)
	assert.Equal(t, []string{"carrier-2"}, out.RejectedCarrierIDs)

	assert.Equal(t, domain.BidRejected, bids.bids["b2"].Status)

	// One accepted notice for the winner, one rejected notice per loser.
	types := map[string]domain.NotificationType{}
	for _, n := range inbox.rows {
		types[n.UserID] = n.Type
	}
	assert.Equal(t, domain.NotifyBidAccepted, types["carrier-1"])
	assert.Equal(t, domain.NotifyBidRejected, types["carrier-2"])
}

func TestAcceptBidSecondAcceptConflicts(t *testing.T) {
	svc, shipments, bids, _ := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")
	bids.bids["b1"] = &domain.Bid{ID: "b1", ShipmentID: "s1", CarrierID: "carrier-1", Amount: 1200, Status: domain.BidPending}
	bids.bids["b2"] = &domain.Bid{ID: "b2", ShipmentID: "s1", CarrierID: "carrier-2", Amount: 1100, Status: domain.BidPending}

	_, err := svc.Accept(context.Background(), "shipper-1", "b1")
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), "shipper-1", "b2")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestAcceptBidConcurrentOnlyOneWins(t *testing.T) {
	svc, shipments, bids, _ := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")
	bids.bids["b1"] = &domain.Bid{ID: "b1", ShipmentID: "s1", CarrierID: "carrier-1", Amount: 1200, Status: domain.BidPending}
	bids.bids["b2"] = &domain.Bid{ID: "b2", ShipmentID: "s1", CarrierID: "carrier-2", Amount: 1100, Status: domain.BidPending}

	// Two accepts race for the same shipment. Exactly one may win; the loser
	// must see a conflict, never a double assignment.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, bidID := range []string{"b1", "b2"} {
		go func(i int, bidID string) {
			defer wg.Done()
			_, errs[i] = svc.Accept(context.Background(), "shipper-1", bidID)
		}(i, bidID)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected accept error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	shipment := shipments.shipments["s1"]
	assert.Equal(t, domain.ShipmentAssigned, shipment.Status)
	require.NotNil(t, shipment.AcceptedBidID)

	var accepted []*domain.Bid
	for _, b := range bids.bids {
		if b.Status == domain.BidAccepted {
			accepted = append(accepted, b)
		}
	}
	require.Len(t, accepted, 1)
	assert.Equal(t, accepted[0].ID, *shipment.AcceptedBidID)
	require.NotNil(t, shipment.CarrierID)
	assert.Equal(t, accepted[0].CarrierID, *shipment.CarrierID)
}

func TestAcceptBidRequiresShipper(t *testing.T) {
	svc, shipments, bids, _ := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")
	bids.bids["b1"] = &domain.Bid{ID: "b1", ShipmentID: "s1", CarrierID: "carrier-1", Amount: 1200, Status: domain.BidPending}

	_, err := svc.Accept(context.Background(), "someone-else", "b1")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestRejectBid(t *testing.T) {
	svc, shipments, bids, inbox := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")
	bids.bids["b1"] = &domain.Bid{ID: "b1", ShipmentID: "s1", CarrierID: "carrier-1", Amount: 1200, Status: domain.BidPending}

	require.NoError(t, svc.Reject(context.Background(), "shipper-1", "b1"))
	assert.Equal(t, domain.BidRejected, bids.bids["b1"].Status)
	require.Len(t, inbox.rows, 1)
	assert.Equal(t, "carrier-1", inbox.rows[0].UserID)
}

func TestWithdrawBidOwnerOnly(t *testing.T) {
	svc, shipments, bids, _ := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")
	bids.bids["b1"] = &domain.Bid{ID: "b1", ShipmentID: "s1", CarrierID: "carrier-1", Amount: 1200, Status: domain.BidPending}

	err := svc.Withdraw(context.Background(), "carrier-2", "b1")
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	require.NoError(t, svc.Withdraw(context.Background(), "carrier-1", "b1"))
	assert.Equal(t, domain.BidWithdrawn, bids.bids["b1"].Status)
}

func TestListForShipmentScoping(t *testing.T) {
	svc, shipments, bids, _ := newBidFixture()
	shipments.shipments["s1"] = postedShipment("s1", "shipper-1")
	bids.bids["b1"] = &domain.Bid{ID: "b1", ShipmentID: "s1", CarrierID: "carrier-1", Status: domain.BidPending}
	bids.bids["b2"] = &domain.Bid{ID: "b2", ShipmentID: "s1", CarrierID: "carrier-2", Status: domain.BidPending}

	all, err := svc.ListForShipment(context.Background(), "shipper-1", domain.RoleShipper, "s1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.ListForShipment(context.Background(), "carrier-1", domain.RoleCarrier, "s1")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "carrier-1", own[0].CarrierID)

	_, err = svc.ListForShipment(context.Background(), "other-shipper", domain.RoleShipper, "s1")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}
