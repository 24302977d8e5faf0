package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/adapters/distance"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
	"freight-marketplace-service/internal/services"
)

func authed(r *http.Request, userID string, role domain.Role) *http.Request {
	id := auth.Identity{UserID: userID, Role: role}
	return r.WithContext(auth.WithIdentity(r.Context(), id))
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestSubmitBidNonNumericAmountIs400(t *testing.T) {
	// A non-numeric amount must fail at decode time, before any service or
	// storage code runs, so the handler gets a nil service on purpose.
	h := &BidHandler{Service: nil, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/api/shipments/s1/bids",
		strings.NewReader(`{"amount": "abc"}`))
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()

	h.ShipmentBids(rec, authed(req, "carrier-1", domain.RoleCarrier))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid json body", errorBody(t, rec))
}

func TestSubmitBidUnknownFieldIs400(t *testing.T) {
	h := &BidHandler{Service: nil, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/api/shipments/s1/bids",
		strings.NewReader(`{"amount": 100, "surprise": true}`))
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()

	h.ShipmentBids(rec, authed(req, "carrier-1", domain.RoleCarrier))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitBidWrongRoleIs403(t *testing.T) {
	h := &BidHandler{Service: nil, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/api/shipments/s1/bids",
		strings.NewReader(`{"amount": 100}`))
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()

	h.ShipmentBids(rec, authed(req, "shipper-1", domain.RoleShipper))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitBidWithoutIdentityIs401(t *testing.T) {
	h := &BidHandler{Service: nil, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/api/shipments/s1/bids",
		strings.NewReader(`{"amount": 100}`))
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()

	h.ShipmentBids(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBidEndpointMethodNotAllowed(t *testing.T) {
	h := &BidHandler{Service: nil, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodDelete, "/api/shipments/s1/bids", nil)
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()

	h.ShipmentBids(rec, authed(req, "carrier-1", domain.RoleCarrier))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Values("Allow"), http.MethodGet)
	assert.Contains(t, rec.Header().Values("Allow"), http.MethodPost)
}

func TestEstimateMissingCitiesIs400(t *testing.T) {
	h := &PricingHandler{
		Estimator: services.NewPricingEstimator(distance.NewStaticTable(nil)),
		Log:       zap.NewNop(),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/pricing/estimate",
		strings.NewReader(`{"origin_city": "", "destination_city": "Madrid", "weight_kg": 1000, "equipment_type": "dry_van"}`))
	rec := httptest.NewRecorder()

	h.Estimate(rec, authed(req, "shipper-1", domain.RoleShipper))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEstimateKnownLane(t *testing.T) {
	h := &PricingHandler{
		Estimator: services.NewPricingEstimator(distance.NewStaticTable(nil)),
		Log:       zap.NewNop(),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/pricing/estimate",
		strings.NewReader(`{"origin_city": "Casablanca", "destination_city": "Madrid", "weight_kg": 8000, "equipment_type": "refrigerated", "urgency": "urgent"}`))
	rec := httptest.NewRecorder()

	h.Estimate(rec, authed(req, "shipper-1", domain.RoleShipper))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			DistanceKm    float64 `json:"distance_km"`
			DistanceKnown bool    `json:"distance_known"`
			BasePrice     float64 `json:"base_price"`
			Total         float64 `json:"total"`
			Tiers         []struct {
				Name string `json:"name"`
			} `json:"tiers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Data.DistanceKnown)
	assert.Equal(t, 1050.0, body.Data.DistanceKm)
	assert.InDelta(t, 1050*1.45*1.4, body.Data.BasePrice, 0.01)
	assert.Greater(t, body.Data.Total, body.Data.BasePrice)
	require.Len(t, body.Data.Tiers, 3)
}

type fakeInbox struct {
	rows []*domain.Notification
}

func (r *fakeInbox) Create(ctx context.Context, n *domain.Notification) error {
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeInbox) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.rows {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeInbox) MarkRead(ctx context.Context, userID, id string) error {
	for _, n := range r.rows {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeInbox) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func TestMarkAllReadEmptiesUnread(t *testing.T) {
	inbox := &fakeInbox{rows: []*domain.Notification{
		{ID: "n1", UserID: "u1", Type: domain.NotifyBidReceived},
		{ID: "n2", UserID: "u1", Type: domain.NotifyBidAccepted},
		{ID: "n3", UserID: "u2", Type: domain.NotifyBidReceived},
	}}
	h := &NotificationHandler{Repo: inbox, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/read-all", nil)
	rec := httptest.NewRecorder()
	h.MarkAllRead(rec, authed(req, "u1", domain.RoleCarrier))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Updated int64 `json:"updated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.Updated)

	// Listing unread afterwards comes back empty for that user.
	listReq := httptest.NewRequest(http.MethodGet, "/api/notifications?unread=true", nil)
	listRec := httptest.NewRecorder()
	h.List(listRec, authed(listReq, "u1", domain.RoleCarrier))

	require.Equal(t, http.StatusOK, listRec.Code)
	var listBody struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listBody))
	assert.Empty(t, listBody.Data)

	// The other user's inbox is untouched.
	assert.False(t, inbox.rows[2].Read)
}

func TestMarkReadUnknownIDIs404(t *testing.T) {
	h := &NotificationHandler{Repo: &fakeInbox{}, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/nope/read", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.MarkRead(rec, authed(req, "u1", domain.RoleCarrier))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fleetDriverStore struct {
	drivers map[string]*domain.Driver
}

func (r *fleetDriverStore) Create(ctx context.Context, d *domain.Driver) error {
	r.drivers[d.ID] = d
	return nil
}

func (r *fleetDriverStore) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	d, ok := r.drivers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (r *fleetDriverStore) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	for _, d := range r.drivers {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fleetDriverStore) List(ctx context.Context, ownerID string) ([]*domain.Driver, error) {
	return nil, nil
}

func (r *fleetDriverStore) AssignVehicle(ctx context.Context, driverID, vehicleID string) error {
	return nil
}

func (r *fleetDriverStore) UpdateLocation(ctx context.Context, driverID string, lat, lon float64, at time.Time) error {
	d, ok := r.drivers[driverID]
	if !ok {
		return domain.ErrNotFound
	}
	d.LastLat, d.LastLon, d.LastSeen = &lat, &lon, &at
	return nil
}

type fleetShipmentStore struct {
	shipments []*domain.Shipment
}

func (r *fleetShipmentStore) Create(ctx context.Context, s *domain.Shipment) error {
	r.shipments = append(r.shipments, s)
	return nil
}

func (r *fleetShipmentStore) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	for _, s := range r.shipments {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fleetShipmentStore) List(ctx context.Context, f ports.ShipmentFilter) ([]*domain.Shipment, error) {
	var out []*domain.Shipment
	for _, s := range r.shipments {
		if f.CarrierID != "" && (s.CarrierID == nil || *s.CarrierID != f.CarrierID) {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fleetShipmentStore) TransitionStatus(ctx context.Context, id string, from, to domain.ShipmentStatus) error {
	return nil
}

type fleetTrackingStore struct {
	events []*domain.TrackingEvent
}

func (r *fleetTrackingStore) Append(ctx context.Context, e *domain.TrackingEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fleetTrackingStore) ListByShipment(ctx context.Context, shipmentID string) ([]*domain.TrackingEvent, error) {
	return r.events, nil
}

func newFleetFixture() (*FleetHandler, *fleetDriverStore, *fleetShipmentStore, *fleetTrackingStore) {
	drivers := &fleetDriverStore{drivers: map[string]*domain.Driver{}}
	shipments := &fleetShipmentStore{}
	tracking := &fleetTrackingStore{}
	h := &FleetHandler{
		Drivers:   drivers,
		Shipments: shipments,
		Tracking:  tracking,
		Log:       zap.NewNop(),
	}
	return h, drivers, shipments, tracking
}

func TestDriverLocationLandsInTrackingHistory(t *testing.T) {
	h, drivers, shipments, tracking := newFleetFixture()
	drivers.drivers["d1"] = &domain.Driver{ID: "d1", OwnerID: "carrier-1", UserID: "driver-user-1", Name: "A"}

	carrierID := "carrier-1"
	shipments.shipments = append(shipments.shipments,
		&domain.Shipment{ID: "s1", ShipperID: "shipper-1", CarrierID: &carrierID, Status: domain.ShipmentInTransit},
		&domain.Shipment{ID: "s2", ShipperID: "shipper-1", CarrierID: &carrierID, Status: domain.ShipmentAssigned},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/drivers/d1/location",
		strings.NewReader(`{"lat": 35.76, "lon": -5.83}`))
	req.SetPathValue("id", "d1")
	rec := httptest.NewRecorder()

	h.Location(rec, authed(req, "driver-user-1", domain.RoleDriver))
	require.Equal(t, http.StatusOK, rec.Code)

	// Only the in-transit shipment gets a history entry.
	require.Len(t, tracking.events, 1)
	event := tracking.events[0]
	assert.Equal(t, "s1", event.ShipmentID)
	assert.Equal(t, domain.TrackingLocationUpdate, event.Type)
	require.NotNil(t, event.Lat)
	require.NotNil(t, event.Lon)
	assert.Equal(t, 35.76, *event.Lat)
	assert.Equal(t, -5.83, *event.Lon)
	assert.Equal(t, "driver-user-1", event.CreatedBy)

	// The driver's own last-seen position was updated too.
	require.NotNil(t, drivers.drivers["d1"].LastLat)
	assert.Equal(t, 35.76, *drivers.drivers["d1"].LastLat)
}

func TestDriverLocationNoActiveTripNoTracking(t *testing.T) {
	h, drivers, _, tracking := newFleetFixture()
	drivers.drivers["d1"] = &domain.Driver{ID: "d1", OwnerID: "carrier-1", UserID: "driver-user-1", Name: "A"}

	req := httptest.NewRequest(http.MethodPost, "/api/drivers/d1/location",
		strings.NewReader(`{"lat": 33.57, "lon": -7.59}`))
	req.SetPathValue("id", "d1")
	rec := httptest.NewRecorder()

	h.Location(rec, authed(req, "driver-user-1", domain.RoleDriver))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, tracking.events)
}
