package api

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"freight-marketplace-service/internal/api/handlers"
	"freight-marketplace-service/internal/ports"
	"freight-marketplace-service/internal/services"
)

// Deps collects everything the HTTP layer needs. cmd/server builds one of
// these after wiring storage and services.
type Deps struct {
	DB *sql.DB

	Shipments     ports.ShipmentRepository
	Tracking      ports.TrackingRepository
	Notifications ports.NotificationRepository
	Drivers       ports.DriverRepository
	Vehicles      ports.VehicleRepository
	Issues        ports.IssueRepository
	Proofs        ports.ProofRepository
	Customers     ports.CustomerRepository
	Notifier      ports.Notifier

	ShipmentService *services.ShipmentService
	BidService      *services.BidService
	Estimator       *services.PricingEstimator

	JWTSecret string
	Log       *zap.Logger
}

// NewRouter wires every route through auth then request logging.
func NewRouter(d Deps) http.Handler {
	health := &handlers.HealthHandler{DB: d.DB, Log: d.Log}
	shipments := &handlers.ShipmentHandler{Service: d.ShipmentService, Repo: d.Shipments, Log: d.Log}
	bids := &handlers.BidHandler{Service: d.BidService, Log: d.Log}
	tracking := &handlers.TrackingHandler{Service: d.ShipmentService, Tracking: d.Tracking, Shipments: d.Shipments, Log: d.Log}
	notifications := &handlers.NotificationHandler{Repo: d.Notifications, Notifier: d.Notifier, Log: d.Log}
	fleet := &handlers.FleetHandler{
		Drivers:   d.Drivers,
		Vehicles:  d.Vehicles,
		Shipments: d.Shipments,
		Tracking:  d.Tracking,
		Log:       d.Log,
	}
	marketplace := &handlers.MarketplaceHandler{
		Service:   d.ShipmentService,
		Issues:    d.Issues,
		Proofs:    d.Proofs,
		Customers: d.Customers,
		Shipments: d.Shipments,
		Log:       d.Log,
	}
	pricing := &handlers.PricingHandler{Estimator: d.Estimator, Log: d.Log}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", health.Check)

	mux.HandleFunc("/api/shipments", shipments.Collection)
	mux.HandleFunc("/api/shipments/{id}", shipments.Item)
	mux.HandleFunc("/api/shipments/{id}/status", shipments.Status)
	mux.HandleFunc("/api/shipments/{id}/cancel", shipments.Cancel)
	mux.HandleFunc("/api/shipments/{id}/bids", bids.ShipmentBids)
	mux.HandleFunc("/api/shipments/{id}/tracking", tracking.ShipmentTracking)
	mux.HandleFunc("/api/shipments/{id}/proof", marketplace.ShipmentProof)

	mux.HandleFunc("/api/bids/{id}/accept", bids.Accept)
	mux.HandleFunc("/api/bids/{id}/reject", bids.Reject)
	mux.HandleFunc("/api/bids/{id}/withdraw", bids.Withdraw)

	mux.HandleFunc("/api/drivers", fleet.DriverCollection)
	mux.HandleFunc("/api/drivers/{id}/assign-vehicle", fleet.AssignVehicle)
	mux.HandleFunc("/api/drivers/{id}/location", fleet.Location)
	mux.HandleFunc("/api/vehicles", fleet.VehicleCollection)
	mux.HandleFunc("/api/vehicles/{id}", fleet.VehicleItem)

	mux.HandleFunc("/api/notifications", notifications.List)
	mux.HandleFunc("/api/notifications/read-all", notifications.MarkAllRead)
	mux.HandleFunc("/api/notifications/send", notifications.Send)
	mux.HandleFunc("/api/notifications/{id}/read", notifications.MarkRead)

	mux.HandleFunc("/api/issues", marketplace.IssueCollection)
	mux.HandleFunc("/api/issues/{id}/resolve", marketplace.ResolveIssue)

	mux.HandleFunc("/api/pricing/estimate", pricing.Estimate)

	mux.HandleFunc("/api/customers", marketplace.CustomerCollection)
	mux.HandleFunc("/api/customers/{id}", marketplace.CustomerItem)

	return loggingMiddleware(d.Log, authMiddleware(d.JWTSecret, d.Log, mux))
}
