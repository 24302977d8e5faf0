package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"freight-marketplace-service/internal/api/dto"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
	"freight-marketplace-service/internal/services"
)

type ShipmentHandler struct {
	Service *services.ShipmentService
	Repo    ports.ShipmentRepository
	Log     *zap.Logger
}

// Collection handles POST (create) and GET (role-filtered list) on /api/shipments.
func (h *ShipmentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPost)
	}
}

func (h *ShipmentHandler) create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionShipmentCreate) {
		return
	}

	var req dto.CreateShipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	shipment, err := h.Service.Create(r.Context(), id.UserID, services.CreateShipmentInput{
		OriginCity:       req.OriginCity,
		OriginState:      req.OriginState,
		DestinationCity:  req.DestinationCity,
		DestinationState: req.DestinationState,
		WeightKg:         req.WeightKg,
		Rate:             req.Rate,
		Equipment:        domain.EquipmentType(req.EquipmentType),
		Commodity:        req.Commodity,
		PickupDate:       req.PickupDate,
		DeliveryDate:     req.DeliveryDate,
	})
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusCreated, toShipmentResponse(shipment))
}

// list scopes rows by role: shippers see their own shipments, carriers see
// the open marketplace plus their assignments, admins see everything.
func (h *ShipmentHandler) list(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionShipmentList) {
		return
	}

	filter := ports.ShipmentFilter{
		Status: domain.ShipmentStatus(r.URL.Query().Get("status")),
	}
	switch id.Role {
	case domain.RoleAdmin:
	case domain.RoleShipper, domain.RoleCompany:
		filter.ShipperID = id.UserID
	default:
		filter.CarrierID = id.UserID
		filter.IncludePostedForCarrier = true
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	shipments, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		res = append(res, toShipmentResponse(s))
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

// Item handles GET /api/shipments/{id}.
func (h *ShipmentHandler) Item(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodGet) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok {
		return
	}

	shipment, err := h.Repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	if !h.Service.CanView(r.Context(), id.UserID, id.Role, shipment) {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return
	}

	writeData(w, r, h.Log, http.StatusOK, toShipmentResponse(shipment))
}

// Status handles PATCH /api/shipments/{id}/status.
func (h *ShipmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPatch) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionShipmentStatus) {
		return
	}

	var req dto.UpdateShipmentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	shipment, err := h.Service.UpdateStatus(r.Context(), id.UserID, id.Role,
		r.PathValue("id"), domain.ShipmentStatus(req.Status), req.Description)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusOK, toShipmentResponse(shipment))
}

// Cancel handles POST /api/shipments/{id}/cancel.
func (h *ShipmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionShipmentCancel) {
		return
	}

	shipment, err := h.Service.Cancel(r.Context(), id.UserID, id.Role, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusOK, toShipmentResponse(shipment))
}

func toShipmentResponse(s *domain.Shipment) dto.ShipmentResponse {
	return dto.ShipmentResponse{
		ID:               s.ID,
		ShipperID:        s.ShipperID,
		CarrierID:        s.CarrierID,
		AcceptedBidID:    s.AcceptedBidID,
		OriginCity:       s.OriginCity,
		OriginState:      s.OriginState,
		DestinationCity:  s.DestinationCity,
		DestinationState: s.DestinationState,
		WeightKg:         s.WeightKg,
		Rate:             s.Rate,
		EquipmentType:    string(s.Equipment),
		Commodity:        s.Commodity,
		Status:           string(s.Status),
		BidCount:         s.BidCount,
		PickupDate:       s.PickupDate,
		DeliveryDate:     s.DeliveryDate,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
