package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"freight-marketplace-service/internal/api/dto"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
	"freight-marketplace-service/internal/services"
)

type TrackingHandler struct {
	Service   *services.ShipmentService
	Tracking  ports.TrackingRepository
	Shipments ports.ShipmentRepository
	Log       *zap.Logger
}

// ShipmentTracking handles GET (history) and POST (append) on
// /api/shipments/{id}/tracking.
func (h *TrackingHandler) ShipmentTracking(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.append(w, r)
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPost)
	}
}

func (h *TrackingHandler) list(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionTrackingRead) {
		return
	}

	shipment, err := h.Shipments.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	if !h.Service.CanView(r.Context(), id.UserID, id.Role, shipment) {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return
	}

	events, err := h.Tracking.ListByShipment(r.Context(), shipment.ID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.TrackingEventResponse, 0, len(events))
	for _, e := range events {
		res = append(res, toTrackingResponse(e))
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

func (h *TrackingHandler) append(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionTrackingAppend) {
		return
	}

	var req dto.AppendTrackingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	event, err := h.Service.AppendTracking(r.Context(), id.UserID, id.Role,
		r.PathValue("id"), req.Description, req.Lat, req.Lon)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusCreated, toTrackingResponse(event))
}

func toTrackingResponse(e *domain.TrackingEvent) dto.TrackingEventResponse {
	return dto.TrackingEventResponse{
		ID:          e.ID,
		ShipmentID:  e.ShipmentID,
		Type:        string(e.Type),
		Description: e.Description,
		Lat:         e.Lat,
		Lon:         e.Lon,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}
