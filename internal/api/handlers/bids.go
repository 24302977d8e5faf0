package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"freight-marketplace-service/internal/api/dto"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/services"
)

type BidHandler struct {
	Service *services.BidService
	Log     *zap.Logger
}

// ShipmentBids handles POST (submit) and GET (list) on /api/shipments/{id}/bids.
func (h *BidHandler) ShipmentBids(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPost)
	}
}

func (h *BidHandler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionBidSubmit) {
		return
	}

	var req dto.SubmitBidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	bid, err := h.Service.Submit(r.Context(), id.UserID, services.SubmitBidInput{
		ShipmentID: r.PathValue("id"),
		Amount:     req.Amount,
		Notes:      req.Notes,
	})
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusCreated, toBidResponse(bid))
}

func (h *BidHandler) list(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok {
		return
	}

	bids, err := h.Service.ListForShipment(r.Context(), id.UserID, id.Role, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.BidResponse, 0, len(bids))
	for _, b := range bids {
		res = append(res, toBidResponse(b))
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

// Accept handles POST /api/bids/{id}/accept.
func (h *BidHandler) Accept(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionBidDecide) {
		return
	}

	out, err := h.Service.Accept(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusOK, dto.AcceptBidResponse{
		Bid:      toBidResponse(out.Bid),
		Shipment: toShipmentResponse(out.Shipment),
	})
}

// Reject handles POST /api/bids/{id}/reject.
func (h *BidHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionBidDecide) {
		return
	}

	if err := h.Service.Reject(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusOK, map[string]string{"status": string(domain.BidRejected)})
}

// Withdraw handles POST /api/bids/{id}/withdraw.
func (h *BidHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionBidWithdraw) {
		return
	}

	if err := h.Service.Withdraw(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusOK, map[string]string{"status": string(domain.BidWithdrawn)})
}

func toBidResponse(b *domain.Bid) dto.BidResponse {
	return dto.BidResponse{
		ID:         b.ID,
		ShipmentID: b.ShipmentID,
		CarrierID:  b.CarrierID,
		Amount:     b.Amount,
		Notes:      b.Notes,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
