package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"freight-marketplace-service/internal/api/dto"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/services"
)

type PricingHandler struct {
	Estimator *services.PricingEstimator
	Log       *zap.Logger
}

// Estimate handles POST /api/pricing/estimate.
func (h *PricingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionPricingEstimate) {
		return
	}

	var req dto.EstimateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	est, err := h.Estimator.Quote(r.Context(), services.EstimateRequest{
		OriginCity:      req.OriginCity,
		DestinationCity: req.DestinationCity,
		WeightKg:        req.WeightKg,
		Equipment:       domain.EquipmentType(req.EquipmentType),
		Urgency:         services.Urgency(req.Urgency),
	})
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	tiers := make([]dto.PriceTierResponse, 0, len(est.Tiers))
	for _, t := range est.Tiers {
		tiers = append(tiers, dto.PriceTierResponse{
			Name:        t.Name,
			Total:       t.Total,
			TransitDays: t.TransitDays,
		})
	}
	writeData(w, r, h.Log, http.StatusOK, dto.EstimateResponse{
		DistanceKm:       est.DistanceKm,
		DistanceKnown:    est.DistanceKnown,
		BasePrice:        est.BasePrice,
		FuelSurcharge:    est.FuelSurcharge,
		MarketAdjustment: est.MarketAdjustment,
		Tax:              est.Tax,
		Total:            est.Total,
		Tiers:            tiers,
	})
}
