package dto

type EstimateRequest struct {
	OriginCity      string  `json:"origin_city"`
	DestinationCity string  `json:"destination_city"`
	WeightKg        float64 `json:"weight_kg"`
	EquipmentType   string  `json:"equipment_type"`
	Urgency         string  `json:"urgency"`
}

type PriceTierResponse struct {
	Name        string  `json:"name"`
	Total       float64 `json:"total"`
	TransitDays int     `json:"transit_days"`
}

type EstimateResponse struct {
	DistanceKm       float64             `json:"distance_km"`
	DistanceKnown    bool                `json:"distance_known"`
	BasePrice        float64             `json:"base_price"`
	FuelSurcharge    float64             `json:"fuel_surcharge"`
	MarketAdjustment float64             `json:"market_adjustment"`
	Tax              float64             `json:"tax"`
	Total            float64             `json:"total"`
	Tiers            []PriceTierResponse `json:"tiers"`
}
