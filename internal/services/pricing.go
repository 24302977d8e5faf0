package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
)

// Urgency selects the service level a shipper is quoting for.
type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyUrgent   Urgency = "urgent"
)

// Per-kilometer rates by equipment type.
var equipmentRates = map[domain.EquipmentType]float64{
	domain.EquipmentDryVan:       1.00,
	domain.EquipmentFlatbed:      1.15,
	domain.EquipmentContainer:    1.25,
	domain.EquipmentRefrigerated: 1.45,
	domain.EquipmentTanker:       1.60,
}

var urgencyMultipliers = map[Urgency]float64{
	UrgencyStandard: 1.0,
	UrgencyUrgent:   1.4,
}

const (
	// Loads above this weight scale the base price up.
	heavyLoadThresholdKg = 10000
	heavyLoadStepKg      = 10000
	heavyLoadStepFactor  = 0.25

	taxRate = 0.10

	// Average daily driving range used for transit-time tiers.
	kmPerTransitDay = 600
)

type EstimateRequest struct {
	OriginCity      string
	DestinationCity string
	WeightKg        float64
	Equipment       domain.EquipmentType
	Urgency         Urgency
}

type PriceTier struct {
	Name        string
	Total       float64
	TransitDays int
}

// Estimate is a full quote. BasePrice is deterministic for fixed inputs and a
// known lane; FuelSurcharge and MarketAdjustment are randomized per call, so
// Total is not (see EstimateQuote).
type Estimate struct {
	DistanceKm       float64
	DistanceKnown    bool
	BasePrice        float64
	FuelSurcharge    float64
	MarketAdjustment float64
	Tax              float64
	Total            float64
	Tiers            []PriceTier
}

// BasePrice is the deterministic part of a quote:
// distance x equipment rate x weight factor x urgency multiplier.
// It is linear in distance and monotonically increasing in weight above the
// heavy-load threshold.
func BasePrice(distanceKm, weightKg float64, equipment domain.EquipmentType, urgency Urgency) (float64, error) {
	if distanceKm <= 0 {
		return 0, domain.Invalid("distance must be greater than zero")
	}
	if weightKg <= 0 {
		return 0, domain.Invalid("weight must be greater than zero")
	}
	rate, ok := equipmentRates[equipment]
	if !ok {
		return 0, domain.Invalid("unknown equipment type %q", equipment)
	}
	mult, ok := urgencyMultipliers[urgency]
	if !ok {
		return 0, domain.Invalid("unknown urgency %q", urgency)
	}

	weightFactor := 1.0
	if weightKg > heavyLoadThresholdKg {
		weightFactor += heavyLoadStepFactor * (weightKg - heavyLoadThresholdKg) / heavyLoadStepKg
	}

	return distanceKm * rate * weightFactor * mult, nil
}

// PricingEstimator quotes lane prices. Quotes are intentionally
// non-deterministic: market and fuel terms are randomized per call, so two
// quotes for the same request are not required to match.
type PricingEstimator struct {
	Distances ports.DistanceSource

	rng func() float64
}

func NewPricingEstimator(distances ports.DistanceSource) *PricingEstimator {
	return &PricingEstimator{Distances: distances, rng: rand.Float64}
}

func (e *PricingEstimator) Quote(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	if strings.TrimSpace(req.OriginCity) == "" || strings.TrimSpace(req.DestinationCity) == "" {
		return nil, domain.Invalid("origin and destination are required")
	}
	if req.Urgency == "" {
		req.Urgency = UrgencyStandard
	}

	km, known, err := e.Distances.DistanceKm(ctx, req.OriginCity, req.DestinationCity)
	if err != nil {
		return nil, fmt.Errorf("pricing quote: resolve distance: %w", err)
	}

	base, err := BasePrice(km, req.WeightKg, req.Equipment, req.Urgency)
	if err != nil {
		return nil, err
	}

	// Randomized terms: fuel surcharge 12-18% of base, market adjustment
	// -5% to +10% of base.
	fuel := base * (0.12 + 0.06*e.rng())
	market := base * (-0.05 + 0.15*e.rng())
	tax := taxRate * (base + fuel + market)
	total := base + fuel + market + tax

	days := int(math.Ceil(km / kmPerTransitDay))
	if days < 1 {
		days = 1
	}
	expressDays := days - 1
	if expressDays < 1 {
		expressDays = 1
	}

	return &Estimate{
		DistanceKm:       round2(km),
		DistanceKnown:    known,
		BasePrice:        round2(base),
		FuelSurcharge:    round2(fuel),
		MarketAdjustment: round2(market),
		Tax:              round2(tax),
		Total:            round2(total),
		Tiers: []PriceTier{
			{Name: "economy", Total: round2(total * 0.85), TransitDays: days + 2},
			{Name: "standard", Total: round2(total), TransitDays: days},
			{Name: "express", Total: round2(total * 1.25), TransitDays: expressDays},
		},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
