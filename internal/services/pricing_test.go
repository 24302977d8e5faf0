package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-marketplace-service/internal/domain"
)

type fixedDistance struct {
	km    float64
	known bool
}

func (f fixedDistance) DistanceKm(ctx context.Context, origin, destination string) (float64, bool, error) {
	return f.km, f.known, nil
}

func TestBasePriceLinearInDistance(t *testing.T) {
	p1, err := BasePrice(500, 5000, domain.EquipmentDryVan, UrgencyStandard)
	require.NoError(t, err)
	p2, err := BasePrice(1000, 5000, domain.EquipmentDryVan, UrgencyStandard)
	require.NoError(t, err)

	assert.InDelta(t, p1*2, p2, 0.0001)
}

func TestBasePriceHeavyLoadScaling(t *testing.T) {
	light, err := BasePrice(1000, 10000, domain.EquipmentFlatbed, UrgencyStandard)
	require.NoError(t, err)
	heavy, err := BasePrice(1000, 20000, domain.EquipmentFlatbed, UrgencyStandard)
	require.NoError(t, err)

	// One full step above the threshold adds 25%.
	assert.InDelta(t, light*1.25, heavy, 0.0001)
	assert.Greater(t, heavy, light)
}

func TestBasePriceUrgencyMultiplier(t *testing.T) {
	std, err := BasePrice(1050, 8000, domain.EquipmentRefrigerated, UrgencyStandard)
	require.NoError(t, err)
	urgent, err := BasePrice(1050, 8000, domain.EquipmentRefrigerated, UrgencyUrgent)
	require.NoError(t, err)

	assert.InDelta(t, std*1.4, urgent, 0.0001)
}

func TestBasePriceRejectsBadInput(t *testing.T) {
	_, err := BasePrice(0, 5000, domain.EquipmentDryVan, UrgencyStandard)
	assert.True(t, domain.IsValidation(err))

	_, err = BasePrice(500, -1, domain.EquipmentDryVan, UrgencyStandard)
	assert.True(t, domain.IsValidation(err))

	_, err = BasePrice(500, 5000, domain.EquipmentType("hovercraft"), UrgencyStandard)
	assert.True(t, domain.IsValidation(err))

	_, err = BasePrice(500, 5000, domain.EquipmentDryVan, Urgency("yesterday"))
	assert.True(t, domain.IsValidation(err))
}

func TestQuoteKnownLaneBreakdown(t *testing.T) {
	e := NewPricingEstimator(fixedDistance{km: 1050, known: true})
	e.rng = func() float64 { return 0.5 } // fuel 15%, market +2.5%

	est, err := e.Quote(context.Background(), EstimateRequest{
		OriginCity:      "Casablanca",
		DestinationCity: "Madrid",
		WeightKg:        8000,
		Equipment:       domain.EquipmentRefrigerated,
		Urgency:         UrgencyUrgent,
	})
	require.NoError(t, err)

	assert.True(t, est.DistanceKnown)
	assert.Equal(t, 1050.0, est.DistanceKm)

	base := 1050 * 1.45 * 1.4
	assert.InDelta(t, base, est.BasePrice, 0.01)
	assert.InDelta(t, base*0.15, est.FuelSurcharge, 0.01)
	assert.InDelta(t, base*0.025, est.MarketAdjustment, 0.01)

	subtotal := est.BasePrice + est.FuelSurcharge + est.MarketAdjustment
	assert.InDelta(t, subtotal*0.10, est.Tax, 0.02)
	assert.InDelta(t, subtotal+est.Tax, est.Total, 0.02)
}

func TestQuoteTiers(t *testing.T) {
	e := NewPricingEstimator(fixedDistance{km: 1050, known: true})
	e.rng = func() float64 { return 0 }

	est, err := e.Quote(context.Background(), EstimateRequest{
		OriginCity:      "Casablanca",
		DestinationCity: "Madrid",
		WeightKg:        5000,
		Equipment:       domain.EquipmentDryVan,
		Urgency:         UrgencyStandard,
	})
	require.NoError(t, err)
	require.Len(t, est.Tiers, 3)

	days := int(math.Ceil(1050.0 / 600))
	assert.Equal(t, "economy", est.Tiers[0].Name)
	assert.Equal(t, days+2, est.Tiers[0].TransitDays)
	assert.InDelta(t, est.Total*0.85, est.Tiers[0].Total, 0.02)

	assert.Equal(t, "standard", est.Tiers[1].Name)
	assert.Equal(t, days, est.Tiers[1].TransitDays)
	assert.InDelta(t, est.Total, est.Tiers[1].Total, 0.001)

	assert.Equal(t, "express", est.Tiers[2].Name)
	assert.Equal(t, days-1, est.Tiers[2].TransitDays)
	assert.InDelta(t, est.Total*1.25, est.Tiers[2].Total, 0.02)
}

func TestQuoteDefaultsUrgency(t *testing.T) {
	e := NewPricingEstimator(fixedDistance{km: 600, known: true})
	e.rng = func() float64 { return 0 }

	est, err := e.Quote(context.Background(), EstimateRequest{
		OriginCity:      "Rabat",
		DestinationCity: "Madrid",
		WeightKg:        1000,
		Equipment:       domain.EquipmentDryVan,
	})
	require.NoError(t, err)
	assert.InDelta(t, 600.0, est.BasePrice, 0.01)
}

func TestQuoteRequiresCities(t *testing.T) {
	e := NewPricingEstimator(fixedDistance{km: 600, known: true})

	_, err := e.Quote(context.Background(), EstimateRequest{
		OriginCity: "  ", DestinationCity: "Madrid",
		WeightKg: 1000, Equipment: domain.EquipmentDryVan,
	})
	assert.True(t, domain.IsValidation(err))
}
