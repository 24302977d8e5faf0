package distance

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"freight-marketplace-service/internal/ports"
)

// Fallback bounds for lanes missing from the table, in kilometers.
const (
	fallbackMinKm = 500
	fallbackMaxKm = 3000
)

// laneKey normalizes a city pair. Distances are symmetric, so the pair is
// stored under both directions at construction time.
func laneKey(origin, destination string) string {
	o := strings.ToLower(strings.TrimSpace(origin))
	d := strings.ToLower(strings.TrimSpace(destination))
	return o + "|" + d
}

// knownLanes holds road distances for the corridors the marketplace serves.
var knownLanes = map[string]float64{
	laneKey("Casablanca", "Madrid"):    1050,
	laneKey("Casablanca", "Barcelona"): 1550,
	laneKey("Casablanca", "Tangier"):   340,
	laneKey("Casablanca", "Marrakech"): 240,
	laneKey("Tangier", "Madrid"):       720,
	laneKey("Tangier", "Barcelona"):    1150,
	laneKey("Tangier", "Algeciras"):    60,
	laneKey("Rabat", "Madrid"):         960,
	laneKey("Marrakech", "Madrid"):     1280,
	laneKey("Casablanca", "Paris"):     2100,
	laneKey("Madrid", "Paris"):         1270,
	laneKey("Madrid", "Barcelona"):     620,
}

// StaticTable resolves lane distances from a fixed city-pair table, falling
// back to a bounded pseudo-random estimate. When a cache is configured the
// estimate for a given lane is reused, so quoting an unknown lane twice gives
// the same distance.
type StaticTable struct {
	cache  ports.DistanceEstimateCache
	randKm func() float64
}

func NewStaticTable(cache ports.DistanceEstimateCache) *StaticTable {
	return &StaticTable{
		cache: cache,
		randKm: func() float64 {
			return fallbackMinKm + rand.Float64()*(fallbackMaxKm-fallbackMinKm)
		},
	}
}

func (t *StaticTable) DistanceKm(ctx context.Context, origin, destination string) (float64, bool, error) {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return 0, false, fmt.Errorf("distance lookup: origin and destination must be non-empty")
	}

	if km, ok := knownLanes[laneKey(origin, destination)]; ok {
		return km, true, nil
	}
	if km, ok := knownLanes[laneKey(destination, origin)]; ok {
		return km, true, nil
	}

	lane := laneKey(origin, destination)
	if t.cache != nil {
		km, ok, err := t.cache.Get(ctx, lane)
		if err == nil && ok {
			return km, false, nil
		}
		// Cache misses and cache errors both fall through to a fresh estimate.
	}

	km := t.randKm()
	if t.cache != nil {
		_ = t.cache.Put(ctx, lane, km)
	}
	return km, false, nil
}
