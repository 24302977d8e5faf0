package ports

import "context"

// DistanceSource resolves a lane (origin city to destination city) to a
// distance in kilometers. Implementations may estimate when the lane is
// not known; Known reports whether the value came from real data.
type DistanceSource interface {
	DistanceKm(ctx context.Context, originCity, destinationCity string) (km float64, known bool, err error)
}

// DistanceEstimateCache keeps estimated distances for unknown lanes stable
// across calls, so repeated quotes for the same lane do not wander.
type DistanceEstimateCache interface {
	Get(ctx context.Context, lane string) (km float64, ok bool, err error)
	Put(ctx context.Context, lane string, km float64) error
}
