package services

import (
	"math"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
)

// ZoneResolver matches a coordinate against candidate zones.
//
// Overlapping zones are resolved by displayOrder: the first zone that
// contains the point wins. Area is never compared.
type ZoneResolver struct{}

func NewZoneResolver() ZoneResolver {
	return ZoneResolver{}
}

// Match is the outcome of resolving one point.
type Match struct {
	Zone *zone.Zone
	// Fallback is true when the point is outside every zone and Zone is the
	// nearest by centroid distance.
	Fallback   bool
	DistanceKm float64
}

// Resolve returns the first zone in displayOrder whose boundary contains c.
func (r ZoneResolver) Resolve(c kernel.Coordinates, zones []*zone.Zone) (*zone.Zone, bool) {
	for _, z := range SortByDisplayOrder(zones) {
		if z.Contains(c) {
			return z, true
		}
	}
	return nil, false
}

// Nearest returns the zone with the closest centroid, breaking ties by
// displayOrder. It fails with NoZonesAvailableError for an empty slice.
func (r ZoneResolver) Nearest(c kernel.Coordinates, zones []*zone.Zone) (*zone.Zone, float64, error) {
	if len(zones) == 0 {
		return nil, 0, errs.NewNoZonesAvailableError("")
	}

	var (
		best     *zone.Zone
		bestDist = math.MaxFloat64
	)
	for _, z := range SortByDisplayOrder(zones) {
		d := z.DistanceToCentroidKm(c)
		if d < bestDist {
			best = z
			bestDist = d
		}
	}
	return best, bestDist, nil
}

// Locate resolves c exactly and, when allowFallback is set, falls back to
// the nearest zone. ok is false when the point is out of bounds.
func (r ZoneResolver) Locate(c kernel.Coordinates, zones []*zone.Zone, allowFallback bool) (Match, bool) {
	if z, ok := r.Resolve(c, zones); ok {
		return Match{Zone: z}, true
	}
	if !allowFallback {
		return Match{}, false
	}
	z, dist, err := r.Nearest(c, zones)
	if err != nil {
		return Match{}, false
	}
	return Match{Zone: z, Fallback: true, DistanceKm: dist}, true
}

// SortByDisplayOrder returns a copy of zones ordered by displayOrder. Equal
// orders keep their input order.
func SortByDisplayOrder(zones []*zone.Zone) []*zone.Zone {
	out := make([]*zone.Zone, len(zones))
	copy(out, zones)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder() < out[j].DisplayOrder()
	})
	return out
}
