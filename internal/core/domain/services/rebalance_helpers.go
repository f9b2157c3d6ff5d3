package services

import (
	"sort"

	"dispatch/internal/core/domain/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
)

func centroidDistance(from geo.Point, z *zone.Zone) float64 {
	return geo.HaversineKm(from, z.Centroid())
}

// nearestFirst orders candidates by distance to dst's centroid; the orders
// closest to the receiving zone are the ones sitting near the shared border.
func nearestFirst(candidates []*order.Order, dst *zone.Zone) []*order.Order {
	out := make([]*order.Order, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return dst.DistanceToCentroidKm(*out[i].Coordinates()) < dst.DistanceToCentroidKm(*out[j].Coordinates())
	})
	return out
}

// remaining drops orders already moved out of zone from.
func remaining(candidates []*order.Order, moves []Move, from kernel.UUID) []*order.Order {
	moved := make(map[kernel.UUID]struct{}, len(moves))
	for _, m := range moves {
		if m.FromZoneID.IsEqual(from) {
			moved[m.OrderID] = struct{}{}
		}
	}
	out := candidates[:0:0]
	for _, o := range candidates {
		if _, ok := moved[o.ID()]; !ok {
			out = append(out, o)
		}
	}
	return out
}
