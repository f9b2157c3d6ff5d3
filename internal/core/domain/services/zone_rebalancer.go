package services

import (
	"errors"
	"fmt"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
)

// RebalanceThresholds are expressed in orders per target driver.
type RebalanceThresholds struct {
	Overloaded    float64
	Underutilized float64
}

func (t RebalanceThresholds) Validate() error {
	if t.Underutilized < 0 || t.Overloaded <= t.Underutilized {
		return errs.NewValueIsInvalidErrorWithCause("rebalanceThresholds",
			fmt.Errorf("need 0 <= underutilized (%v) < overloaded (%v)", t.Underutilized, t.Overloaded))
	}
	return nil
}

// ZoneLoad is the order count of one zone relative to its target drivers.
type ZoneLoad struct {
	ZoneID        kernel.UUID
	ZoneName      string
	Orders        int
	TargetDrivers int
}

func (l ZoneLoad) PerDriver() float64 {
	return float64(l.Orders) / float64(l.TargetDrivers)
}

// Move is one planned order transfer between zones.
type Move struct {
	OrderID    kernel.UUID
	FromZoneID kernel.UUID
	ToZoneID   kernel.UUID
	Reason     string
}

// RebalancePlan lists moves in the order they were chosen and the loads
// they would produce.
type RebalancePlan struct {
	Moves []Move
	Loads []ZoneLoad
}

// ZoneRebalancer is a greedy load balancer over zone centroids.
//
// For each overloaded zone in displayOrder it picks the underutilized zone
// with the nearest centroid and moves the movable orders closest to that
// zone's centroid, one at a time, while the source stays overloaded and the
// receiving zone would not end up busier per driver than the source. It
// reduces imbalance; it does not minimise it.
type ZoneRebalancer struct {
	thresholds RebalanceThresholds
}

func NewZoneRebalancer(thresholds RebalanceThresholds) (ZoneRebalancer, error) {
	if err := thresholds.Validate(); err != nil {
		return ZoneRebalancer{}, err
	}
	return ZoneRebalancer{thresholds: thresholds}, nil
}

func (r ZoneRebalancer) Thresholds() RebalanceThresholds {
	return r.thresholds
}

// Plan computes moves for the zoned orders of one date. Every zoned order
// counts toward its zone's load; only orders with coordinates and no run
// are movable. Orders of zones not in zones are ignored.
func (r ZoneRebalancer) Plan(zones []*zone.Zone, orders []*order.Order) (RebalancePlan, error) {
	if r.thresholds == (RebalanceThresholds{}) {
		return RebalancePlan{}, errors.New("zone rebalancer must be created via NewZoneRebalancer")
	}

	sorted := SortByDisplayOrder(zones)
	loads := make(map[kernel.UUID]*ZoneLoad, len(sorted))
	movable := make(map[kernel.UUID][]*order.Order, len(sorted))
	for _, z := range sorted {
		loads[z.ID()] = &ZoneLoad{ZoneID: z.ID(), ZoneName: z.Name(), TargetDrivers: z.TargetDriverCount()}
	}

	for _, o := range orders {
		zid := o.ZoneID()
		if zid == nil {
			continue
		}
		load, ok := loads[*zid]
		if !ok {
			continue
		}
		load.Orders++
		if o.RunID() == nil && o.Coordinates() != nil {
			movable[*zid] = append(movable[*zid], o)
		}
	}

	var moves []Move
	for _, src := range sorted {
		srcLoad := loads[src.ID()]
		if srcLoad.PerDriver() <= r.thresholds.Overloaded {
			continue
		}

		for _, dst := range r.neighbours(src, sorted, loads) {
			dstLoad := loads[dst.ID()]
			candidates := nearestFirst(movable[src.ID()], dst)

			for len(candidates) > 0 && srcLoad.PerDriver() > r.thresholds.Overloaded {
				if !r.beneficial(srcLoad, dstLoad) {
					break
				}
				o := candidates[0]
				candidates = candidates[1:]

				moves = append(moves, Move{
					OrderID:    o.ID(),
					FromZoneID: src.ID(),
					ToZoneID:   dst.ID(),
					Reason: fmt.Sprintf(
						"zone %s at %.1f orders/driver exceeds %.1f; %s at %.1f is the nearest underutilized zone (%.2f km from order)",
						src.Name(), srcLoad.PerDriver(), r.thresholds.Overloaded,
						dst.Name(), dstLoad.PerDriver(), dst.DistanceToCentroidKm(*o.Coordinates())),
				})
				srcLoad.Orders--
				dstLoad.Orders++
			}
			movable[src.ID()] = remaining(movable[src.ID()], moves, src.ID())

			if srcLoad.PerDriver() <= r.thresholds.Overloaded {
				break
			}
		}
	}

	plan := RebalancePlan{Moves: moves, Loads: make([]ZoneLoad, 0, len(sorted))}
	for _, z := range sorted {
		plan.Loads = append(plan.Loads, *loads[z.ID()])
	}
	return plan, nil
}

// neighbours returns underutilized zones other than src, nearest centroid
// first, ties by displayOrder.
func (r ZoneRebalancer) neighbours(src *zone.Zone, zones []*zone.Zone, loads map[kernel.UUID]*ZoneLoad) []*zone.Zone {
	out := make([]*zone.Zone, 0, len(zones))
	for _, z := range zones {
		if z.ID().IsEqual(src.ID()) {
			continue
		}
		if loads[z.ID()].PerDriver() < r.thresholds.Underutilized {
			out = append(out, z)
		}
	}
	centre := src.Centroid()
	sort.SliceStable(out, func(i, j int) bool {
		return centroidDistance(centre, out[i]) < centroidDistance(centre, out[j])
	})
	return out
}

// beneficial reports whether moving one more order from src to dst keeps dst
// within the overload threshold and no busier per driver than src.
func (r ZoneRebalancer) beneficial(src *ZoneLoad, dst *ZoneLoad) bool {
	nextSrc := float64(src.Orders-1) / float64(src.TargetDrivers)
	nextDst := float64(dst.Orders+1) / float64(dst.TargetDrivers)
	return nextDst <= r.thresholds.Overloaded && nextDst <= nextSrc
}
