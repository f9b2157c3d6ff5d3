// Package order provides the Order aggregate as dispatch sees it: a delivery
// with optional coordinates, a zone it is geofenced into and the run it rides on.
//
// Key business rules:
//   - zone membership only moves nil -> zone, except for the explicit MoveZone
//     used when rebalancing unrun orders
//   - an order must be zoned before it can join a run
//   - NaN weight or volume is accepted as a data-quality problem, negative values are not
package order
