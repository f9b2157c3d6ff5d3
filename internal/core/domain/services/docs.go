// Package services holds the domain services of dispatch: logic that spans
// several aggregates and has no natural single owner.
//
//   - ZoneResolver: first-match geofencing and nearest-zone fallback
//   - CapacityValidator: sums a run's orders against a vehicle
//   - ZoneRebalancer: greedy, centroid-based load balancing between zones
//   - FleetAvailabilityIndex: drivers and vehicles committed on a date
//
// Services are pure: they read aggregates and return decisions. Persisting
// those decisions under the right concurrency guarantees is the job of the
// application layer.
package services
