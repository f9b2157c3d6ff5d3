// Package fleet models the resources a run is bound to: Driver and Vehicle.
//
// Both carry an active/inactive Status; only active resources can be assigned.
// Per-date exclusivity is not a property of a single driver or vehicle and is
// enforced where runs are stored.
package fleet
