// Package kernel provides the value objects shared by every aggregate of the
// dispatch domain:
//   - UUID: identifiers for zones, orders, runs, drivers and vehicles
//   - Coordinates: validated longitude/latitude pairs
//   - Date: a calendar day with its weekday name (mon..sun)
//
// Values are immutable and must be built through their constructors; the zero
// value of each fails Validate.
package kernel
