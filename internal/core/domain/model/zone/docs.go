// Package zone models the delivery zones orders are geofenced into and the
// templates zones are created from.
//
// The package includes:
//   - Zone: a polygon with active weekdays, a target driver count and a display order
//   - Weekdays: a normalized subset of mon..sun
//   - Template and TemplateCatalog: the built-in "weekday" (2 zones, mon-thu)
//     and "weekend" (5 zones, fri-sun) templates plus any loaded from YAML
//
// Overlapping zones are resolved by display order, lowest first; zones are
// never merged or compared by area.
package zone
