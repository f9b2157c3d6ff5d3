// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories and the unit of work for postgres, and the
// external collaborators (geocoder, route optimizer, notifier, event bus).
package ports
