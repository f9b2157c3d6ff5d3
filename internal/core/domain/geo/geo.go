// Package geo holds the pure geometric functions behind geofencing:
// point-in-polygon, polygon centroid and great-circle distance.
//
// Points are [lng, lat] in degrees. A Ring is a closed polygon ring whose
// last point repeats the first.
package geo

import (
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
)

// EarthRadiusKm is the mean Earth radius used by HaversineKm.
const EarthRadiusKm = 6371.0

type Point struct {
	Lng float64
	Lat float64
}

type Ring []Point

// ValidateRing requires a closed ring of at least four points with at least
// three distinct vertices.
func ValidateRing(ring Ring) error {
	if len(ring) < 4 {
		return errs.NewGeometryError(fmt.Sprintf("ring has %d points, need at least 4", len(ring)))
	}
	if ring[0] != ring[len(ring)-1] {
		return errs.NewGeometryError("ring is not closed")
	}
	if n := distinctVertices(ring); n < 3 {
		return errs.NewGeometryError(fmt.Sprintf("ring has %d distinct points, need at least 3", n))
	}
	return nil
}

// IsPointInZone validates ring and reports whether p lies inside it.
func IsPointInZone(p Point, ring Ring) (bool, error) {
	if err := ValidateRing(ring); err != nil {
		return false, err
	}
	return Contains(ring, p), nil
}

// Contains casts a horizontal ray from p and counts edge crossings. ring
// must already have passed ValidateRing.
//
// The crossing test evaluates (yi > y) != (yj > y) first; for a horizontal
// edge both sides are equal, so the slope term with yj-yi in the denominator
// is never computed.
func Contains(ring Ring, p Point) bool {
	inside := false
	x, y := p.Lng, p.Lat
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat

		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
	}
	return inside
}

// Centroid is the arithmetic mean of the ring's vertices without the
// duplicated closing vertex.
func Centroid(ring Ring) (Point, error) {
	if err := ValidateRing(ring); err != nil {
		return Point{}, err
	}

	open := ring[:len(ring)-1]
	var sumLng, sumLat float64
	for _, p := range open {
		sumLng += p.Lng
		sumLat += p.Lat
	}
	n := float64(len(open))
	return Point{Lng: sumLng / n, Lat: sumLat / n}, nil
}

// HaversineKm returns the great-circle distance between a and b.
func HaversineKm(a Point, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Rectangle returns the closed ring of an axis-aligned box.
func Rectangle(minLng, minLat, maxLng, maxLat float64) Ring {
	return Ring{
		{Lng: minLng, Lat: minLat},
		{Lng: maxLng, Lat: minLat},
		{Lng: maxLng, Lat: maxLat},
		{Lng: minLng, Lat: maxLat},
		{Lng: minLng, Lat: minLat},
	}
}

func distinctVertices(ring Ring) int {
	seen := make(map[Point]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
