package geo

import "math"

// EarthRadiusKm is the mean earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

type Point struct {
	Lat float64
	Lng float64
}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm is the haversine distance between a and b in kilometres.
func DistanceKm(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Within reports whether b lies inside radiusKm of a.
func Within(a, b Point, radiusKm float64) bool {
	return DistanceKm(a, b) <= radiusKm
}

// BoundingBox returns the lat/lng window that contains every point within
// radiusKm of center. It is a cheap SQL prefilter; callers still check
// DistanceKm for the exact radius.
func BoundingBox(center Point, radiusKm float64) (min, max Point) {
	dLat := radiusKm / EarthRadiusKm * 180 / math.Pi
	dLng := 180.0
	if c := math.Cos(toRad(center.Lat)); c > 1e-9 {
		dLng = math.Min(180, dLat/c)
	}

	min = Point{Lat: math.Max(-90, center.Lat-dLat), Lng: center.Lng - dLng}
	max = Point{Lat: math.Min(90, center.Lat+dLat), Lng: center.Lng + dLng}
	return min, max
}
