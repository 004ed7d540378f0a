package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Position is a WGS84 coordinate in decimal degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Fence is a circular acceptance region around a fixed venue coordinate.
type Fence struct {
	Center       Position
	RadiusMeters float64
}

// Distance returns the great-circle distance between two positions in meters.
func Distance(a, b Position) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// DistanceTo returns the distance from p to the fence center in meters.
func (f Fence) DistanceTo(p Position) float64 {
	return Distance(f.Center, p)
}

// Contains reports whether p falls within the fence radius.
func (f Fence) Contains(p Position) bool {
	return f.DistanceTo(p) <= f.RadiusMeters
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
