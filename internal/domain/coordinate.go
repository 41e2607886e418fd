package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadiusMeters = 6371000.0

// Immutable geographic coordinate (latitude, longitude) with an
// optional horizontal accuracy in meters as reported by the sensor.
type Coordinate struct {
	Lat      float64
	Lon      float64
	Accuracy float64
}

// Render the coordinate in the backend's "lat,lon" wire form.
func (c Coordinate) LatLonString() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// ParseLatLon parses a strict "lat,lon" pair. Anything other than two
// comma-separated finite numbers is rejected.
func ParseLatLon(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("parse lat,lon %q: expected 2 fields, got %d", s, len(parts))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse lat,lon %q: latitude: %w", s, err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse lat,lon %q: longitude: %w", s, err)
	}

	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinate{}, fmt.Errorf("parse lat,lon %q: non-finite value", s)
	}

	return Coordinate{Lat: lat, Lon: lon}, nil
}

// DistanceMeters computes the great-circle distance between two points
// using the Haversine formula.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
