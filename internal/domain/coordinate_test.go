package domain

import (
	"math"
	"testing"
)

func TestDistanceMetersIdentity(t *testing.T) {
	points := []Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: -6.2088, Lon: 106.8456},
		{Lat: 51.5074, Lon: -0.1278},
	}

	for _, p := range points {
		if d := DistanceMeters(p, p); d != 0 {
			t.Errorf("distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceMetersSymmetry(t *testing.T) {
	a := Coordinate{Lat: -6.2088, Lon: 106.8456}
	b := Coordinate{Lat: -6.5, Lon: 107.0}

	ab := DistanceMeters(a, b)
	ba := DistanceMeters(b, a)

	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance not symmetric: a->b=%v b->a=%v", ab, ba)
	}
	if ab <= 0 {
		t.Fatalf("distance between distinct points = %v, want > 0", ab)
	}
}

func TestDistanceMetersKnownPair(t *testing.T) {
	// Jakarta city center to a point ~38 km southeast.
	a := Coordinate{Lat: -6.2088, Lon: 106.8456}
	b := Coordinate{Lat: -6.5, Lon: 107.0}

	d := DistanceMeters(a, b)
	if d < 30000 || d > 50000 {
		t.Fatalf("distance = %v m, want within [30000, 50000]", d)
	}
}

func TestParseLatLon(t *testing.T) {
	c, err := ParseLatLon("-6.2088,106.8456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != -6.2088 || c.Lon != 106.8456 {
		t.Fatalf("parsed %+v", c)
	}

	if _, err := ParseLatLon(" -6.2088 , 106.8456 "); err != nil {
		t.Fatalf("whitespace pair rejected: %v", err)
	}

	bad := []string{"", "abc", "1.0", "1.0,2.0,3.0", "x,2.0", "1.0,y", "NaN,2.0"}
	for _, s := range bad {
		if _, err := ParseLatLon(s); err == nil {
			t.Errorf("ParseLatLon(%q) accepted, want error", s)
		}
	}
}

func TestLatLonStringRoundTrip(t *testing.T) {
	c := Coordinate{Lat: -6.2088, Lon: 106.8456}

	parsed, err := ParseLatLon(c.LatLonString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Lat != c.Lat || parsed.Lon != c.Lon {
		t.Fatalf("round trip = %+v, want %+v", parsed, c)
	}
}
