package domain

import "testing"

func TestEvaluateGeofenceAtOutlet(t *testing.T) {
	outlet := Outlet{ID: 1, Location: "-6.2088,106.8456", Radius: 50}
	current := Coordinate{Lat: -6.2088, Lon: 106.8456}

	eval := EvaluateGeofence(outlet, current, 100)
	if eval.Status != GeofenceValid {
		t.Fatalf("status = %v, want valid", eval.Status)
	}
	if eval.DistanceMeters == nil || *eval.DistanceMeters > 1 {
		t.Fatalf("distance = %v, want ~0", eval.DistanceMeters)
	}
	if eval.EffectiveRadius != 50 {
		t.Fatalf("effective radius = %d, want 50", eval.EffectiveRadius)
	}
}

func TestEvaluateGeofenceTooFar(t *testing.T) {
	outlet := Outlet{ID: 1, Location: "-6.2088,106.8456", Radius: 50}
	current := Coordinate{Lat: -6.5, Lon: 107.0}

	eval := EvaluateGeofence(outlet, current, 100)
	if eval.Status != GeofenceTooFar {
		t.Fatalf("status = %v, want too_far", eval.Status)
	}
	if eval.DistanceMeters == nil || *eval.DistanceMeters < 50000 {
		t.Fatalf("distance = %v, want > 50000", eval.DistanceMeters)
	}
}

func TestEvaluateGeofenceZeroRadiusUnrestricted(t *testing.T) {
	outlet := Outlet{ID: 1, Location: "-6.2088,106.8456", Radius: 0}
	// Hundreds of kilometers away; radius 0 still passes.
	current := Coordinate{Lat: -8.65, Lon: 115.21}

	eval := EvaluateGeofence(outlet, current, 100)
	if eval.Status != GeofenceValid {
		t.Fatalf("status = %v, want valid for radius 0", eval.Status)
	}
}

func TestEvaluateGeofenceBlockedLocations(t *testing.T) {
	current := Coordinate{Lat: -6.2088, Lon: 106.8456}

	for _, loc := range []string{"", "not-a-pair", "1.0", "1.0,2.0,3.0", "abc,def"} {
		outlet := Outlet{ID: 1, Location: loc, Radius: 50}
		eval := EvaluateGeofence(outlet, current, 100)
		if eval.Status != GeofenceBlocked {
			t.Errorf("location %q: status = %v, want blocked", loc, eval.Status)
		}
		if eval.DistanceMeters != nil {
			t.Errorf("location %q: distance computed for blocked outlet", loc)
		}
	}
}

func TestEvaluateGeofenceFallbackRadius(t *testing.T) {
	// Negative radius falls through to the configured fallback.
	outlet := Outlet{ID: 1, Location: "-6.2088,106.8456", Radius: -1}
	near := Coordinate{Lat: -6.2090, Lon: 106.8456} // ~22 m south

	eval := EvaluateGeofence(outlet, near, 100)
	if eval.Status != GeofenceValid {
		t.Fatalf("status = %v, want valid within fallback", eval.Status)
	}
	if eval.EffectiveRadius != 100 {
		t.Fatalf("effective radius = %d, want fallback 100", eval.EffectiveRadius)
	}

	eval = EvaluateGeofence(outlet, near, 10)
	if eval.Status != GeofenceTooFar {
		t.Fatalf("status = %v, want too_far outside fallback", eval.Status)
	}
}
