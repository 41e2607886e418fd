package domain

// GeofenceStatus is the outcome of evaluating a location sample against
// an outlet's fence.
type GeofenceStatus int

const (
	// GeofenceValid: the sample is inside the effective radius, or the
	// outlet explicitly carries no fence (radius 0).
	GeofenceValid GeofenceStatus = iota
	// GeofenceTooFar: the sample is outside the effective radius.
	GeofenceTooFar
	// GeofenceBlocked: the outlet has no parseable location; evaluation
	// is impossible until the outlet record is corrected.
	GeofenceBlocked
)

func (s GeofenceStatus) String() string {
	switch s {
	case GeofenceValid:
		return "valid"
	case GeofenceTooFar:
		return "too_far"
	case GeofenceBlocked:
		return "blocked"
	}
	return "unknown"
}

// GeofenceEvaluation carries the decision plus the measured distance.
// Distance is nil when the outlet location could not be parsed.
type GeofenceEvaluation struct {
	Status          GeofenceStatus
	DistanceMeters  *float64
	EffectiveRadius int
}

// EvaluateGeofence decides whether a check-in at the given coordinate
// is physically valid for the outlet.
//
// An unparseable outlet location blocks evaluation before any distance
// is computed. Radius 0 is the explicit "unrestricted" policy and
// passes regardless of distance; otherwise the outlet's own radius is
// enforced when positive, the fallback radius when not.
func EvaluateGeofence(outlet Outlet, current Coordinate, fallbackRadius int) GeofenceEvaluation {
	target, err := outlet.Coordinate()
	if err != nil {
		return GeofenceEvaluation{Status: GeofenceBlocked}
	}

	dist := DistanceMeters(current, target)

	if outlet.Radius == 0 {
		return GeofenceEvaluation{Status: GeofenceValid, DistanceMeters: &dist}
	}

	effective := fallbackRadius
	if outlet.Radius > 0 {
		effective = outlet.Radius
	}

	status := GeofenceTooFar
	if dist <= float64(effective) {
		status = GeofenceValid
	}

	return GeofenceEvaluation{
		Status:          status,
		DistanceMeters:  &dist,
		EffectiveRadius: effective,
	}
}
