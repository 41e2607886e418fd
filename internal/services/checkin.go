package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"field-visit-service/internal/domain"
	"field-visit-service/internal/ports"
)

// CheckInStep is the state of one check-in attempt.
type CheckInStep int

const (
	StepSelectingOutlet CheckInStep = iota
	StepAcquiringLocation
	StepBlocked
	StepTooFar
	StepValid
	StepCapturingPhoto
	StepSubmitting
	StepCompleted
	StepFailed
)

func (s CheckInStep) String() string {
	switch s {
	case StepSelectingOutlet:
		return "selecting_outlet"
	case StepAcquiringLocation:
		return "acquiring_location"
	case StepBlocked:
		return "blocked"
	case StepTooFar:
		return "too_far"
	case StepValid:
		return "valid"
	case StepCapturingPhoto:
		return "capturing_photo"
	case StepSubmitting:
		return "submitting"
	case StepCompleted:
		return "completed"
	case StepFailed:
		return "failed"
	}
	return "unknown"
}

// ErrSessionCanceled: the session was abandoned; late results are
// discarded, never applied.
var ErrSessionCanceled = errors.New("check-in: session canceled")

// ErrSessionChanged: the outlet or location changed underneath an
// in-flight operation; its result no longer applies.
var ErrSessionChanged = errors.New("check-in: session state changed during operation")

// GeofenceError rejects an advance out of a non-Valid fence state. It
// carries what the operator needs to see: how far they are and how far
// they are allowed to be.
type GeofenceError struct {
	Status         domain.GeofenceStatus
	DistanceMeters float64
	AllowedRadius  int
}

func (e *GeofenceError) Error() string {
	if e.Status == domain.GeofenceBlocked {
		return "outlet has no usable location; correct the outlet record before checking in"
	}
	return fmt.Sprintf("you are %.0f m from the outlet; check-in is allowed within %d m", e.DistanceMeters, e.AllowedRadius)
}

// CheckInWorkflow drives one check-in attempt: outlet selection,
// location acquisition, geofence validation, the server-side
// availability gate, and the photo-gated submission.
//
// Safe for concurrent use; network calls run outside the lock and
// their completions are applied only when the session state they were
// issued against is still current.
type CheckInWorkflow struct {
	gateway        ports.VisitGateway
	locations      ports.LocationProvider
	fallbackRadius int

	mu        sync.Mutex
	step      CheckInStep
	outlet    *domain.Outlet
	sample    *domain.LocationSample
	eval      domain.GeofenceEvaluation
	visitType string
	// gen increments on every outlet/location change and on cancel.
	// Completions carrying a stale gen are discarded.
	gen      uint64
	canceled bool
	visit    *domain.Visit
}

func NewCheckInWorkflow(gateway ports.VisitGateway, locations ports.LocationProvider, fallbackRadius int) *CheckInWorkflow {
	return &CheckInWorkflow{
		gateway:        gateway,
		locations:      locations,
		fallbackRadius: fallbackRadius,
		step:           StepSelectingOutlet,
		visitType:      "adhoc",
	}
}

// SetVisitType marks the attempt as scheduled or ad-hoc.
func (w *CheckInWorkflow) SetVisitType(t string) {
	w.mu.Lock()
	w.visitType = t
	w.mu.Unlock()
}

// Step returns the current state.
func (w *CheckInWorkflow) Step() CheckInStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Evaluation returns the latest geofence decision.
func (w *CheckInWorkflow) Evaluation() domain.GeofenceEvaluation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.eval
}

// Visit returns the created visit after completion.
func (w *CheckInWorkflow) Visit() *domain.Visit {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visit
}

// SelectOutlet chooses (or switches) the outlet. Any previous location
// evaluation is superseded.
func (w *CheckInWorkflow) SelectOutlet(outlet domain.Outlet) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.outlet = &outlet
	w.sample = nil
	w.eval = domain.GeofenceEvaluation{}
	w.gen++
	w.reevaluateLocked()
}

// RefreshLocation acquires a fresh sample and re-runs the geofence
// evaluation. A sample that finishes acquiring after the session moved
// on (outlet switched, session canceled) is discarded.
func (w *CheckInWorkflow) RefreshLocation(ctx context.Context) error {
	w.mu.Lock()
	if w.outlet == nil {
		w.mu.Unlock()
		return errors.New("check-in: no outlet selected")
	}
	gen := w.gen
	w.mu.Unlock()

	sample, err := w.locations.Current(ctx)
	if err != nil {
		return fmt.Errorf("check-in: acquire location: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.canceled {
		return ErrSessionCanceled
	}
	if w.gen != gen {
		// Superseded by a newer outlet/location change.
		return ErrSessionChanged
	}

	w.sample = &sample
	w.gen++
	w.reevaluateLocked()
	return nil
}

// reevaluateLocked recomputes the geofence decision from the current
// (outlet, location) pair. The decision is derived from session state,
// never from captured closures, so out-of-order completions cannot
// resurrect a stale result.
func (w *CheckInWorkflow) reevaluateLocked() {
	if w.outlet == nil {
		w.step = StepSelectingOutlet
		return
	}
	if w.sample == nil {
		w.step = StepAcquiringLocation
		return
	}

	w.eval = domain.EvaluateGeofence(*w.outlet, w.sample.Coordinate, w.fallbackRadius)

	// Only the pre-capture states track the fence; once the operator
	// is past the gate the step advances on its own transitions.
	switch w.step {
	case StepAcquiringLocation, StepBlocked, StepTooFar, StepValid:
		w.step = w.stepForEvalLocked()
	}
}

func (w *CheckInWorkflow) stepForEvalLocked() CheckInStep {
	switch w.eval.Status {
	case domain.GeofenceValid:
		return StepValid
	case domain.GeofenceTooFar:
		return StepTooFar
	default:
		return StepBlocked
	}
}

// Proceed advances from Valid to CapturingPhoto. Before the transition
// commits, the server is asked whether a visit is currently allowed at
// the outlet; an active-visit or already-visited rejection aborts the
// advance with the server's message intact.
func (w *CheckInWorkflow) Proceed(ctx context.Context) error {
	w.mu.Lock()
	switch w.step {
	case StepValid:
	case StepBlocked:
		w.mu.Unlock()
		return &GeofenceError{Status: domain.GeofenceBlocked}
	case StepTooFar:
		err := w.geofenceErrLocked()
		w.mu.Unlock()
		return err
	default:
		step := w.step
		w.mu.Unlock()
		return fmt.Errorf("check-in: cannot proceed from %s", step)
	}
	outletID := w.outlet.ID
	gen := w.gen
	w.mu.Unlock()

	err := w.gateway.CheckVisitAllowed(ctx, outletID)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.canceled {
		return ErrSessionCanceled
	}
	if w.gen != gen {
		return ErrSessionChanged
	}
	if err != nil {
		// Stay in Valid; the rejection is surfaced, not stored.
		return err
	}

	w.step = StepCapturingPhoto
	return nil
}

// Submit sends the check-in with the captured photo. Capture and
// submit are one action: there is no review gate in between.
//
// The geofence is re-validated against the latest sample immediately
// before the payload is built; a fix that drifted out of range since
// Proceed aborts the submission.
func (w *CheckInWorkflow) Submit(ctx context.Context, photo ports.Photo) (domain.Visit, error) {
	w.mu.Lock()
	// StepFailed allows retry: capturing a new photo and submitting
	// again is the recovery path.
	if w.step != StepCapturingPhoto && w.step != StepFailed {
		step := w.step
		w.mu.Unlock()
		return domain.Visit{}, fmt.Errorf("check-in: cannot submit from %s", step)
	}

	w.eval = domain.EvaluateGeofence(*w.outlet, w.sample.Coordinate, w.fallbackRadius)
	if w.eval.Status != domain.GeofenceValid {
		err := w.geofenceErrLocked()
		w.mu.Unlock()
		return domain.Visit{}, err
	}

	sub := ports.CheckInSubmission{
		OutletID:  w.outlet.ID,
		Location:  w.sample.Coordinate.LatLonString(),
		VisitType: w.visitType,
		Photo:     photo,
	}
	gen := w.gen
	w.step = StepSubmitting
	w.mu.Unlock()

	visit, err := w.gateway.CreateVisit(ctx, sub)

	w.mu.Lock()
	defer w.mu.Unlock()

	// The transport is never aborted; a completion landing after the
	// session was abandoned is processed but its result discarded.
	if w.canceled || w.gen != gen {
		return domain.Visit{}, ErrSessionCanceled
	}

	if err != nil {
		w.step = StepFailed
		return domain.Visit{}, err
	}

	w.visit = &visit
	w.step = StepCompleted
	w.outlet = nil
	w.sample = nil
	return visit, nil
}

// Cancel abandons the session. No network call is made; an in-flight
// submission keeps running but its result will be discarded.
func (w *CheckInWorkflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.canceled = true
	w.gen++
	w.outlet = nil
	w.sample = nil
	w.eval = domain.GeofenceEvaluation{}
	w.step = StepSelectingOutlet
}

func (w *CheckInWorkflow) geofenceErrLocked() error {
	e := &GeofenceError{Status: w.eval.Status, AllowedRadius: w.eval.EffectiveRadius}
	if w.eval.DistanceMeters != nil {
		e.DistanceMeters = *w.eval.DistanceMeters
	}
	return e
}
