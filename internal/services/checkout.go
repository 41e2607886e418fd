package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"field-visit-service/internal/domain"
	"field-visit-service/internal/ports"
)

// ErrCheckOutIncomplete: the mandatory report or transaction outcome
// is missing; submission stays disabled until both are supplied.
var ErrCheckOutIncomplete = errors.New("check-out: report and transaction outcome are required")

// CheckOutWorkflow drives the closing half of a visit: preloaded visit
// context, a mandatory report and transaction outcome, best-effort
// location, and the mirrored photo upload.
type CheckOutWorkflow struct {
	gateway   ports.VisitGateway
	locations ports.LocationProvider
	photos    ports.PhotoSource
	transform ports.PhotoTransform

	mu          sync.Mutex
	visit       *domain.Visit
	report      string
	transaction string
	submitting  bool
	completed   bool
}

func NewCheckOutWorkflow(
	gateway ports.VisitGateway,
	locations ports.LocationProvider,
	photos ports.PhotoSource,
	transform ports.PhotoTransform,
) *CheckOutWorkflow {
	return &CheckOutWorkflow{
		gateway:   gateway,
		locations: locations,
		photos:    photos,
		transform: transform,
	}
}

// Load preloads the visit being closed.
func (w *CheckOutWorkflow) Load(ctx context.Context, visitID int) error {
	visit, err := w.gateway.VisitByID(ctx, visitID)
	if err != nil {
		return fmt.Errorf("check-out: load visit %d: %w", visitID, err)
	}
	if visit.CheckOutAt != nil {
		return fmt.Errorf("check-out: visit %d is already closed", visitID)
	}

	w.mu.Lock()
	w.visit = &visit
	w.mu.Unlock()
	return nil
}

func (w *CheckOutWorkflow) SetReport(report string) {
	w.mu.Lock()
	w.report = report
	w.mu.Unlock()
}

// SetTransaction records whether the visit produced a transaction.
func (w *CheckOutWorkflow) SetTransaction(outcome string) error {
	if outcome != domain.TransactionYes && outcome != domain.TransactionNo {
		return fmt.Errorf("check-out: transaction must be %s or %s", domain.TransactionYes, domain.TransactionNo)
	}

	w.mu.Lock()
	w.transaction = outcome
	w.mu.Unlock()
	return nil
}

// CanSubmit reports whether the mandatory fields are filled.
func (w *CheckOutWorkflow) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *CheckOutWorkflow) canSubmitLocked() bool {
	return w.visit != nil &&
		strings.TrimSpace(w.report) != "" &&
		w.transaction != "" &&
		!w.completed
}

// Completed reports whether the check-out went through.
func (w *CheckOutWorkflow) Completed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.completed
}

// Submit closes the visit. Location acquisition is best-effort: a
// device without a fix sends an empty location rather than blocking
// the check-out. The photo is mandatory and is mirrored before upload.
// On failure the form stays populated for retry.
func (w *CheckOutWorkflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return errors.New("check-out: submission already in progress")
	}
	if !w.canSubmitLocked() {
		w.mu.Unlock()
		return ErrCheckOutIncomplete
	}
	w.submitting = true
	visitID := w.visit.ID
	report := w.report
	transaction := w.transaction
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	location := ""
	if sample, err := w.locations.Current(ctx); err != nil {
		log.Printf("op=checkout.location visit=%d err=%v (submitting without fix)", visitID, err)
	} else {
		location = sample.Coordinate.LatLonString()
	}

	photo, err := w.photos.Capture(ctx)
	if err != nil {
		return fmt.Errorf("check-out: capture photo: %w", err)
	}

	if w.transform != nil {
		photo, err = w.transform(photo)
		if err != nil {
			return fmt.Errorf("check-out: transform photo: %w", err)
		}
	}

	sub := ports.CheckOutSubmission{
		Location:    location,
		Photo:       photo,
		Transaction: transaction,
		Report:      report,
	}

	if err := w.gateway.CompleteVisit(ctx, visitID, sub); err != nil {
		return err
	}

	w.mu.Lock()
	w.completed = true
	w.mu.Unlock()
	return nil
}
